// Package reconcile applies lifecycle events to the catalog.
//
// Engine.Apply is an in-memory state machine over a catalog.Collection:
//
//	opened  -> resolve metadata, insert a reading entry
//	closed  -> find by issue number, then by legacy title; mark completed
//	deleted -> find by issue number only; remove
//
// Every call returns an Outcome naming what happened. Metadata misses and
// provider failures never escape as errors: in ModeSingle they end the event
// without touching the collection, in ModeBackfill they insert a placeholder
// entry flagged not_found. Opened does not check for an existing entry with
// the same issue number, so a repeated opened delivery inserts a second entry.
//
// Runner wraps the engine with the catalog lock and the load/save cycle used
// by the single-event paths (CLI and webhook).
package reconcile
