// Package preflight provides readiness checks for the paths and services
// booktrack depends on. "booktrack doctor" runs RunAll and renders the
// results as a table.
//
// Checks that need a live client take it through Dependencies so callers
// decide which provider and repository are probed.
package preflight
