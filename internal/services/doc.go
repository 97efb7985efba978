// Package services defines shared utilities consumed by the reconciliation
// engine and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, issue numbers, actions, and delivery
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can tell a
//     provider fault from a store fault without string matching.
//
// Use these helpers when wiring new integrations so operational behaviour
// (error handling, observability) stays uniform across commands.
package services
