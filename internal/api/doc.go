// Package api holds the workflows shared by the CLI and the webhook receiver,
// plus the transport DTOs they print or return.
//
// # Resources
//
// OpenProvider, OpenResolver, OpenStore, OpenGitHub and OpenNotifier build
// the long-lived collaborators from a loaded config. The metadata provider is
// wrapped in the SQLite lookup cache when lookup_cache.enabled is set.
//
// # Workflows
//
// Tracker applies one issue trigger through reconcile.Runner and publishes the
// resulting notification. RunBackfill replays the full issue history.
// ResolveTitle runs only the metadata resolver. LoadTrigger turns CLI inputs
// (issue number, action, Actions event file) into an events.Trigger.
//
// # DTOs
//
// EntryView, OutcomeView and BackfillView use snake_case JSON tags matching
// the catalog file so list, track and webhook responses read the same.
package api
