// Package events turns raw issue triggers into lifecycle events.
//
// A Trigger is what the event source delivers: an issue number, its title, the
// action verb, and timestamps. Normalize maps the three known actions
// (opened, closed, deleted) onto an Event and reports false for anything else,
// so new upstream actions are ignored instead of failing the run.
package events
