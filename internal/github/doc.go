// Package github talks to the GitHub REST API on behalf of booktrack.
//
// Client reads issues (one, or the full history for backfill) and posts
// issue comments. Issue.Trigger converts an API issue into the trigger shape
// the event normalizer consumes; pull requests are marked non-trackable.
//
// The webhook helpers verify X-Hub-Signature-256 headers and decode issues
// event payloads, whether they arrive over HTTP or from the file GitHub
// Actions points GITHUB_EVENT_PATH at.
package github
