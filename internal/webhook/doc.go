// Package webhook receives GitHub issues deliveries over HTTP and feeds them
// through the same tracker the CLI uses.
//
// Routes:
//
//	POST /webhook/github  issues deliveries; ping answers pong
//	GET  /healthz         liveness
//
// When a secret is configured every delivery must carry a valid
// X-Hub-Signature-256 header. Deliveries for another repository are ignored.
package webhook
