package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"booktrack/internal/services"
)

// Webhook header names.
const (
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
	HeaderSignature = "X-Hub-Signature-256"
)

// ErrBadSignature is returned when a webhook signature does not verify.
var ErrBadSignature = errors.New("webhook signature mismatch")

// Repository identifies the repository in an event payload.
type Repository struct {
	FullName string `json:"full_name"`
}

// IssuesEvent is the payload of an issues webhook delivery.
type IssuesEvent struct {
	Action     string     `json:"action"`
	Issue      Issue      `json:"issue"`
	Repository Repository `json:"repository"`
}

// VerifySignature checks header (sha256=<hex>) against an HMAC of body.
func VerifySignature(secret string, body []byte, header string) error {
	digest, ok := strings.CutPrefix(strings.TrimSpace(header), "sha256=")
	if !ok {
		return fmt.Errorf("%w: missing sha256 prefix", ErrBadSignature)
	}
	got, err := hex.DecodeString(digest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrBadSignature
	}
	return nil
}

// Sign returns the X-Hub-Signature-256 value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// ParseIssuesEvent decodes an issues event payload.
func ParseIssuesEvent(body []byte) (IssuesEvent, error) {
	var event IssuesEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return IssuesEvent{}, services.Wrap(services.ErrValidation, "github", "parse event", "decode issues payload", err)
	}
	if event.Issue.Number <= 0 {
		return IssuesEvent{}, services.Wrap(services.ErrValidation, "github", "parse event", "payload has no issue number", nil)
	}
	return event, nil
}

// ReadEventFile decodes the event payload GitHub Actions writes to disk.
func ReadEventFile(path string) (IssuesEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return IssuesEvent{}, fmt.Errorf("read event file: %w", err)
	}
	return ParseIssuesEvent(data)
}
