package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk format for start and end dates.
const DateLayout = "2006-01-02"

// UnknownAuthor is stored when no author could be resolved.
const UnknownAuthor = "Unknown"

// Status is the lifecycle state of an entry.
type Status string

const (
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
)

// Entry is one tracked book.
type Entry struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Image         string  `json:"image"`
	Status        Status  `json:"status"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date"`
	IssueNumber   int     `json:"issue_number,omitempty"`
	NotFound      bool    `json:"not_found,omitempty"`
	GoogleBooksID string  `json:"google_books_id,omitempty"`
	OpenLibraryID string  `json:"open_library_key,omitempty"`
	ISBN          string  `json:"isbn,omitempty"`
	PublishedDate string  `json:"published_date,omitempty"`
	Description   string  `json:"description,omitempty"`
	PageCount     int     `json:"page_count,omitempty"`
}

// HasKey reports whether the entry carries an issue number.
func (e Entry) HasKey() bool {
	return e.IssueNumber > 0
}

// Completed reports whether the entry has been finished.
func (e Entry) Completed() bool {
	return e.Status == StatusCompleted
}

// Complete marks the entry finished on the given day. The status never moves
// back to reading.
func (e *Entry) Complete(at time.Time) {
	end := FormatDate(at)
	e.Status = StatusCompleted
	e.EndDate = &end
}

// EndDateValue returns the end date or an empty string.
func (e Entry) EndDateValue() string {
	if e.EndDate == nil {
		return ""
	}
	return *e.EndDate
}

// FormatDate renders t as a calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// UnmarshalJSON accepts the historical author shape (an array of names) and
// normalizes it to the single comma-joined string written today.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var raw struct {
		plain
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry(raw.plain)
	author, err := decodeAuthor(raw.Author)
	if err != nil {
		return fmt.Errorf("entry %q: %w", e.Title, err)
	}
	e.Author = author
	return nil
}

func decodeAuthor(raw json.RawMessage) (string, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return "", nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var names []string
		if err := json.Unmarshal(raw, &names); err != nil {
			return "", fmt.Errorf("decode author list: %w", err)
		}
		kept := names[:0]
		for _, name := range names {
			if name = strings.TrimSpace(name); name != "" {
				kept = append(kept, name)
			}
		}
		return strings.Join(kept, ", "), nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return "", fmt.Errorf("decode author: %w", err)
	}
	return name, nil
}
