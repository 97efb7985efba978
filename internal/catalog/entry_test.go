package catalog_test

import (
	"encoding/json"
	"testing"
	"time"

	"booktrack/internal/catalog"
)

func TestEntryUnmarshalJoinsAuthorArray(t *testing.T) {
	var entry catalog.Entry
	payload := `{"title":"Good Omens","author":["Terry Pratchett","Neil Gaiman"],"image":"","status":"reading","start_date":"2023-01-02","end_date":null}`
	if err := json.Unmarshal([]byte(payload), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.Author != "Terry Pratchett, Neil Gaiman" {
		t.Fatalf("unexpected author: %q", entry.Author)
	}
	if entry.Title != "Good Omens" || entry.StartDate != "2023-01-02" {
		t.Fatalf("fields not decoded: %+v", entry)
	}
	if entry.EndDate != nil {
		t.Fatalf("expected nil end date, got %q", *entry.EndDate)
	}
}

func TestEntryUnmarshalStringAuthor(t *testing.T) {
	var entry catalog.Entry
	if err := json.Unmarshal([]byte(`{"title":"Dune","author":"Frank Herbert","issue_number":7}`), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry.Author != "Frank Herbert" || entry.IssueNumber != 7 {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestEntryUnmarshalRejectsBadAuthor(t *testing.T) {
	var entry catalog.Entry
	if err := json.Unmarshal([]byte(`{"title":"Dune","author":42}`), &entry); err == nil {
		t.Fatal("expected error for numeric author")
	}
}

func TestCompleteSetsEndDate(t *testing.T) {
	entry := catalog.Entry{Title: "Dune", Status: catalog.StatusReading}
	entry.Complete(time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC))
	if !entry.Completed() {
		t.Fatal("expected completed status")
	}
	if entry.EndDateValue() != "2024-03-09" {
		t.Fatalf("unexpected end date %q", entry.EndDateValue())
	}
}
