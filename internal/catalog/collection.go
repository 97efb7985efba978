package catalog

import (
	"sort"

	"booktrack/internal/textutil"
)

// Collection is the ordered, in-memory form of the catalog for one run.
type Collection struct {
	entries []Entry
}

// NewCollection wraps entries without copying them.
func NewCollection(entries ...Entry) *Collection {
	return &Collection{entries: entries}
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in stored order.
func (c *Collection) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// At returns the entry at index i.
func (c *Collection) At(i int) Entry {
	return c.entries[i]
}

// FindByKey returns the index of the first entry opened by issue number key.
func (c *Collection) FindByKey(key int) (int, bool) {
	if key <= 0 {
		return -1, false
	}
	for i, entry := range c.entries {
		if entry.IssueNumber == key {
			return i, true
		}
	}
	return -1, false
}

// FindByTitle returns the index of the first legacy entry (one without an
// issue number) whose title matches ignoring case.
func (c *Collection) FindByTitle(title string) (int, bool) {
	if textutil.NormalizeSpace(title) == "" {
		return -1, false
	}
	for i, entry := range c.entries {
		if entry.HasKey() {
			continue
		}
		if textutil.SameTitle(entry.Title, title) {
			return i, true
		}
	}
	return -1, false
}

// Insert appends entry.
func (c *Collection) Insert(entry Entry) {
	c.entries = append(c.entries, entry)
}

// Replace overwrites the entry at index i.
func (c *Collection) Replace(i int, entry Entry) {
	c.entries[i] = entry
}

// Remove deletes the entry at index i and returns it.
func (c *Collection) Remove(i int) Entry {
	removed := c.entries[i]
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return removed
}

// SortByIssueKey orders entries by issue number ascending. Legacy entries
// sort first and keep their relative order.
func (c *Collection) SortByIssueKey() {
	sort.SliceStable(c.entries, func(i, j int) bool {
		return c.entries[i].IssueNumber < c.entries[j].IssueNumber
	})
}
