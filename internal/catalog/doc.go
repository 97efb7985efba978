// Package catalog owns the persisted reading list.
//
// A Store maps to one JSON file (books.json) that is always read and written
// in full. Load returns a Collection that callers mutate in memory; Save
// rewrites the file atomically with two-space indentation so diffs stay
// readable in the repository that hosts it. Lock serializes runs across
// processes with an advisory lock beside the file.
//
// Entries are keyed by the number of the issue that opened them. Entries
// written before that key existed are matched by case-folded title, and only
// by FindByTitle.
package catalog
