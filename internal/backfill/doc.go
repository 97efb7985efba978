// Package backfill rebuilds the catalog from the full issue history.
//
// Processor.Run takes every historical trigger, drops records that are not
// reading-list items, and skips issues that already have an entry. Each new
// issue becomes an opened event at its creation time and, when the issue is
// already closed, a closed event at its closing time. Metadata misses and
// failures store not_found placeholders. Lookups are paced to stay under
// provider rate limits. The collection is sorted by issue number and written
// once at the end, so replaying the same history twice is a no-op.
package backfill
