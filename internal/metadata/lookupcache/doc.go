// Package lookupcache stores provider search results in SQLite.
//
// Cache wraps any metadata.Provider. Results are keyed by provider name,
// case-folded query, and result limit, and expire after a configurable TTL.
// Empty results are cached so repeated misses do not hit the network; provider
// failures are never cached. Backfill replays benefit most, since the same
// titles tend to be searched on every run.
package lookupcache
