// Package metadata resolves free-text book titles to a single metadata record.
//
// A Provider performs one title search and returns ranked candidates. The
// Resolver asks for a small number of candidates, keeps the first one that
// carries a cover image (falling back to the first candidate), and normalizes
// it into a Match ready to be stored. An empty result is a miss, not an error;
// transport and decoding failures are reported wrapped in services.ErrExternal.
//
// Concrete providers live in the googlebooks and openlibrary subpackages, and
// lookupcache wraps any Provider with a SQLite-backed response cache.
package metadata
