// Package googlebooks provides the minimal Google Books API client used to
// resolve titles.
//
// Searches use the volumes endpoint with an intitle: query. The API key is
// optional; anonymous requests work at low volume. Volumes are mapped onto
// metadata.Candidate with image links ordered largest first.
package googlebooks
