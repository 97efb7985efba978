package textutil

import "strings"

// SecureURL rewrites a plain http link to https. Other values pass through.
func SecureURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "http://") {
		return "https://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}

// JoinAuthors joins non-empty author names with ", ". It returns fallback
// when no names remain.
func JoinAuthors(authors []string, fallback string) string {
	names := make([]string, 0, len(authors))
	for _, author := range authors {
		if author = NormalizeSpace(author); author != "" {
			names = append(names, author)
		}
	}
	if len(names) == 0 {
		return fallback
	}
	return strings.Join(names, ", ")
}

// Ternary returns a when cond holds and b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
