package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// FoldTitle returns a case-folded form of title suitable for equality checks.
// Surrounding whitespace is ignored and inner runs collapse to one space.
func FoldTitle(title string) string {
	return cases.Fold().String(NormalizeSpace(title))
}

// SameTitle reports whether two titles match ignoring case and spacing.
func SameTitle(a, b string) bool {
	return FoldTitle(a) == FoldTitle(b)
}

// NormalizeSpace trims value and collapses whitespace runs to a single space.
func NormalizeSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
