// Package textutil provides small text helpers shared by the catalog and the
// metadata providers.
//
// The primary use cases are:
//   - Folding book titles for case-insensitive comparison
//   - Collapsing whitespace in titles taken from issue headers
//   - Upgrading provider image links to https
//   - Joining author lists into the stored display form
package textutil
