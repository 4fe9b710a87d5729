// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import "strings"

// Email returns a normalized form of an email address suitable for
// storage and comparisons. Normalization currently trims surrounding
// whitespace and lower-cases the address.
func Email(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// ID trims surrounding whitespace from an opaque document id. Case is
// preserved because ids are compared byte-for-byte.
func ID(id string) string {
	return strings.TrimSpace(id)
}

// Path returns an app-relative view path with exactly one leading slash.
// An empty input maps to the root view.
func Path(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	return "/" + strings.TrimLeft(p, "/")
}
