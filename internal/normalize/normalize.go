// Package normalize canonicalizes user-entered names so that visually identical
// tag and platform names resolve to the same stored row.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name returns s in Unicode NFC form with surrounding whitespace trimmed and
// inner whitespace runs collapsed to a single space.
//
//	"  Deep   Research " -> "Deep Research"
//	"Cafe\u0301"   -> "Caf\u00e9"
func Name(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// Color lowercases and trims a hex color so "#FF0000 " and "#ff0000" compare equal.
func Color(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
