// Package text prepares block text for the core PDF fonts.
package text

import (
	"strings"

	"golang.org/x/text/unicode/bidi"
	"golang.org/x/text/unicode/norm"
)

// Direction represents text direction
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// ParagraphDirection returns the direction of the first strong character in
// s, or LeftToRight when s has none.
func ParagraphDirection(s string) Direction {
	for _, r := range s {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return LeftToRight
		case bidi.R, bidi.AL:
			return RightToLeft
		}
	}
	return LeftToRight
}

// Compose returns s in NFC so decomposed accents map onto single code page
// characters.
func Compose(s string) string {
	return norm.NFC.String(s)
}

// Normalize composes s to NFC and collapses runs of spaces and tabs.
// Line breaks are kept.
func Normalize(s string) string {
	lines := strings.Split(Compose(s), "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}
