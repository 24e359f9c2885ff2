// Package utils provides small helpers shared across handlers.
package utils

import (
	"strings"
	"unicode"
)

// Slugify converts an article title to its URL slug, e.g.
//
//	Slugify("Doctests are the Bee's Knees") == "doctests-are-the-bees-knees"
//
// Words are split on anything that is not alphanumeric or a quote; quotes
// are then stripped so contractions and possessives stay joined.
func Slugify(title string) string {
	isQuote := func(r rune) bool { return r == '\'' || r == '"' }

	words := strings.FieldsFunc(title, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || isQuote(r))
	})

	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Map(func(r rune) rune {
			if isQuote(r) {
				return -1
			}
			return unicode.ToLower(r)
		}, w)
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, "-")
}
