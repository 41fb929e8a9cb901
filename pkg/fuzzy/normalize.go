// Package fuzzy normalizes free-text queries so that near-identical
// playlist entries collapse to one dedup key.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeQuery lowercases, strips diacritics and punctuation, and
// collapses whitespace. "Beyoncé — Halo " and "beyonce halo" agree.
func (n *Normalizer) NormalizeQuery(query string) string {
	query = norm.NFKD.String(query)

	var result strings.Builder
	for _, r := range query {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	query = result.String()

	query = punctRegex.ReplaceAllString(query, " ")
	query = whitespaceRegex.ReplaceAllString(query, " ")

	return strings.TrimSpace(strings.ToLower(query))
}
