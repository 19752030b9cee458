// Package categorizer implements the keyword and fuzzy-similarity message
// categorization engine.
//
// Categorization runs in two stages, both gated by a similarity threshold:
//
//	Stage 1: Exact keywords  → normalized keyword membership in the message word set
//	Stage 2: Fuzzy fallback  → sequence similarity against the joined keyword string
//
// Exact matches always take precedence: keyword presence is a stronger
// signal than character-level similarity. When neither stage clears the
// threshold the configured default category is assigned with score 0.0.
package categorizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented letters and removes the combining marks,
// mapping e.g. "reunión" to "reunion" before the ASCII filter runs.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize cleans message text for matching: accented letters are folded
// to their base ASCII letter, anything outside [A-Za-z0-9] and whitespace
// is dropped, whitespace runs collapse to single spaces, and the result is
// trimmed and lowercased. Pure and deterministic; whitespace-only input
// yields the empty string.
func Normalize(text string) string {
	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(r)
		}
	}

	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// ExtractWords tokenizes normalized text into words. Splitting happens on
// whitespace only; no empty tokens are produced.
func ExtractWords(normalized string) []string {
	return strings.Fields(normalized)
}

// wordSet converts a token sequence into a membership set.
func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
