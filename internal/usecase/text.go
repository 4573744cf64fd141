package usecase

import (
	"strings"
	"unicode"

	"github.com/giftgenie/backend/internal/textnorm"
)

// tokenize splits a string into normalized tokens.
// Removes markup, punctuation, generic filler and pure numeric tokens.
// Single-character tokens survive only when they are Hangul, where one syllable is often a whole noun.
func tokenize(s string) []string {
	var tokens []string
	for _, word := range textnorm.Fields(s) {
		if textnorm.RuneLen(word) <= 1 && !isHangul(word) {
			continue
		}
		if isNumeric(word) {
			continue
		}
		if e, ok := giftLexicon[word]; ok && e.kind == termGeneric {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// lexicalOverlap returns the fraction of intent title tokens found in the product title.
// Korean product titles glue nouns together, so a token of two or more runes counts
// as found when it (or its canonical search term) appears anywhere in the normalized
// product text. A single-syllable token must equal a whole product word, or its
// canonical term of two or more runes must appear; "책" does not match "책상".
func lexicalOverlap(intentTitle, productTitle string) float64 {
	tokens := tokenize(intentTitle)
	if len(tokens) == 0 {
		return 0
	}

	fields := textnorm.Fields(productTitle)
	if len(fields) == 0 {
		return 0
	}
	haystack := strings.Join(fields, " ")
	words := make(map[string]bool, len(fields))
	for _, f := range fields {
		words[f] = true
	}

	matched := 0
	for _, t := range tokens {
		if tokenFound(t, haystack, words) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}

func tokenFound(token, haystack string, words map[string]bool) bool {
	if words[token] {
		return true
	}
	if textnorm.RuneLen(token) > 1 && strings.Contains(haystack, token) {
		return true
	}
	e, ok := giftLexicon[token]
	if !ok || e.canonical == "" || e.canonical == token {
		return false
	}
	if textnorm.RuneLen(e.canonical) > 1 {
		return strings.Contains(haystack, e.canonical)
	}
	return words[e.canonical]
}

// countMarkers returns how many of the markers occur in s.
func countMarkers(s string, markers []string) int {
	n := 0
	for _, m := range markers {
		if strings.Contains(s, m) {
			n++
		}
	}
	return n
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if !unicode.IsDigit(c) {
			return false
		}
	}
	return len(s) > 0
}

func isHangul(s string) bool {
	for _, c := range s {
		if !unicode.Is(unicode.Hangul, c) {
			return false
		}
	}
	return len(s) > 0
}

// appendUnique appends terms not already present, preserving order.
func appendUnique(dst []string, terms ...string) []string {
	for _, t := range terms {
		if t == "" {
			continue
		}
		dup := false
		for _, d := range dst {
			if d == t {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, t)
		}
	}
	return dst
}
