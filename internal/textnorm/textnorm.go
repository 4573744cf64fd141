// Package textnorm cleans catalog and intent text before it is tokenized.
package textnorm

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	// Anything that is not a letter, digit or whitespace. Letters include Hangul.
	punctuationRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
)

// StripMarkup removes HTML tags and decodes entities.
// Search APIs wrap matched terms in <b> tags inside words, so tags are removed without inserting spaces.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CollapseSpaces(s)
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return CollapseSpaces(b.String())
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Normalize lowercases and applies NFKC so full-width and compatibility forms compare equal.
func Normalize(s string) string {
	return norm.NFKC.String(strings.ToLower(s))
}

// StripPunctuation replaces punctuation runs with a single space.
func StripPunctuation(s string) string {
	return CollapseSpaces(punctuationRegex.ReplaceAllString(s, " "))
}

// CollapseSpaces trims and collapses internal whitespace.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}

// Fields normalizes s and splits it into punctuation-free words.
func Fields(s string) []string {
	return strings.Fields(StripPunctuation(Normalize(StripMarkup(s))))
}

// RuneLen returns the number of characters in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
