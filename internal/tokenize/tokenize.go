// Package tokenize provides the shared text normalization used both when
// indexing documents and when extracting terms from a search query. Using
// one rule for both guarantees query tokens can match document tokens.
package tokenize

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it on every non-alphanumeric boundary.
// Punctuation-only input yields no tokens. There is no stemming and no
// fuzzy matching; a token matches only itself.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Fields flattens and tokenizes a document's searchable field values.
func Fields(values ...string) []string {
	var tokens []string
	for _, v := range values {
		tokens = append(tokens, Tokenize(v)...)
	}
	return tokens
}
