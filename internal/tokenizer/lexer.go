package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/example/go-tokenmaster/internal/vocab"
)

// Tokenize splits text into classified tokens. Every non-whitespace token is
// resolved against the vocabulary, learning it if needed.
//
// The tokens partition the input: concatenating their Text fields yields text
// unchanged. Empty and whitespace-only input produce no tokens.
func (t *Tokenizer) Tokenize(text string) []Token {
	if strings.TrimSpace(text) == "" {
		return []Token{}
	}

	spans := Segment(text)
	tokens := make([]Token, len(spans))
	for i, span := range spans {
		typ := Classify(span)
		id := NoID
		if typ != TypeWhitespace {
			id = t.vocab.Resolve(span)
		}
		tokens[i] = Token{Text: span, Type: typ, Index: i, ID: id}
	}

	return tokens
}

// Segment splits s into spans, left to right. Each span is one of:
//
//   - a maximal run of whitespace;
//   - a single rune that is neither whitespace nor a word rune;
//   - a maximal run of word runes (letters, digits, underscore).
//
// A run of ASCII digits followed by '.' and another run of ASCII digits is
// kept as one decimal span. Only one '.' is absorbed, so "1.2.3" splits into
// "1.2", ".", "3". Bytes that are not valid UTF-8 become one-byte spans.
func Segment(s string) []string {
	var spans []string

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])

		var end int
		switch {
		case unicode.IsSpace(r):
			end = scan(s, i, unicode.IsSpace)
		case isWordRune(r):
			end = scan(s, i, isWordRune)
			if isDigits(s[i:end]) && end < len(s) && s[end] == '.' {
				frac := scan(s, end+1, isWordRune)
				if frac > end+1 && isDigits(s[end+1:frac]) {
					end = frac
				}
			}
		default:
			end = i + size
		}

		spans = append(spans, s[i:end])
		i = end
	}

	return spans
}

// scan returns the end of the run of runes matching fn that starts at i.
func scan(s string, i int, fn func(rune) bool) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !fn(r) {
			break
		}
		i += size
	}
	return i
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Classify returns the type of a span. Rules are tried in order:
// whitespace, punctuation, number, special word, common word; anything else
// is TypeDefault.
func Classify(span string) Type {
	switch {
	case span != "" && strings.TrimFunc(span, unicode.IsSpace) == "":
		return TypeWhitespace
	case isPunctuation(span):
		return TypePunctuation
	case isNumber(span):
		return TypeNumber
	}

	word := vocab.Normalize(span)
	switch {
	case vocab.IsSpecial(word):
		return TypeSpecial
	case vocab.IsCommon(word):
		return TypeCommon
	default:
		return TypeDefault
	}
}

func isPunctuation(span string) bool {
	r, size := utf8.DecodeRuneInString(span)
	if size == 0 || size != len(span) {
		return false
	}
	return !unicode.IsSpace(r) && !isWordRune(r)
}

// isNumber matches digits, optionally followed by one '.' and more digits.
func isNumber(span string) bool {
	whole, frac, found := strings.Cut(span, ".")
	if !isDigits(whole) {
		return false
	}
	return !found || isDigits(frac)
}
