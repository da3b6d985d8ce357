// Package stats summarizes a tokenized text for display.
package stats

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/example/go-tokenmaster/internal/vocab"
)

// Stats counts the tokens of one text.
type Stats struct {
	Total     int                    `json:"total"`
	ByType    map[tokenizer.Type]int `json:"by_type"`
	Words     int                    `json:"words"` // tokens that carry a vocabulary id
	UniqueIDs int                    `json:"unique_ids"`
	Lines     int                    `json:"lines"`
	VocabSize int                    `json:"vocab_size,omitempty"`
}

// Compute counts tokens by type, distinct vocabulary ids and lines. Lines is
// the number of whitespace tokens containing a newline plus one, or zero when
// there are no tokens. Every type is present in ByType, with zero counts
// included.
func Compute(tokens []tokenizer.Token) Stats {
	s := Stats{ByType: make(map[tokenizer.Type]int, len(tokenizer.Types()))}
	for _, typ := range tokenizer.Types() {
		s.ByType[typ] = 0
	}

	seen := roaring.New()
	breaks := 0
	for _, tok := range tokens {
		s.Total++
		s.ByType[tok.Type]++

		if tok.HasID() {
			s.Words++
			seen.Add(uint32(tok.ID)) //nolint:gosec // vocabulary ids are dense from zero
		}
		if tok.Type == tokenizer.TypeWhitespace && strings.Contains(tok.Text, "\n") {
			breaks++
		}
	}

	s.UniqueIDs = int(seen.GetCardinality())
	if s.Total > 0 {
		s.Lines = breaks + 1
	}

	return s
}

// Tokenizer is the part of tokenizer.Tokenizer that ForText needs.
type Tokenizer interface {
	Tokenize(text string) []tokenizer.Token
	Vocabulary() *vocab.Table
}

// ForText tokenizes text with tok and computes its statistics, including the
// vocabulary size after tokenization.
func ForText(tok Tokenizer, text string) Stats {
	s := Compute(tok.Tokenize(text))
	s.VocabSize = tok.Vocabulary().Len()
	return s
}

// Label returns the panel heading for a token type.
func Label(typ tokenizer.Type) string {
	switch typ {
	case tokenizer.TypeCommon:
		return "Common Words"
	case tokenizer.TypeSpecial:
		return "Special Tokens"
	case tokenizer.TypeNumber:
		return "Numbers"
	case tokenizer.TypePunctuation:
		return "Punctuation"
	case tokenizer.TypeWhitespace:
		return "Whitespace"
	default:
		return "Other"
	}
}
