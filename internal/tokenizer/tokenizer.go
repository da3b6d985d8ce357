// Package tokenizer splits text into classified tokens, maps them to
// vocabulary ids and maps ids back to text.
//
// A Tokenizer does no work of its own beyond lexing; every id it hands out
// comes from the vocab.Table it was created with, so two Tokenizers sharing a
// table agree on every id.
package tokenizer

import (
	"github.com/example/go-tokenmaster/internal/vocab"
)

// Encoder maps text to vocabulary ids.
type Encoder interface {
	// Encode tokenizes text and returns the ids of its non-whitespace tokens.
	Encode(text string) ([]int64, error)
}

// Tokenizer lexes text and resolves tokens against a vocabulary table.
type Tokenizer struct {
	vocab *vocab.Table
}

var _ Encoder = (*Tokenizer)(nil)

// New returns a Tokenizer backed by table. The table is shared, not copied.
func New(table *vocab.Table) *Tokenizer {
	return &Tokenizer{vocab: table}
}

// Vocabulary returns the table backing t.
func (t *Tokenizer) Vocabulary() *vocab.Table {
	return t.vocab
}
