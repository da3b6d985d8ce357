package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/go-tokenmaster/internal/text"
)

// ErrUnresolvedToken reports a non-whitespace token without a vocabulary id.
// Tokenize resolves every such token, so seeing it means the lexer and the
// vocabulary disagree.
var ErrUnresolvedToken = errors.New("token has no vocabulary id")

// Encode tokenizes text and returns the vocabulary ids of its non-whitespace
// tokens in order.
func (t *Tokenizer) Encode(input string) ([]int64, error) {
	return ids(t.Tokenize(input))
}

// EncodeByLine encodes each non-blank line of input separately. All lines
// share the tokenizer's vocabulary, so a word has the same id on every line.
func (t *Tokenizer) EncodeByLine(input string) ([][]int64, error) {
	lines := text.Lines(input)

	out := make([][]int64, 0, len(lines))
	for n, line := range lines {
		lineIDs, err := t.Encode(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		out = append(out, lineIDs)
	}

	return out, nil
}

// EncodedTokens returns the record form of input: one EncodedToken per token,
// whitespace included.
func (t *Tokenizer) EncodedTokens(input string) ([]EncodedToken, error) {
	tokens := t.Tokenize(input)

	records := make([]EncodedToken, len(tokens))
	for i, tok := range tokens {
		if err := checkResolved(tok); err != nil {
			return nil, err
		}
		records[i] = EncodedToken{ID: tok.ID, OriginalText: tok.Text, Type: tok.Type}
	}

	return records, nil
}

func ids(tokens []Token) ([]int64, error) {
	out := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type == TypeWhitespace {
			continue
		}
		if err := checkResolved(tok); err != nil {
			return nil, err
		}
		out = append(out, tok.ID)
	}
	return out, nil
}

func checkResolved(tok Token) error {
	if tok.Type != TypeWhitespace && !tok.HasID() {
		return fmt.Errorf("%w: %q at index %d", ErrUnresolvedToken, tok.Text, tok.Index)
	}
	return nil
}

// UnknownPlaceholder is the text Decode emits for an id missing from the
// vocabulary.
func UnknownPlaceholder(id int64) string {
	return fmt.Sprintf("<UNK_%d>", id)
}

// Decode maps ids back to their normalized text and joins them with single
// spaces. Ids that were never assigned decode to UnknownPlaceholder(id).
//
// Decoding is lossy: casing and original spacing are not recorded in the
// vocabulary. Use DecodeRecords for an exact round trip.
func (t *Tokenizer) Decode(ids []int64) string {
	words := make([]string, len(ids))
	for i, id := range ids {
		w, ok := t.vocab.Reverse(id)
		if !ok {
			w = UnknownPlaceholder(id)
		}
		words[i] = w
	}
	return strings.Join(words, " ")
}

// DecodeString parses input with ParseIDs and decodes the result.
func (t *Tokenizer) DecodeString(input string) (string, error) {
	parsed, err := ParseIDs(input)
	if err != nil {
		return "", err
	}
	return t.Decode(parsed), nil
}

// DecodeRecords concatenates the original text of each record. Applied to the
// output of EncodedTokens it reproduces the encoded text exactly.
func DecodeRecords(records []EncodedToken) string {
	var sb strings.Builder
	for _, r := range records {
		sb.WriteString(r.OriginalText)
	}
	return sb.String()
}
