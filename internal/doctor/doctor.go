// Package doctor runs self-checks of the vocabulary and codec invariants.
package doctor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/example/go-tokenmaster/internal/vocab"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Engine is the tokenizer surface the round-trip checks exercise.
type Engine interface {
	Tokenize(text string) []tokenizer.Token
	Encode(text string) ([]int64, error)
	EncodedTokens(text string) ([]tokenizer.EncodedToken, error)
	Decode(ids []int64) string
	Vocabulary() *vocab.Table
}

// DefaultSamples are the inputs used for round-trip checks when Config.Samples
// is empty.
var DefaultSamples = []string{
	"Hello, World!",
	"The quick brown fox jumps over the lazy dog.",
	"  leading and trailing  \n\nblank lines\tand tabs  ",
	"Version 1.2.3 costs 3.14, not 42!",
	"CAFÉ über naïve 🙂",
}

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// NewEngine returns a tokenizer over a freshly seeded table. Defaults to
	// tokenizer.New(vocab.New()).
	NewEngine func() Engine
	// Samples are encoded and decoded by the round-trip checks.
	Samples []string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// check runs fn and prints one line for it.
func (r *Result) check(w io.Writer, name string, fn func() (string, error)) {
	detail, err := fn()
	if err != nil {
		r.fail(fmt.Sprintf("%s: %v", name, err))
		fmt.Fprintf(w, "%s %s: %v\n", FailMark, name, err)
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", PassMark, name, detail)
}

// Run executes all checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	newEngine := cfg.NewEngine
	if newEngine == nil {
		newEngine = func() Engine { return tokenizer.New(vocab.New()) }
	}

	samples := cfg.Samples
	if len(samples) == 0 {
		samples = DefaultSamples
	}

	// ---- seed vocabulary --------------------------------------------------
	res.check(w, "seed vocabulary", func() (string, error) {
		return checkSeeds(newEngine().Vocabulary())
	})

	// ---- bijection --------------------------------------------------------
	res.check(w, "vocabulary bijection", func() (string, error) {
		eng := newEngine()
		for _, s := range samples {
			if _, err := eng.Encode(s); err != nil {
				return "", err
			}
		}
		return checkBijection(eng.Vocabulary())
	})

	// ---- round trips ------------------------------------------------------
	res.check(w, "exact round trip", func() (string, error) {
		return checkExactRoundTrip(newEngine(), samples)
	})

	res.check(w, "lossy round trip", func() (string, error) {
		return checkLossyRoundTrip(newEngine(), samples)
	})

	// ---- decode input -----------------------------------------------------
	res.check(w, "decode input parsing", checkParseIDs)

	return res
}

func checkSeeds(table *vocab.Table) (string, error) {
	special := vocab.SpecialWords()
	common := vocab.CommonWords()

	want := len(special) + len(common)
	if table.Len() != want || table.SeedLen() != want {
		return "", fmt.Errorf("size %d (seeded %d), want %d", table.Len(), table.SeedLen(), want)
	}

	for i, w := range special {
		if id, ok := table.Lookup(w); !ok || id != int64(i) {
			return "", fmt.Errorf("special word %q has id %d, want %d", w, id, i)
		}
	}

	for i, w := range common {
		want := int64(len(special) + i)
		if id, ok := table.Lookup(w); !ok || id != want {
			return "", fmt.Errorf("common word %q has id %d, want %d", w, id, want)
		}
	}

	return fmt.Sprintf("%d special, %d common", len(special), len(common)), nil
}

func checkBijection(table *vocab.Table) (string, error) {
	entries := table.Entries()
	for i, e := range entries {
		if e.ID != int64(i) {
			return "", fmt.Errorf("id %d at position %d, ids must be dense", e.ID, i)
		}
		if id, ok := table.Lookup(e.Text); !ok || id != e.ID {
			return "", fmt.Errorf("forward lookup of %q gave %d, want %d", e.Text, id, e.ID)
		}
		if text, ok := table.Reverse(e.ID); !ok || text != e.Text {
			return "", fmt.Errorf("reverse lookup of %d gave %q, want %q", e.ID, text, e.Text)
		}
	}

	return fmt.Sprintf("%d entries", len(entries)), nil
}

func checkExactRoundTrip(eng Engine, samples []string) (string, error) {
	for _, s := range samples {
		records, err := eng.EncodedTokens(s)
		if err != nil {
			return "", err
		}
		if got := tokenizer.DecodeRecords(records); got != s {
			return "", fmt.Errorf("decoded %q, want %q", got, s)
		}
	}

	return fmt.Sprintf("%d samples", len(samples)), nil
}

func checkLossyRoundTrip(eng Engine, samples []string) (string, error) {
	for _, s := range samples {
		ids, err := eng.Encode(s)
		if err != nil {
			return "", err
		}

		var words []string
		for _, tok := range eng.Tokenize(s) {
			if tok.HasID() {
				words = append(words, vocab.Normalize(tok.Text))
			}
		}

		want := strings.Join(words, " ")
		if got := eng.Decode(ids); got != want {
			return "", fmt.Errorf("decoded %q, want %q", got, want)
		}
	}

	return fmt.Sprintf("%d samples", len(samples)), nil
}

func checkParseIDs() (string, error) {
	for _, in := range []string{"[1,2,3]", "1,2,3", "[[1,2],[3]]"} {
		ids, err := tokenizer.ParseIDs(in)
		if err != nil {
			return "", fmt.Errorf("%q: %w", in, err)
		}
		if len(ids) != 3 {
			return "", fmt.Errorf("%q parsed to %v", in, ids)
		}
	}

	for _, in := range []string{"not an array", "1, two, 3", "[1, [2, [3]]]"} {
		if _, err := tokenizer.ParseIDs(in); !errors.Is(err, tokenizer.ErrInvalidFormat) {
			return "", fmt.Errorf("%q accepted, want invalid format", in)
		}
	}

	return "ok", nil
}
