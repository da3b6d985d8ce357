package main

import (
	"errors"
	"fmt"
	"io"

	textpkg "github.com/example/go-tokenmaster/internal/text"
)

// readInput returns the first positional argument, or stdin when there is
// none or it is "-". Arguments are used verbatim; stdin has its line endings
// normalized and surrounding whitespace trimmed.
func readInput(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}

	input, err := textpkg.Normalize(string(b))
	if errors.Is(err, textpkg.ErrEmptyText) {
		return "", fmt.Errorf("either provide text as an argument or pipe it on stdin")
	}

	return input, err
}
