// Package text holds the line handling shared by the tokenizer and its
// front ends.
package text

import (
	"errors"
	"strings"
)

// ErrEmptyText is returned when the input text is empty or whitespace-only.
var ErrEmptyText = errors.New("text is empty")

// NormalizeLineEndings converts CRLF and bare CR line breaks to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Normalize prepares text read from a file or stdin.
// It normalizes line endings to \n, trims surrounding whitespace,
// and rejects empty or whitespace-only input.
func Normalize(s string) (string, error) {
	s = strings.TrimSpace(NormalizeLineEndings(s))

	if s == "" {
		return "", ErrEmptyText
	}

	return s, nil
}

// Lines splits s on line breaks and drops lines that are empty or contain
// only whitespace. The kept lines are returned unmodified.
func Lines(s string) []string {
	raw := strings.Split(NormalizeLineEndings(s), "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}
