package main

import (
	"strings"
	"testing"
)

func TestReadInput(t *testing.T) {
	t.Run("uses argument verbatim", func(t *testing.T) {
		got, err := readInput([]string{"  hello  "}, strings.NewReader("ignored"))
		if err != nil {
			t.Fatalf("readInput returned error: %v", err)
		}
		if got != "  hello  " {
			t.Fatalf("expected argument unchanged, got %q", got)
		}
	})

	t.Run("falls back to stdin", func(t *testing.T) {
		got, err := readInput(nil, strings.NewReader(" from stdin \r\n"))
		if err != nil {
			t.Fatalf("readInput returned error: %v", err)
		}
		if got != "from stdin" {
			t.Fatalf("expected trimmed stdin text, got %q", got)
		}
	})

	t.Run("dash reads stdin", func(t *testing.T) {
		got, err := readInput([]string{"-"}, strings.NewReader("a\r\nb"))
		if err != nil {
			t.Fatalf("readInput returned error: %v", err)
		}
		if got != "a\nb" {
			t.Fatalf("expected normalized line endings, got %q", got)
		}
	})

	t.Run("fails when both empty", func(t *testing.T) {
		_, err := readInput(nil, strings.NewReader("   \n\t"))
		if err == nil {
			t.Fatal("expected error for empty input")
		}
	})
}
