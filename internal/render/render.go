// Package render formats tokenizer output for the command line.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/go-tokenmaster/internal/stats"
	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/example/go-tokenmaster/internal/vocab"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// ParseFormat validates an output format name.
func ParseFormat(raw string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(raw))
	switch f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected %s|%s)", raw, FormatTable, FormatJSON)
	}
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// IDs renders ids in the compact bracketed form accepted by
// tokenizer.ParseIDs, e.g. [1,2,3].
func IDs(ids []int64) string {
	var sb strings.Builder
	writeIDs(&sb, ids)
	return sb.String()
}

// LineIDs renders line-grouped ids, e.g. [[1,2],[3]].
func LineIDs(lines [][]int64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeIDs(&sb, line)
	}
	sb.WriteByte(']')
	return sb.String()
}

func writeIDs(sb *strings.Builder, ids []int64) {
	sb.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(id, 10))
	}
	sb.WriteByte(']')
}

func idCell(id int64) string {
	if id < 0 {
		return "-"
	}
	return strconv.FormatInt(id, 10)
}

// TokensTable writes one row per token.
func TokensTable(w io.Writer, tokens []tokenizer.Token) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-6s  %-12s  %8s  %s\n", "Index", "Type", "ID", "Text")
	fmt.Fprintln(sb, strings.Repeat("-", 48))

	for _, t := range tokens {
		fmt.Fprintf(sb, "%-6d  %-12s  %8s  %s\n", t.Index, t.Type, idCell(t.ID), strconv.Quote(t.Text))
	}

	fmt.Fprintln(sb, strings.Repeat("-", 48))
	fmt.Fprintf(sb, "%d tokens\n", len(tokens))

	fmt.Fprint(w, sb.String())
}

// RecordsTable writes one row per encoded-token record.
func RecordsTable(w io.Writer, records []tokenizer.EncodedToken) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%8s  %-12s  %s\n", "ID", "Type", "Original")
	fmt.Fprintln(sb, strings.Repeat("-", 40))

	for _, r := range records {
		fmt.Fprintf(sb, "%8s  %-12s  %s\n", idCell(r.ID), r.Type, strconv.Quote(r.OriginalText))
	}

	fmt.Fprint(w, sb.String())
}

// StatsTable writes the statistics panel.
func StatsTable(w io.Writer, s stats.Stats) {
	sb := &strings.Builder{}

	for _, typ := range tokenizer.Types() {
		fmt.Fprintf(sb, "%-16s  %6d\n", stats.Label(typ), s.ByType[typ])
	}
	fmt.Fprintln(sb, strings.Repeat("-", 24))
	fmt.Fprintf(sb, "%-16s  %6d\n", "Total Tokens", s.Total)
	fmt.Fprintf(sb, "%-16s  %6d\n", "Words", s.Words)
	fmt.Fprintf(sb, "%-16s  %6d\n", "Unique IDs", s.UniqueIDs)
	fmt.Fprintf(sb, "%-16s  %6d\n", "Lines", s.Lines)
	if s.VocabSize > 0 {
		fmt.Fprintf(sb, "%-16s  %6d\n", "Vocabulary", s.VocabSize)
	}

	fmt.Fprint(w, sb.String())
}

// VocabTable writes one row per vocabulary entry.
func VocabTable(w io.Writer, entries []vocab.Entry) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%8s  %-6s  %s\n", "ID", "Seed", "Text")
	fmt.Fprintln(sb, strings.Repeat("-", 32))

	for _, e := range entries {
		seed := ""
		if e.Seeded {
			seed = "yes"
		}
		fmt.Fprintf(sb, "%8d  %-6s  %s\n", e.ID, seed, strconv.Quote(e.Text))
	}

	fmt.Fprintln(sb, strings.Repeat("-", 32))
	fmt.Fprintf(sb, "%d entries\n", len(entries))

	fmt.Fprint(w, sb.String())
}
