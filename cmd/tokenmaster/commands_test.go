package main

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-tokenmaster/internal/server"
	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/example/go-tokenmaster/internal/vocab"
)

// ---------------------------------------------------------------------------
// tokenize
// ---------------------------------------------------------------------------

func TestTokenizeCmd_Table(t *testing.T) {
	out, err := runCLI(t, "", "tokenize", "Hello, 42")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	for _, want := range []string{"special", "punctuation", "whitespace", "number", `"Hello"`, "4 tokens"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTokenizeCmd_JSON(t *testing.T) {
	out, err := runCLI(t, "", "tokenize", "--format", "json", "Hi 5")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}

	var tokens []map[string]any
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if len(tokens) != 3 {
		t.Fatalf("want 3 tokens, got %d", len(tokens))
	}

	if tokens[1]["vocabularyId"] != nil {
		t.Errorf("whitespace vocabularyId = %v; want null", tokens[1]["vocabularyId"])
	}

	if tokens[2]["type"] != "number" {
		t.Errorf("type = %v; want number", tokens[2]["type"])
	}
}

// ---------------------------------------------------------------------------
// encode
// ---------------------------------------------------------------------------

func TestEncodeCmd_Flat(t *testing.T) {
	out, err := runCLI(t, "", "encode", "the world")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if out != "[2,1]\n" {
		t.Errorf("output = %q; want %q", out, "[2,1]\n")
	}
}

func TestEncodeCmd_LearnsWithinOneInvocation(t *testing.T) {
	out, err := runCLI(t, "", "encode", "Gophers love Go, gophers!")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if out != "[136,137,50,138,136,139]\n" {
		t.Errorf("output = %q", out)
	}
}

func TestEncodeCmd_LinesFromStdin(t *testing.T) {
	out, err := runCLI(t, "alpha beta\r\n\r\ngamma\n", "encode", "--lines", "--format", "json")
	if err != nil {
		t.Fatalf("encode --lines: %v", err)
	}

	var lines [][]int64
	if err := json.Unmarshal([]byte(out), &lines); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	want := [][]int64{{136, 137}, {138}}
	if len(lines) != len(want) || len(lines[0]) != 2 || lines[0][0] != 136 || lines[1][0] != 138 {
		t.Errorf("lines = %v; want %v", lines, want)
	}
}

func TestEncodeCmd_RecordsTable(t *testing.T) {
	out, err := runCLI(t, "", "encode", "--records", "the world")
	if err != nil {
		t.Fatalf("encode --records: %v", err)
	}

	if !strings.Contains(out, "whitespace") || !strings.Contains(out, `"world"`) {
		t.Errorf("unexpected records table:\n%s", out)
	}
}

func TestEncodeCmd_LinesAndRecordsConflict(t *testing.T) {
	_, err := runCLI(t, "", "encode", "--lines", "--records", "x")
	if err == nil {
		t.Fatal("expected error for --lines with --records")
	}
}

func TestEncodeCmd_EmptyStdinFails(t *testing.T) {
	_, err := runCLI(t, "  \n", "encode")
	if err == nil {
		t.Fatal("expected error for empty stdin")
	}
}

// ---------------------------------------------------------------------------
// decode
// ---------------------------------------------------------------------------

func TestDecodeCmd(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"array", []string{"decode", "[2, 1]"}, "", "the world\n"},
		{"list", []string{"decode", "2,1"}, "", "the world\n"},
		{"unknown id", []string{"decode", "[2, 99999]"}, "", "the <UNK_99999>\n"},
		{"stdin", []string{"decode"}, "[[0],[1]]\n", "hello world\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, tt.stdin, tt.args...)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if out != tt.want {
				t.Errorf("output = %q; want %q", out, tt.want)
			}
		})
	}
}

func TestDecodeCmd_InvalidFormat(t *testing.T) {
	_, err := runCLI(t, "", "decode", "not an array")
	if !errors.Is(err, tokenizer.ErrInvalidFormat) {
		t.Fatalf("err = %v; want ErrInvalidFormat", err)
	}

	if !strings.Contains(err.Error(), "use [1,2,3] or 1,2,3") {
		t.Errorf("err = %v; want usage hint", err)
	}
}

func TestDecodeCmd_RecordsFile(t *testing.T) {
	tok := tokenizer.New(vocab.New())
	original := "  Hello,\tWorld!\n"

	records, err := tok.EncodedTokens(original)
	if err != nil {
		t.Fatalf("EncodedTokens: %v", err)
	}

	b, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "records.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := runCLI(t, "", "decode", "--format", "json", "--records", path)
	if err != nil {
		t.Fatalf("decode --records: %v", err)
	}

	var body map[string]string
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if body["text"] != original {
		t.Errorf("text = %q; want %q", body["text"], original)
	}
}

func TestDecodeCmd_MissingRecordsFile(t *testing.T) {
	_, err := runCLI(t, "", "decode", "--records", "/nonexistent/records.json")
	if err == nil {
		t.Fatal("expected error for missing records file")
	}
}

// ---------------------------------------------------------------------------
// stats
// ---------------------------------------------------------------------------

func TestStatsCmd_JSON(t *testing.T) {
	out, err := runCLI(t, "", "stats", "--format", "json", "the cat\nthe dog")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	var s struct {
		Total     int `json:"total"`
		UniqueIDs int `json:"unique_ids"`
		Lines     int `json:"lines"`
		VocabSize int `json:"vocab_size"`
	}
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if s.Total != 7 || s.UniqueIDs != 3 || s.Lines != 2 || s.VocabSize != 138 {
		t.Errorf("stats = %+v", s)
	}
}

func TestStatsCmd_Table(t *testing.T) {
	out, err := runCLI(t, "", "stats", "one two")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if !strings.Contains(out, "Total Tokens") {
		t.Errorf("output missing Total Tokens:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// vocab
// ---------------------------------------------------------------------------

func TestVocabCmd_PrefixAndLimit(t *testing.T) {
	out, err := runCLI(t, "", "vocab", "--format", "json", "--prefix", "the", "--vocab-list-limit", "2")
	if err != nil {
		t.Fatalf("vocab: %v", err)
	}

	var entries []vocab.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if len(entries) != 2 || entries[0].Text != "the" || entries[1].Text != "their" {
		t.Errorf("entries = %+v; want [the their]", entries)
	}
}

func TestVocabCmd_LearnAndSeedOnly(t *testing.T) {
	out, err := runCLI(t, "", "vocab", "--format", "json", "--learn", "zebra zone", "--prefix", "z")
	if err != nil {
		t.Fatalf("vocab: %v", err)
	}

	var entries []vocab.Entry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if len(entries) != 2 || entries[0].Text != "zebra" || entries[0].Seeded {
		t.Errorf("entries = %+v; want learned zebra, zone", entries)
	}

	out, err = runCLI(t, "", "vocab", "--format", "json", "--learn", "zebra", "--prefix", "z", "--seed-only")
	if err != nil {
		t.Fatalf("vocab --seed-only: %v", err)
	}

	if strings.TrimSpace(out) != "[]" {
		t.Errorf("seed-only output = %q; want []", out)
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []vocab.Entry{
		{Text: "a", ID: 0, Seeded: true},
		{Text: "b", ID: 1},
		{Text: "c", ID: 2, Seeded: true},
		{Text: "d", ID: 3, Seeded: true},
	}

	tests := []struct {
		name     string
		seedOnly bool
		limit    int
		want     string
	}{
		{"all", false, 0, "abcd"},
		{"limit", false, 2, "ab"},
		{"seed only", true, 0, "acd"},
		{"seed only with limit", true, 2, "ac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got strings.Builder
			for _, e := range filterEntries(entries, tt.seedOnly, tt.limit) {
				got.WriteString(e.Text)
			}
			if got.String() != tt.want {
				t.Errorf("filterEntries = %q; want %q", got.String(), tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// doctor, health
// ---------------------------------------------------------------------------

func TestDoctorCmd_Passes(t *testing.T) {
	out, err := runCLI(t, "", "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}

	if !strings.Contains(out, "doctor checks passed") {
		t.Errorf("output missing summary:\n%s", out)
	}
}

func TestHealthCmd_ProbesServer(t *testing.T) {
	ts := httptest.NewServer(server.NewHandler(tokenizer.New(vocab.New())))
	defer ts.Close()

	out, err := runCLI(t, "", "health", "--addr", ts.Listener.Addr().String())
	if err != nil {
		t.Fatalf("health: %v", err)
	}

	if out != "ok\n" {
		t.Errorf("output = %q; want ok", out)
	}
}

func TestHealthCmd_FailsWhenDown(t *testing.T) {
	ts := httptest.NewServer(server.NewHandler(tokenizer.New(vocab.New())))
	addr := ts.Listener.Addr().String()
	ts.Close()

	if _, err := runCLI(t, "", "health", "--addr", addr); err == nil {
		t.Fatal("expected error probing a closed server")
	}
}

// ---------------------------------------------------------------------------
// bench
// ---------------------------------------------------------------------------

func TestBenchCmd_JSON(t *testing.T) {
	out, err := runCLI(t, "", "bench", "--runs", "3", "--format", "json", "The quick brown fox.")
	if err != nil {
		t.Fatalf("bench: %v", err)
	}

	var report struct {
		Runs []struct {
			Cold bool `json:"cold"`
			IDs  int  `json:"ids"`
		} `json:"runs"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}

	if len(report.Runs) != 3 || !report.Runs[0].Cold || report.Runs[1].Cold {
		t.Errorf("runs = %+v", report.Runs)
	}

	if report.Runs[0].IDs != 5 {
		t.Errorf("ids = %d; want 5", report.Runs[0].IDs)
	}
}

func TestBenchCmd_RejectsZeroRuns(t *testing.T) {
	if _, err := runCLI(t, "", "bench", "--runs", "0", "x"); err == nil {
		t.Fatal("expected error for --runs 0")
	}
}

func TestBenchCmd_ThresholdGate(t *testing.T) {
	_, err := runCLI(t, "", "bench", "--runs", "1", "--min-ids-per-sec", "1e18", "hello")
	if err == nil || !strings.Contains(err.Error(), "below threshold") {
		t.Fatalf("err = %v; want threshold failure", err)
	}
}
