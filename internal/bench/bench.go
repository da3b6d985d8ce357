// Package bench provides benchmarking primitives for the tokenmaster bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/go-tokenmaster/internal/tokenizer"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing of a single encode run.
type RunResult struct {
	Index        int
	Cold         bool // true for the first run, which learns the vocabulary
	Duration     time.Duration
	IDs          int
	TokensPerSec float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Durations extracts the run durations in order.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}
	return out
}

// ---------------------------------------------------------------------------
// Throughput
// ---------------------------------------------------------------------------

// CalcThroughput returns ids encoded per second.
// Returns 0 if dur is zero to avoid division by zero.
func CalcThroughput(ids int, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return float64(ids) / dur.Seconds()
}

// MeanThroughput averages TokensPerSec over runs.
func MeanThroughput(runs []RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}
	var total float64
	for _, r := range runs {
		total += r.TokensPerSec
	}
	return total / float64(len(runs))
}

// Run encodes text runs times with enc. The encoder keeps its vocabulary
// between runs, so only the first run pays for learning new entries.
func Run(enc tokenizer.Encoder, text string, runs int) ([]RunResult, error) {
	if runs < 1 {
		return nil, fmt.Errorf("runs must be at least 1, got %d", runs)
	}

	results := make([]RunResult, 0, runs)
	for i := range runs {
		start := time.Now()
		ids, err := enc.Encode(text)
		if err != nil {
			return nil, fmt.Errorf("run %d failed: %w", i+1, err)
		}
		dur := time.Since(start)

		results = append(results, RunResult{
			Index:        i,
			Cold:         i == 0,
			Duration:     dur,
			IDs:          len(ids),
			TokensPerSec: CalcThroughput(len(ids), dur),
		})
	}

	return results, nil
}

// ---------------------------------------------------------------------------
// Throughput threshold gate
// ---------------------------------------------------------------------------

// CheckThroughputThreshold returns an error if mean < threshold.
// A threshold of 0 disables the gate.
func CheckThroughputThreshold(mean, threshold float64) error {
	if threshold <= 0 {
		return nil
	}
	if mean < threshold {
		return fmt.Errorf("mean throughput %.0f ids/s is below threshold %.0f", mean, threshold)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

func micros(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %8s  %12s\n", "Run", "Cold", "US", "IDs", "IDs/s")
	fmt.Fprintln(sb, strings.Repeat("-", 48))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.1f  %8d  %12.0f\n",
			r.Index+1,
			cold,
			micros(r.Duration),
			r.IDs,
			r.TokensPerSec,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 48))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  %8s  %12s  (min)\n", "", "", micros(stats.Min), "", "")
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  %8s  %12s  (mean)\n", "", "", micros(stats.Mean), "", "")
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  %8s  %12s  (max)\n", "", "", micros(stats.Max), "", "")

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index        int     `json:"index"`
	Cold         bool    `json:"cold"`
	DurationUS   float64 `json:"duration_us"`
	IDs          int     `json:"ids"`
	TokensPerSec float64 `json:"ids_per_sec"`
}

type jsonStats struct {
	MinUS  float64 `json:"min_us"`
	MeanUS float64 `json:"mean_us"`
	MaxUS  float64 `json:"max_us"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinUS:  micros(stats.Min),
			MeanUS: micros(stats.Mean),
			MaxUS:  micros(stats.Max),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:        r.Index,
			Cold:         r.Cold,
			DurationUS:   micros(r.Duration),
			IDs:          r.IDs,
			TokensPerSec: r.TokensPerSec,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
