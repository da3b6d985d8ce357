package vocab

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SeedsSpecialThenCommon(t *testing.T) {
	tbl := New()

	assert.Equal(t, 136, tbl.Len())
	assert.Equal(t, 136, tbl.SeedLen())

	cases := []struct {
		word string
		id   int64
	}{
		{"hello", 0},
		{"world", 1},
		{"the", 2},
		{"now", 74},
		{"us", 101},
		{"very", 102},
		{"able", 135},
	}
	for _, tc := range cases {
		id, ok := tbl.Lookup(tc.word)
		require.True(t, ok, tc.word)
		assert.Equal(t, tc.id, id, tc.word)
	}
}

func TestNew_DuplicatesKeepFirstID(t *testing.T) {
	tbl := New()

	// "any" and "other" are special and repeated in the common list.
	anyID, ok := tbl.Lookup("any")
	require.True(t, ok)
	assert.Equal(t, int64(96), anyID)

	otherID, ok := tbl.Lookup("other")
	require.True(t, ok)
	assert.Equal(t, int64(71), otherID)

	seen := make(map[string]int64)
	for _, e := range tbl.Entries() {
		prev, dup := seen[e.Text]
		assert.False(t, dup, "%q assigned twice (%d and %d)", e.Text, prev, e.ID)
		seen[e.Text] = e.ID
	}
}

func TestNew_TablesAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.Resolve("zebra")

	_, ok := b.Lookup("zebra")
	assert.False(t, ok)
	assert.Equal(t, 137, a.Len())
	assert.Equal(t, 136, b.Len())
}

func TestResolve_ExistingWord(t *testing.T) {
	tbl := New()

	assert.Equal(t, int64(2), tbl.Resolve("the"))
	assert.Equal(t, int64(2), tbl.Resolve("THE"))
	assert.Equal(t, int64(2), tbl.Resolve("The"))
	assert.Equal(t, 136, tbl.Len())
}

func TestResolve_AllocatesMonotonically(t *testing.T) {
	tbl := New()

	first := tbl.Resolve("Zebra")
	second := tbl.Resolve("giraffe")
	again := tbl.Resolve("zebra")

	assert.Equal(t, int64(136), first)
	assert.Equal(t, int64(137), second)
	assert.Equal(t, first, again)

	text, ok := tbl.Reverse(first)
	require.True(t, ok)
	assert.Equal(t, "zebra", text)
	assert.False(t, tbl.IsSeed(first))
	assert.True(t, tbl.IsSeed(2))
}

func TestResolve_DistinctTextsGetDistinctIDs(t *testing.T) {
	tbl := New()

	words := []string{"alpha", "beta", "gamma", "42", ",", "_x", "alpha2", "ALPHA"}
	ids := make(map[int64]string)
	for _, w := range words {
		id := tbl.Resolve(w)
		if prev, ok := ids[id]; ok {
			assert.Equal(t, Normalize(prev), Normalize(w), "id %d shared", id)
		}
		ids[id] = w
	}
	assert.Len(t, ids, len(words)-1) // ALPHA collapses onto alpha
}

func TestResolve_ConcurrentCallersAgree(t *testing.T) {
	tbl := New()

	const workers = 16
	results := make([][]int64, workers)
	words := []string{"red", "green", "blue", "cyan", "magenta", "yellow"}

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, w := range words {
				results[i] = append(results[i], tbl.Resolve(w))
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Equal(t, results[0], results[i])
	}
	assert.Equal(t, 136+len(words), tbl.Len())
}

func TestResolve_LogsLearnedEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tbl := New(WithLogger(logger))

	tbl.Resolve("the")
	assert.Empty(t, buf.String(), "seeded words must not be logged")

	tbl.Resolve("okapi")
	out := buf.String()
	assert.Contains(t, out, `"text":"okapi"`)
	assert.Contains(t, out, `"id":136`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestReverse_UnknownIDs(t *testing.T) {
	tbl := New()

	for _, id := range []int64{-1, 136, 99999} {
		_, ok := tbl.Reverse(id)
		assert.False(t, ok, "id %d", id)
	}
}

func TestWithPrefix(t *testing.T) {
	tbl := New()
	tbl.Resolve("theory")

	got := tbl.WithPrefix("THE")
	texts := make([]string, len(got))
	for i, e := range got {
		texts[i] = e.Text
	}

	assert.Equal(t, []string{"the", "their", "them", "then", "theory", "there", "these", "they"}, texts)
	for _, e := range got {
		assert.Equal(t, e.Text != "theory", e.Seeded, e.Text)
	}
}

func TestWithPrefix_NoMatch(t *testing.T) {
	assert.Empty(t, New().WithPrefix("qqq"))
}

func TestIsSeed_OutOfRange(t *testing.T) {
	tbl := New()
	assert.False(t, tbl.IsSeed(-5))
	assert.False(t, tbl.IsSeed(1<<40))
}

func TestWordLists(t *testing.T) {
	assert.Len(t, SpecialWords(), 102)

	common := CommonWords()
	assert.Len(t, common, 34)
	assert.Equal(t, "very", common[0])
	assert.Equal(t, "able", common[len(common)-1])

	for _, w := range common {
		assert.False(t, IsSpecial(w), w)
		assert.True(t, IsCommon(w), w)
	}

	assert.True(t, IsSpecial("any"))
	assert.False(t, IsCommon("any"))
	assert.False(t, IsCommon("run"))
	assert.False(t, IsSpecial("run"))
}
