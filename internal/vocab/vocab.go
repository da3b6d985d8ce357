// Package vocab holds the vocabulary table: an append-only bijection between
// normalized token text and integer ids.
//
// A Table is seeded with a fixed list of curated words when it is created and
// grows by one entry the first time an unseen token is resolved. Entries are
// never removed or renumbered, so an id stays valid for the lifetime of the
// table.
package vocab

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/armon/go-radix"
)

// Entry pairs a normalized token with its id.
type Entry struct {
	Text   string `json:"text"`
	ID     int64  `json:"id"`
	Seeded bool   `json:"seeded"`
}

// Table is a bijective text <-> id mapping. The zero value is not usable; call
// New. A Table is safe for concurrent use.
type Table struct {
	mu      sync.Mutex
	forward *radix.Tree     // normalized text -> int64 id
	reverse []string        // id -> normalized text; ids are dense from 0
	seeds   *roaring.Bitmap // ids assigned by the seed lists
	log     *slog.Logger
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used to report learned entries.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) { t.log = l }
}

// New returns a table seeded with the special words followed by the common
// words. Repeated words keep the id of their first occurrence.
func New(opts ...Option) *Table {
	t := &Table{
		forward: radix.New(),
		reverse: make([]string, 0, len(specialWords)+len(commonWords)),
		seeds:   roaring.New(),
		log:     slog.Default(),
	}
	for _, fn := range opts {
		fn(t)
	}

	for _, list := range [][]string{specialWords, commonWords} {
		for _, w := range list {
			if _, ok := t.forward.Get(w); ok {
				continue
			}
			id := t.insertLocked(w)
			t.seeds.Add(uint32(id)) //nolint:gosec // seed ids are < 256
		}
	}

	return t
}

// Normalize returns the table key for a token: its lower-cased text.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// Resolve returns the id of text, allocating the next unused id if the
// normalized text has never been seen. The same normalized text always
// resolves to the same id.
func (t *Table) Resolve(text string) int64 {
	key := Normalize(text)

	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.forward.Get(key); ok {
		return v.(int64)
	}

	id := t.insertLocked(key)
	t.log.Debug("vocabulary entry learned",
		slog.String("text", key),
		slog.Int64("id", id),
		slog.Int("size", len(t.reverse)),
	)

	return id
}

func (t *Table) insertLocked(key string) int64 {
	id := int64(len(t.reverse))
	t.forward.Insert(key, id)
	t.reverse = append(t.reverse, key)
	return id
}

// Lookup returns the id of text without learning it.
func (t *Table) Lookup(text string) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.forward.Get(Normalize(text))
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// Reverse returns the normalized text recorded for id. The boolean is false
// for ids that were never assigned.
func (t *Table) Reverse(id int64) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id < 0 || id >= int64(len(t.reverse)) {
		return "", false
	}
	return t.reverse[id], true
}

// Len returns the number of entries, seeded and learned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.reverse)
}

// SeedLen returns the number of seeded entries.
func (t *Table) SeedLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return int(t.seeds.GetCardinality())
}

// IsSeed reports whether id was assigned from the seed lists.
func (t *Table) IsSeed(id int64) bool {
	if id < 0 || id > int64(^uint32(0)) {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.seeds.Contains(uint32(id))
}

// Entries returns every entry ordered by id.
func (t *Table) Entries() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, len(t.reverse))
	for i, text := range t.reverse {
		out[i] = Entry{Text: text, ID: int64(i), Seeded: t.seeds.Contains(uint32(i))} //nolint:gosec // i < len(reverse)
	}
	return out
}

// WithPrefix returns the entries whose normalized text starts with the
// lower-cased prefix, in lexical order. An empty prefix matches everything.
func (t *Table) WithPrefix(prefix string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Entry
	t.forward.WalkPrefix(Normalize(prefix), func(key string, v interface{}) bool {
		id := v.(int64)
		out = append(out, Entry{Text: key, ID: id, Seeded: t.seeds.Contains(uint32(id))}) //nolint:gosec // ids are dense and small
		return false
	})

	return out
}
