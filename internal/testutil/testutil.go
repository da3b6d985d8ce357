// Package testutil provides shared helpers for handler and command tests.
//
// Typical usage:
//
//	func TestMyRoute(t *testing.T) {
//	    logs := testutil.NewLogCapture()
//	    h := server.NewHandler(engine, server.WithLogger(slog.New(logs)))
//	    rec := testutil.DoJSON(t, h, http.MethodPost, "/encode", `{"text":"hi"}`)
//	    body := testutil.DecodeBody[map[string]any](t, rec)
//	    ...
//	}
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// LogCapture is a slog.Handler that keeps every record it receives.
// It is safe for concurrent use.
type LogCapture struct {
	mu      sync.Mutex
	records []slog.Record
}

func NewLogCapture() *LogCapture { return &LogCapture{} }

func (c *LogCapture) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (c *LogCapture) Handle(_ context.Context, r slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r.Clone())
	return nil
}

func (c *LogCapture) WithAttrs(_ []slog.Attr) slog.Handler { return c }
func (c *LogCapture) WithGroup(_ string) slog.Handler      { return c }

// Records returns a snapshot of the captured records.
func (c *LogCapture) Records() []slog.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]slog.Record(nil), c.records...)
}

// Attrs flattens the attributes of record idx into a map.
func (c *LogCapture) Attrs(idx int) map[string]any {
	records := c.Records()
	m := make(map[string]any)
	records[idx].Attrs(func(a slog.Attr) bool {
		m[a.Key] = a.Value.Any()
		return true
	})
	return m
}

// Find returns the attributes of the first record with the given message.
func (c *LogCapture) Find(msg string) (map[string]any, bool) {
	for i, r := range c.Records() {
		if r.Message == msg {
			return c.Attrs(i), true
		}
	}
	return nil, false
}

// DoJSON sends body to h and returns the recorded response. An empty body
// sends no payload.
func DoJSON(tb testing.TB, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	tb.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

// DecodeBody unmarshals the recorded JSON response into a T.
func DecodeBody[T any](tb testing.TB, rec *httptest.ResponseRecorder) T {
	tb.Helper()

	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		tb.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}

	return v
}

// FreeAddr returns a loopback address with a port that was free at the time
// of the call. The test is skipped if the environment forbids listening.
func FreeAddr(tb testing.TB) string {
	tb.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		tb.Skipf("loopback listener not available: %v", err)
		return ""
	}

	addr := ln.Addr().String()
	_ = ln.Close()

	return addr
}
