package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/go-tokenmaster/internal/config"
	"github.com/example/go-tokenmaster/internal/stats"
	"github.com/example/go-tokenmaster/internal/tokenizer"
	"github.com/example/go-tokenmaster/internal/vocab"
)

// RequestIDHeader carries the per-request id. A client-supplied value is
// echoed back; otherwise a new UUID is generated.
const RequestIDHeader = "X-Request-ID"

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Engine is the tokenizer surface served over HTTP. *tokenizer.Tokenizer
// implements it.
type Engine interface {
	Tokenize(text string) []tokenizer.Token
	Encode(text string) ([]int64, error)
	EncodeByLine(text string) ([][]int64, error)
	EncodedTokens(text string) ([]tokenizer.EncodedToken, error)
	DecodeString(input string) (string, error)
	Vocabulary() *vocab.Table
}

var _ Engine = (*tokenizer.Tokenizer)(nil)

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes: 64 * 1024,
		logger:       slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed input length in bytes.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	engine Engine
	opts   options
	log    *slog.Logger
}

// NewHandler returns an http.Handler serving /health, /vocab and the POST
// routes /tokenize, /encode, /decode and /stats.
func NewHandler(engine Engine, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		engine: engine,
		opts:   opts,
		log:    opts.logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/vocab", h.logged("vocab", h.handleVocab))
	mux.HandleFunc("/tokenize", h.logged("tokenize", h.post(h.handleTokenize)))
	mux.HandleFunc("/encode", h.logged("encode", h.post(h.handleEncode)))
	mux.HandleFunc("/decode", h.logged("decode", h.post(h.handleDecode)))
	mux.HandleFunc("/stats", h.logged("stats", h.post(h.handleStats)))

	return withRequestID(mux)
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

type requestIDKey struct{}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logged emits one record per request with its route, status and duration.
func (h *handler) logged(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		fn(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if rec.status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		h.log.LogAttrs(r.Context(), level, "request handled",
			slog.String("route", route),
			slog.String("request_id", requestID(r.Context())),
			slog.Int("status", rec.status),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.Int("vocab_size", h.engine.Vocabulary().Len()),
		)
	}
}

func (h *handler) post(fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if r.Body == nil {
			writeError(w, http.StatusBadRequest, "request body is required")
			return
		}
		fn(w, r)
	}
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    buildVersion(),
		"vocab_size": h.engine.Vocabulary().Len(),
	})
}

type textRequest struct {
	Text string `json:"text"`
}

// readText decodes a {"text": ...} body and enforces the size limit. It
// writes the error response itself and reports whether the caller should
// continue.
func (h *handler) readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return "", false
	}

	if !h.withinLimit(w, len(req.Text)) {
		return "", false
	}

	h.log.DebugContext(r.Context(), "text received",
		slog.String("request_id", requestID(r.Context())),
		slog.Int("text_len", len(req.Text)),
	)

	return req.Text, true
}

func (h *handler) withinLimit(w http.ResponseWriter, n int) bool {
	if n > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("input exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return false
	}
	return true
}

type tokenizeResponse struct {
	Tokens []tokenizer.Token `json:"tokens"`
}

func (h *handler) handleTokenize(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, tokenizeResponse{Tokens: h.engine.Tokenize(text)})
}

type encodeResponse struct {
	IDs     []int64                  `json:"ids"`
	Lines   [][]int64                `json:"lines"`
	Records []tokenizer.EncodedToken `json:"records"`
}

func (h *handler) handleEncode(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}

	ids, err := h.engine.Encode(text)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	lines, err := h.engine.EncodeByLine(text)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	records, err := h.engine.EncodedTokens(text)
	if err != nil {
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, encodeResponse{IDs: ids, Lines: lines, Records: records})
}

type decodeRequest struct {
	// IDs is either a JSON string holding user input ("1,2,3" or "[1,2,3]")
	// or a JSON array, flat or line-grouped.
	IDs     json.RawMessage          `json:"ids"`
	Records []tokenizer.EncodedToken `json:"records"`
}

type decodeResponse struct {
	Text string `json:"text"`
}

func (h *handler) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Records != nil {
		writeJSON(w, http.StatusOK, decodeResponse{Text: tokenizer.DecodeRecords(req.Records)})
		return
	}

	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids or records field is required")
		return
	}

	input := string(req.IDs)
	var s string
	if err := json.Unmarshal(req.IDs, &s); err == nil {
		input = s
	}

	if !h.withinLimit(w, len(input)) {
		return
	}

	text, err := h.engine.DecodeString(input)
	if err != nil {
		if errors.Is(err, tokenizer.ErrInvalidFormat) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, decodeResponse{Text: text})
}

func (h *handler) handleStats(w http.ResponseWriter, r *http.Request) {
	text, ok := h.readText(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, stats.ForText(h.engine, text))
}

type vocabResponse struct {
	Size    int           `json:"size"`
	Entries []vocab.Entry `json:"entries"`
}

func (h *handler) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	table := h.engine.Vocabulary()
	entries := table.WithPrefix(r.URL.Query().Get("prefix"))
	if entries == nil {
		entries = []vocab.Entry{}
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	writeJSON(w, http.StatusOK, vocabResponse{Size: table.Len(), Entries: entries})
}

func (h *handler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.ErrorContext(r.Context(), "tokenizer failed",
		slog.String("request_id", requestID(r.Context())),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	engine          Engine
	shutdownTimeout time.Duration
}

// New returns a Server for engine. A nil engine gets a fresh tokenizer over a
// newly seeded vocabulary, shared by every request for the server's lifetime.
func New(cfg config.Config, engine Engine) *Server {
	if engine == nil {
		engine = tokenizer.New(vocab.New())
	}
	return &Server{
		cfg:             cfg,
		engine:          engine,
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	h := NewHandler(s.engine,
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithLogger(slog.Default()),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: time.Duration(s.cfg.Server.ReadHeaderTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	slog.Info("server listening",
		slog.String("addr", s.cfg.Server.ListenAddr),
		slog.Int("vocab_size", s.engine.Vocabulary().Len()),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
