// Package server exposes a record document over HTTP for previewing.
//
// The document is loaded once at startup. Every request runs the pipeline
// against it with per-request view options taken from the query string:
//
//	GET /healthz
//	GET /forest
//	GET /view?collapse=k1,k2&expand=k3&cap=5&focus=k
//	GET /path?focus=k
//	GET /find?key=k
//	GET /render.{format}?collapse=...&focus=...
//
// Results go through the pipeline runner, so repeated requests with the
// same options are served from its cache.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/opptree/pkg/buildinfo"
	"github.com/matzehuels/opptree/pkg/core/record"
	"github.com/matzehuels/opptree/pkg/core/tree"
	operrors "github.com/matzehuels/opptree/pkg/errors"
	"github.com/matzehuels/opptree/pkg/graph"
	docio "github.com/matzehuels/opptree/pkg/io"
	"github.com/matzehuels/opptree/pkg/observability"
	"github.com/matzehuels/opptree/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

var contentTypes = map[string]string{
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

// Server serves one document.
type Server struct {
	runner *pipeline.Runner
	doc    *docio.Document
	opts   pipeline.Options
	logger *log.Logger
}

// New creates a server for doc. opts holds the base options every request
// starts from; query parameters override its view fields.
func New(runner *pipeline.Runner, doc *docio.Document, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{runner: runner, doc: doc, opts: opts, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/forest", s.handleForest)
	r.Get("/view", s.handleView)
	r.Get("/path", s.handlePath)
	r.Get("/find", s.handleFind)
	r.Get("/render.{format}", s.handleRender)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports each request to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Get().Version})
}

func (s *Server) handleForest(w http.ResponseWriter, r *http.Request) {
	f, err := s.runner.Build(r.Context(), s.doc, s.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, graph.FromForest(f))
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.runner.View(r.Context(), s.doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.View)
}

type pathResponse struct {
	Focus string   `json:"focus"`
	Nodes []string `json:"nodes"`
	Edges []string `json:"edges"`
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	focus := r.URL.Query().Get("focus")
	if focus == "" {
		s.writeError(w, operrors.New(operrors.ErrCodeInvalidInput, "focus is required"))
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.runner.View(r.Context(), s.doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if result.Path.Empty() {
		s.writeError(w, operrors.New(operrors.ErrCodeNodeNotFound, "node %q not found", focus))
		return
	}
	writeJSON(w, http.StatusOK, pathResponse{
		Focus: focus,
		Nodes: result.Path.SortedNodes(),
		Edges: result.Path.SortedEdges(),
	})
}

type recordRef struct {
	Key   string `json:"key"`
	Title string `json:"title,omitempty"`
}

type findResponse struct {
	Record recordRef  `json:"record"`
	Parent *recordRef `json:"parent,omitempty"`
	Owner  *recordRef `json:"owner,omitempty"`
	Root   recordRef  `json:"root"`
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	k := r.URL.Query().Get("key")
	if k == "" {
		s.writeError(w, operrors.New(operrors.ErrCodeInvalidInput, "key is required"))
		return
	}
	m, ok := tree.Find(s.doc.Goals, k)
	if !ok {
		s.writeError(w, operrors.New(operrors.ErrCodeNodeNotFound, "node %q not found", k))
		return
	}
	resp := findResponse{Record: refOf(m.Record), Root: refOf(m.Root)}
	if m.Parent != nil {
		p := refOf(m.Parent)
		resp.Parent = &p
	}
	if m.Owner != nil {
		o := refOf(m.Owner)
		resp.Owner = &o
	}
	writeJSON(w, http.StatusOK, resp)
}

func refOf(r record.Record) recordRef {
	return recordRef{Key: record.KeyOf(r), Title: r.Fields().Title}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, operrors.Wrap(operrors.ErrCodeUnsupported, err, "render"))
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), s.doc, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if result.CacheInfo.RenderHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// =============================================================================
// Helpers
// =============================================================================

// options layers the query parameters of r over the base options.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	q := r.URL.Query()

	if v := q.Get("cap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, operrors.New(operrors.ErrCodeInvalidInput, "invalid cap %q", v)
		}
		opts.Cap = n
	}
	if keys := listParam(q["collapse"]); len(keys) > 0 {
		opts.Collapsed = append(append([]string(nil), opts.Collapsed...), keys...)
	}
	if keys := listParam(q["expand"]); len(keys) > 0 {
		opts.Expanded = keys
	}
	if v := q.Get("focus"); v != "" {
		opts.Focus = v
	}
	if v := q.Get("rankdir"); v != "" {
		opts.RankDir = strings.ToUpper(v)
	}
	if v := q.Get("detailed"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, operrors.New(operrors.ErrCodeInvalidInput, "invalid detailed %q", v)
		}
		opts.Detailed = b
	}
	return opts, nil
}

// listParam flattens repeated and comma-separated query values.
func listParam(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := string(operrors.GetCode(err))
	if code == "" {
		code = string(operrors.ErrCodeInternal)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: operrors.UserMessage(err)}})
}

func statusOf(err error) int {
	switch operrors.GetCode(err) {
	case operrors.ErrCodeInvalidInput, operrors.ErrCodeInvalidKey, operrors.ErrCodeInvalidFormat, operrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case operrors.ErrCodeNotFound, operrors.ErrCodeNodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
