// Package server exposes the rendering pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz  liveness probe
//	POST /render   body: CSV or XLSX data file; response: rendered treemap
//
// /render accepts the query parameters width, height, format, kind (csv or
// xlsx), category, subcategory, sheet, order, background and stroke. Errors
// are returned as JSON objects {"code": ..., "message": ...}; input problems
// map to 400, an oversized body to 413, everything else to 500.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/squaremap/pkg/buildinfo"
	"github.com/matzehuels/squaremap/pkg/data"
	apperrors "github.com/matzehuels/squaremap/pkg/errors"
	"github.com/matzehuels/squaremap/pkg/observability"
	"github.com/matzehuels/squaremap/pkg/pipeline"
	"github.com/matzehuels/squaremap/pkg/sink"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server handles rendering requests with a shared pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults pipeline.Options
	maxBody  int64
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the options used for parameters a request leaves out.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithMaxBodyBytes bounds the size of uploaded data files.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// New creates a server around runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, maxBody: 32 << 20}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
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
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.logger.With("request", middleware.GetReqID(ctx))

	opts, kind, err := s.requestOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, apperrors.ErrCodeInvalidInput,
				"body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
			return
		}
		s.fail(w, r, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	if len(body) == 0 {
		s.fail(w, r, apperrors.New(apperrors.ErrCodeInvalidInput, "empty body"))
		return
	}

	table, err := s.runner.LoadBytes(ctx, body, kind, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tm, err := s.runner.Layout(ctx, table, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	artifact, err := s.runner.Render(ctx, tm, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	logger.Debug("rendered", "format", opts.Format, "leaves", len(tm.Leaves()), "bytes", len(artifact))
	w.Header().Set("Content-Type", opts.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact)
}

// requestOptions merges query parameters over the server defaults and
// validates the result.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, data.Kind, error) {
	opts := s.defaults
	opts.Logger = nil
	q := r.URL.Query()

	var err error
	if v := q.Get("width"); v != "" {
		if opts.Width, err = parseInt("width", v); err != nil {
			return opts, "", err
		}
	}
	if v := q.Get("height"); v != "" {
		if opts.Height, err = parseInt("height", v); err != nil {
			return opts, "", err
		}
	}
	if v := q.Get("format"); v != "" {
		opts.Format = sink.Format(v)
	}
	if v := q.Get("category"); v != "" {
		opts.CategoryColumn = v
	}
	if v := q.Get("subcategory"); v != "" {
		opts.SubcategoryColumn = v
	}
	if v := q.Get("sheet"); v != "" {
		opts.Sheet = v
	}
	if v := q.Get("order"); v != "" {
		opts.Order = data.Order(v)
	}
	if v := q.Get("background"); v != "" {
		opts.Background = v
	}
	if v := q.Get("stroke"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, "", apperrors.New(apperrors.ErrCodeInvalidInput, "invalid stroke %q", v)
		}
		opts.Stroke, opts.NoStroke = f, f == 0
	}

	kind, err := requestKind(r)
	if err != nil {
		return opts, "", err
	}

	opts.SetLoadDefaults()
	if err := opts.TableOptions().Validate(); err != nil {
		return opts, "", err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return opts, "", err
	}
	if err := opts.ValidateForRender(); err != nil {
		return opts, "", err
	}
	return opts, kind, nil
}

// requestKind takes the data kind from the kind parameter, then from the
// Content-Type header, defaulting to CSV.
func requestKind(r *http.Request) (data.Kind, error) {
	if v := r.URL.Query().Get("kind"); v != "" {
		return data.ParseKind(v)
	}
	if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mt == xlsxContentType {
		return data.KindXLSX, nil
	}
	return data.KindCSV, nil
}

func parseInt(name, v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid %s %q", name, v)
	}
	return n, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if apperrors.IsClientError(err) {
		status = http.StatusBadRequest
	}
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status == http.StatusInternalServerError {
		s.logger.Error("render failed", "request", middleware.GetReqID(r.Context()), "err", err)
	}

	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	writeError(w, status, code, apperrors.UserMessage(err))
}

type errorResponse struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code apperrors.Code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe reports every request to the registered HTTP hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
