// Package api implements the jobcanvas HTTP API.
//
// The API exposes stored workflows as JSON documents plus a stateless layout
// endpoint, so web frontends can persist canvases and request auto-arranged
// positions without shipping the layout engine to the browser.
package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	jcerrors "github.com/shwetalj/jobcanvas/pkg/errors"
	"github.com/shwetalj/jobcanvas/pkg/layout"
	"github.com/shwetalj/jobcanvas/pkg/render"
	"github.com/shwetalj/jobcanvas/pkg/store"
	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// =============================================================================
// Server
// =============================================================================

// Server serves the workflow API backed by a store.
type Server struct {
	store  store.Store
	layout layout.Options
	logger *log.Logger
}

// New creates an API server. The layout options are the defaults applied to
// /api/layout requests that do not override them.
func New(s store.Store, layoutOpts layout.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: s, layout: layoutOpts, logger: logger}
}

// Handler builds the chi router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/workflows", s.handleList)
		r.Route("/workflows/{name}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Get("/export", s.handleExport)
		})
		r.Post("/layout", s.handleLayout)
	})

	return r
}

// logRequests logs method, path and status for every request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debugf("%s %s -> %d (%d bytes)", r.Method, r.URL.Path, ww.Status(), ww.BytesWritten())
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listResponse is the body of GET /api/workflows.
type listResponse struct {
	Workflows []string `json:"workflows"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, listResponse{Workflows: names})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	var doc workflow.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		s.writeError(w, jcerrors.Wrap(jcerrors.ErrCodeInvalidFormat, err, "invalid workflow document"))
		return
	}

	// Reject documents the editor could not open.
	wf, err := workflow.FromDocument(doc)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := wf.Validate(); err != nil {
		s.writeError(w, err)
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// layoutRequest is the body of POST /api/layout. Strategy is optional; empty
// means the configured default (usually shape-based selection).
type layoutRequest struct {
	Document workflow.Document `json:"document"`
	Strategy string            `json:"strategy,omitempty"`
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, jcerrors.Wrap(jcerrors.ErrCodeInvalidFormat, err, "invalid layout request"))
		return
	}

	wf, err := workflow.FromDocument(req.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.layout
	if req.Strategy != "" {
		if err := layout.ValidateStrategy(layout.Strategy(req.Strategy)); err != nil {
			s.writeError(w, jcerrors.Wrap(jcerrors.ErrCodeInvalidStrategy, err, "unknown layout strategy %q", req.Strategy))
			return
		}
		opts.Strategy = layout.Strategy(req.Strategy)
	}
	if err := layout.Arrange(wf, opts); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workflow.ToDocument(wf))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	wf, err := workflow.FromDocument(rec.Document)
	if err != nil {
		s.writeError(w, err)
		return
	}

	detailed := r.URL.Query().Get("detailed") == "true"
	dot := render.ToDOT(wf, render.Options{Detailed: detailed})

	format := r.URL.Query().Get("format")
	switch format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		w.Write([]byte(dot))
	case "svg":
		data, err := render.SVG(dot)
		if err != nil {
			s.writeError(w, jcerrors.Wrap(jcerrors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(data)
	case "png":
		data, err := render.PNG(dot)
		if err != nil {
			s.writeError(w, jcerrors.Wrap(jcerrors.ErrCodeInternal, err, "render png"))
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	default:
		s.writeError(w, jcerrors.New(jcerrors.ErrCodeInvalidFormat, "unknown export format %q", format))
	}
}

// =============================================================================
// Responses
// =============================================================================

// errorResponse is the JSON body for all error statuses.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses and machine-readable
// codes. Unknown errors become 500 INTERNAL_ERROR without leaking details.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Errorf("internal error: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: errorDetail{
		Code:    string(code),
		Message: jcerrors.UserMessage(err),
	}})
}

func statusFor(err error) (int, jcerrors.Code) {
	switch {
	case stderrors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, jcerrors.ErrCodeWorkflowNotFound
	case stderrors.Is(err, layout.ErrCyclicGraph):
		return http.StatusUnprocessableEntity, jcerrors.ErrCodeCyclicGraph
	case stderrors.Is(err, workflow.ErrDuplicateJobID):
		return http.StatusBadRequest, jcerrors.ErrCodeDuplicateID
	case stderrors.Is(err, workflow.ErrDanglingReference):
		return http.StatusBadRequest, jcerrors.ErrCodeDanglingReference
	case stderrors.Is(err, workflow.ErrInvalidJobID):
		return http.StatusBadRequest, jcerrors.ErrCodeInvalidJobID
	}

	switch jcerrors.GetCode(err) {
	case jcerrors.ErrCodeInvalidName, jcerrors.ErrCodeInvalidJobID,
		jcerrors.ErrCodeInvalidFormat, jcerrors.ErrCodeInvalidInput,
		jcerrors.ErrCodeInvalidStrategy:
		return http.StatusBadRequest, jcerrors.GetCode(err)
	case jcerrors.ErrCodeNotFound, jcerrors.ErrCodeWorkflowNotFound:
		return http.StatusNotFound, jcerrors.GetCode(err)
	}

	return http.StatusInternalServerError, jcerrors.ErrCodeInternal
}
