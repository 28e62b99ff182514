// Package chi serves the HTTP indexing and search API.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mediadex/mediadex/internal/domain"
	"github.com/mediadex/mediadex/internal/domain/search/result"
	"github.com/mediadex/mediadex/internal/remote"
	actoruc "github.com/mediadex/mediadex/internal/usecase/actor"
	healthuc "github.com/mediadex/mediadex/internal/usecase/health"
	imageuc "github.com/mediadex/mediadex/internal/usecase/image"
	movieuc "github.com/mediadex/mediadex/internal/usecase/movie"
	sceneuc "github.com/mediadex/mediadex/internal/usecase/scene"
	studiouc "github.com/mediadex/mediadex/internal/usecase/studio"
)

// errorCode identifies an error class on the wire.
type errorCode string

const (
	codeBadRequest   errorCode = "BAD_REQUEST"
	codeBadQuery     errorCode = "BAD_QUERY"
	codeNotFound     errorCode = "NOT_FOUND"
	codeUnknownIndex errorCode = "UNKNOWN_INDEX"
	codeInternal     errorCode = "INTERNAL_ERROR"
)

// errorResponse is the wire form of an error.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// searchResultItem is one scored hit on the wire.
type searchResultItem struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// searchPageResponse is the wire form of one high-level result page.
type searchPageResponse struct {
	Items    []searchResultItem `json:"items"`
	MaxItems int                `json:"max_items"`
	NumPages int                `json:"num_pages"`
}

// Server hosts the entity search services over HTTP.
type Server struct {
	scenes        *sceneuc.Service
	actors        *actoruc.Service
	movies        *movieuc.Service
	studios       *studiouc.Service
	images        *imageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	scenes *sceneuc.Service,
	actors *actoruc.Service,
	movies *movieuc.Service,
	studios *studiouc.Service,
	images *imageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		scenes:  scenes,
		actors:  actors,
		movies:  movies,
		studios: studios,
		images:  images,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrBadQuery, http.StatusBadRequest, codeBadQuery),
		sentinelHandler(domain.ErrUnknownIndex, http.StatusNotFound, codeUnknownIndex),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes mounts every API route on the router.
func (s *Server) Routes(r chi.Router) {
	r.Delete("/index/{type}", s.ResetIndex)
	r.Post("/index/{type}", s.AddDocuments)
	r.Post("/index/{type}/search", s.SearchIndex)
	r.Get("/search/{type}", s.SearchQuery)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ResetIndex handles DELETE /index/{type}.
func (s *Server) ResetIndex(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	var err error
	switch typ {
	case s.scenes.IndexName():
		err = s.scenes.Reset(r.Context())
	case s.actors.IndexName():
		err = s.actors.Reset(r.Context())
	case s.movies.IndexName():
		err = s.movies.Reset(r.Context())
	case s.studios.IndexName():
		err = s.studios.Reset(r.Context())
	case s.images.IndexName():
		err = s.images.Reset(r.Context())
	default:
		s.handleDomainError(w, unknownIndex(typ))
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddDocuments handles POST /index/{type}: one batch of prebuilt search
// documents.
func (s *Server) AddDocuments(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	dec := json.NewDecoder(r.Body)

	var n int
	switch typ {
	case s.scenes.IndexName():
		var docs []sceneuc.Doc
		if err := dec.Decode(&docs); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
			return
		}
		s.scenes.Put(docs)
		n = len(docs)
	case s.actors.IndexName():
		var docs []actoruc.Doc
		if err := dec.Decode(&docs); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
			return
		}
		s.actors.Put(docs)
		n = len(docs)
	case s.movies.IndexName():
		var docs []movieuc.Doc
		if err := dec.Decode(&docs); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
			return
		}
		s.movies.Put(docs)
		n = len(docs)
	case s.studios.IndexName():
		var docs []studiouc.Doc
		if err := dec.Decode(&docs); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
			return
		}
		s.studios.Put(docs)
		n = len(docs)
	case s.images.IndexName():
		var docs []imageuc.Doc
		if err := dec.Decode(&docs); err != nil {
			writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
			return
		}
		s.images.Put(docs)
		n = len(docs)
	default:
		s.handleDomainError(w, unknownIndex(typ))
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"indexed": n})
}

// SearchIndex handles POST /index/{type}/search: the wire protocol with
// an explicit filter tree and sort spec.
func (s *Server) SearchIndex(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")

	var req remote.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	var resp remote.SearchResponse
	switch typ {
	case s.scenes.IndexName():
		resp = s.scenes.SearchWire(req)
	case s.actors.IndexName():
		resp = s.actors.SearchWire(req)
	case s.movies.IndexName():
		resp = s.movies.SearchWire(req)
	case s.studios.IndexName():
		resp = s.studios.SearchWire(req)
	case s.images.IndexName():
		resp = s.images.SearchWire(req)
	default:
		s.handleDomainError(w, unknownIndex(typ))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SearchQuery handles GET /search/{type}?query=...&seed=...: the
// query-string mini-language.
func (s *Server) SearchQuery(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	raw := r.URL.Query().Get("query")
	seed := r.URL.Query().Get("seed")
	if seed == "" {
		seed = "default"
	}

	var (
		page result.Page
		err  error
	)
	switch typ {
	case s.scenes.IndexName():
		page, err = s.scenes.Search(r.Context(), raw, seed)
	case s.actors.IndexName():
		page, err = s.actors.Search(r.Context(), raw, seed)
	case s.movies.IndexName():
		page, err = s.movies.Search(r.Context(), raw, seed)
	case s.studios.IndexName():
		page, err = s.studios.Search(r.Context(), raw, seed)
	case s.images.IndexName():
		page, err = s.images.Search(r.Context(), raw, seed)
	default:
		s.handleDomainError(w, unknownIndex(typ))
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]searchResultItem, len(page.Items))
	for i, res := range page.Items {
		items[i] = searchResultItem{ID: res.ID(), Score: res.Score()}
	}
	writeJSON(w, http.StatusOK, searchPageResponse{
		Items:    items,
		MaxItems: page.MaxItems,
		NumPages: page.NumPages,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":  report.Status,
		"checks":  report.Checks,
		"indexes": report.Indexes,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func unknownIndex(typ string) error {
	return fmt.Errorf("%w: %q", domain.ErrUnknownIndex, typ)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrBadQuery,
		domain.ErrUnknownIndex,
		domain.ErrNotFound,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}
