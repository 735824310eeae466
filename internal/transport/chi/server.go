package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nestvec/nestvec/internal/domain"
	"github.com/nestvec/nestvec/internal/domain/geo"
	domlisting "github.com/nestvec/nestvec/internal/domain/listing"
	"github.com/nestvec/nestvec/internal/domain/search/query"
	healthuc "github.com/nestvec/nestvec/internal/usecase/health"
	listinguc "github.com/nestvec/nestvec/internal/usecase/listing"
	searchuc "github.com/nestvec/nestvec/internal/usecase/search"
)

const defaultMaxBatchSize = 100

// response is the envelope every endpoint answers with.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the listing and search usecases over HTTP.
type Server struct {
	listings      *listinguc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBatchSize  int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	listings *listinguc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		listings:     listings,
		search:       search,
		health:       health,
		logger:       logger,
		maxBatchSize: defaultMaxBatchSize,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrListingNotFound, http.StatusNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest),
		sentinelHandler(domain.ErrInvalidListing, http.StatusBadRequest),
		sentinelHandler(domain.ErrLexicalSearchUnavailable, http.StatusNotImplemented),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway),
		sentinelHandler(domain.ErrStorageUnavailable, http.StatusServiceUnavailable),
	}
	return s
}

// WithMaxBatchSize configures the batch insert cap.
func (s *Server) WithMaxBatchSize(n int) *Server {
	if n > 0 {
		s.maxBatchSize = n
	}
	return s
}

// Routes mounts all endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/listings/search", s.handleSearch)
		r.Post("/listings", s.handleInsert)
		r.Post("/listings/batch", s.handleInsertBatch)
		r.Post("/listings/clear", s.handleClear)
		r.Get("/listings/stats", s.handleStats)
		r.Get("/listings/{id}", s.handleGet)
		r.Delete("/listings/{id}", s.handleDelete)
		r.Get("/distance", s.handleDistance)
	})
	r.Get("/healthz", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// handleSearch handles POST /api/v1/listings/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var p query.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	matches, err := s.search.Search(r.Context(), &p)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "search completed", map[string]any{
		"results": matches,
		"count":   len(matches),
	})
}

// handleInsert handles POST /api/v1/listings.
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	var l domlisting.Listing
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	created, err := s.listings.Insert(r.Context(), &l)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	msg := "listing replaced"
	if created {
		status = http.StatusCreated
		msg = "listing created"
	}
	writeSuccess(w, status, msg, map[string]any{"id": l.ID})
}

// handleInsertBatch handles POST /api/v1/listings/batch.
func (s *Server) handleInsertBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Listings []*domlisting.Listing `json:"listings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Listings) == 0 {
		writeError(w, http.StatusBadRequest, "listings is required")
		return
	}
	if len(req.Listings) > s.maxBatchSize {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("batch size %d exceeds limit %d", len(req.Listings), s.maxBatchSize))
		return
	}

	if err := s.listings.InsertBatch(r.Context(), req.Listings); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "batch inserted", map[string]any{
		"count": len(req.Listings),
	})
}

// handleGet handles GET /api/v1/listings/{id}.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	l, err := s.listings.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "listing found", l)
}

// handleDelete handles DELETE /api/v1/listings/{id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.listings.Delete(r.Context(), id); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "listing deleted", map[string]any{"id": id})
}

// handleClear handles POST /api/v1/listings/clear.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	n, err := s.listings.Clear(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "listings cleared", map[string]any{"deleted": n})
}

// handleStats handles GET /api/v1/listings/stats.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.listings.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "stats", st)
}

// handleDistance handles GET /api/v1/distance. It computes the
// haversine distance between two coordinate pairs passed as query
// parameters lat1, lon1, lat2, lon2.
func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	coords := make([]float64, 4)
	for i, name := range []string{"lat1", "lon1", "lat2", "lon2"} {
		v, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid or missing parameter "+name)
			return
		}
		coords[i] = v
	}

	if !geo.ValidateCoordinates(coords[0], coords[1]) || !geo.ValidateCoordinates(coords[2], coords[3]) {
		writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	d := geo.HaversineKM(coords[0], coords[1], coords[2], coords[3])
	writeSuccess(w, http.StatusOK, "distance computed", map[string]any{
		"distance_km": d,
	})
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response{
		Success: report.Status != healthuc.Unhealthy,
		Message: string(report.Status),
		Data:    report,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrListingNotFound,
		domain.ErrInvalidListing,
		domain.ErrInvalidRequest,
		domain.ErrLexicalSearchUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrStorageUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, msg)
}
