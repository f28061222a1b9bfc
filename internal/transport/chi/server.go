// Package chi implements the HTTP API over the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ridgeline-cloud/chunkdex/internal/domain"
	"github.com/ridgeline-cloud/chunkdex/internal/metrics"
	collectionuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/collection"
	healthuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/health"
	ingestuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/ingest"
	searchuc "github.com/ridgeline-cloud/chunkdex/internal/usecase/search"
	"github.com/ridgeline-cloud/chunkdex/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server routes HTTP requests to the use case services.
type Server struct {
	collections   *collectionuc.Service
	ingest        *ingestuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	maxBatchSize  int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	collections *collectionuc.Service,
	ingest *ingestuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	maxBatchSize int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		collections:  collections,
		ingest:       ingest,
		search:       search,
		health:       health,
		maxBatchSize: maxBatchSize,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrDimensionMismatch, http.StatusBadRequest, codeDimensionMismatch),
		sentinelHandler(domain.ErrInvalidCollectionName, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeInvalidFilter),
		sentinelHandler(domain.ErrInvalidMetadata, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidLimit, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmptyContent, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingCountMismatch, http.StatusBadGateway, codeEmbeddingProvider),
		sentinelHandler(domain.ErrEmbeddingProvider, http.StatusBadGateway, codeEmbeddingProvider),
	}
	return s
}

// Routes mounts the API endpoints on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Put("/collections/{collection}", s.handleCreateCollection)
	r.Post("/collections/{collection}/documents", s.handleAddDocuments)
	r.Post("/collections/{collection}/search", s.handleSearch)
}

// handleCreateCollection handles PUT /collections/{collection}.
// Idempotent: repeating the call with the same dimensions returns 200.
func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	var req createCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Dimensions <= 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "dimensions must be positive")
		return
	}

	if err := s.collections.Initialize(r.Context(), name, req.Dimensions); err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collectionResponse{Name: name, Dimensions: req.Dimensions})
}

// handleAddDocuments handles POST /collections/{collection}/documents.
func (s *Server) handleAddDocuments(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	var req addDocumentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "documents is required")
		return
	}
	if len(req.Documents) > s.maxBatchSize {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "batch exceeds maximum size")
		return
	}

	docs, err := documentsFromInput(req.Documents)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	ids, err := s.ingest.AddDocuments(r.Context(), name, docs)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.DocumentsIngestedTotal.WithLabelValues(name).Add(float64(len(ids)))
	writeJSON(w, http.StatusCreated, addDocumentsResponse{IDs: ids})
}

// handleSearch handles POST /collections/{collection}/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "collection")

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "query is required")
		return
	}

	expr, err := parseFilter(req.Filter)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	docs, err := s.search.Similar(r.Context(), name, req.Query, req.Limit, expr)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(name, "error").Inc()
		s.handleDomainError(w, err)
		return
	}

	metrics.SearchRequestsTotal.WithLabelValues(name, "success").Inc()
	writeJSON(w, http.StatusOK, searchResponse{Results: documentsToResponse(docs)})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for name, result := range report.Checks {
		checks[name] = string(result)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{
		Status:  string(report.Status),
		Version: version.Version,
		Checks:  checks,
	})
}

// handleDomainError maps domain errors to HTTP responses.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, handle := range s.errorHandlers {
		if handle(w, err, err.Error()) {
			return
		}
	}

	s.logger.Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

// sentinelHandler builds an errorHandler matching a sentinel via errors.Is.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
