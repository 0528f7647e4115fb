// Package server provides the HTTP API: upload with synchronous admission,
// status polling, listings, and the XLSX register export.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amara-nwosu/lexvault/internal/common"
	"github.com/amara-nwosu/lexvault/internal/entity"
	"github.com/amara-nwosu/lexvault/internal/export"
	"github.com/amara-nwosu/lexvault/internal/ingest"
	"github.com/amara-nwosu/lexvault/internal/repository"
)

// Admitter is the upload-side boundary the handlers call.
type Admitter interface {
	Admit(ctx context.Context, ownerID, filename string, content []byte) (*ingest.AdmissionResult, error)
	ListRejected(ctx context.Context, ownerID string, limit int32) ([]*entity.RejectedDocument, error)
}

// StatusReader answers status polls.
type StatusReader interface {
	Status(ctx context.Context, documentID uuid.UUID) (*ingest.StatusResponse, error)
}

// Exporter produces the register workbook and owner stats.
type Exporter interface {
	ExportRegisterXLSX(ctx context.Context, ownerID string) ([]byte, error)
	OwnerStats(ctx context.Context, ownerID string) (*export.Stats, error)
}

type Config struct {
	Addr           string
	RequestTimeout time.Duration
	MaxUploadBytes int64
}

type Server struct {
	admitter Admitter
	status   StatusReader
	exporter Exporter
	docs     repository.DocumentRepository
	pool     *pgxpool.Pool
	cfg      Config
	logger   *slog.Logger
	server   *http.Server
}

func NewServer(
	admitter Admitter,
	status StatusReader,
	exporter Exporter,
	docs repository.DocumentRepository,
	pool *pgxpool.Pool,
	cfg Config,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	return &Server{
		admitter: admitter,
		status:   status,
		exporter: exporter,
		docs:     docs,
		pool:     pool,
		cfg:      cfg,
		logger:   logger,
	}
}

// Router builds the chi router; exposed separately so tests can drive the
// handlers without binding a socket.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))

	r.Post("/api/v1/documents", s.handleUpload)
	r.Get("/api/v1/documents", s.handleListDocuments)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Get("/api/v1/documents/{id}/status", s.handleStatus)
	r.Get("/api/v1/rejections", s.handleListRejections)
	r.Get("/api/v1/export/register", s.handleExportRegister)
	r.Get("/api/v1/stats", s.handleStats)
	r.Get("/health", s.handleHealth)

	return r
}

// Start binds and blocks until the listener stops.
func (s *Server) Start() error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("server starting", "addr", addr)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pool != nil {
		if err := repository.HealthCheck(r.Context(), s.pool, 2*time.Second, s.logger); err != nil {
			s.respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func statusForError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, common.ErrDocumentNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
