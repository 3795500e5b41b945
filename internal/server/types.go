package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MeKo-Tech/docscan/internal/archive"
	"github.com/MeKo-Tech/docscan/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline      *pipeline.Pipeline
	archive       archive.Store
	rateLimiter   *RateLimiter
	corsOrigin    string
	maxUploadMB   int64
	timeoutSec    int
	maxBatchItems int
	logger        *slog.Logger
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	TimeoutSec     int
	MaxBatchItems  int
	PipelineConfig pipeline.Config
	RateLimit      RateLimitConfig
	// Archive receives every successful scan when set. The server closes it.
	Archive archive.Store
	Logger  *slog.Logger
}

// RateLimitConfig holds per-client limits. Zero disables a limit.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type DocumentTypesResponse struct {
	DocumentTypes []pipeline.TypeInfo `json:"document_types"`
	Count         int                 `json:"count"`
}

type UsageResponse struct {
	Detail string `json:"detail"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ScanRequest is the JSON body accepted by POST /scan.
type ScanRequest struct {
	Text         string `json:"text"`
	DocumentType string `json:"document_type"`
}

// NewServer creates a new extraction server instance.
func NewServer(config Config) (*Server, error) {
	cfg := config.PipelineConfig
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}

	pl, err := pipeline.NewBuilder().
		WithAutoClassify(cfg.AutoClassify).
		WithCleanOptions(cfg.Clean).
		WithRegistry(cfg.Registry).
		WithReader(cfg.Reader).
		WithLogger(cfg.Logger).
		Build()
	if err != nil {
		return nil, err
	}

	s := &Server{
		pipeline:      pl,
		archive:       config.Archive,
		corsOrigin:    config.CORSOrigin,
		maxUploadMB:   config.MaxUploadMB,
		timeoutSec:    config.TimeoutSec,
		maxBatchItems: config.MaxBatchItems,
		logger:        logger,
	}
	if s.maxBatchItems <= 0 {
		s.maxBatchItems = defaultMaxBatchItems
	}
	if rl := config.RateLimit; rl.Enabled {
		s.rateLimiter = NewRateLimiter(rl.RequestsPerMinute, rl.RequestsPerHour, rl.MaxRequestsPerDay, rl.MaxDataPerDay)
	}
	return s, nil
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.archive == nil {
		return nil
	}
	err := s.archive.Close()
	s.archive = nil
	if err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/document-types", s.corsMiddleware(s.documentTypesHandler))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/scan", s.corsMiddleware(s.rateLimitMiddleware(s.scanHandler)))
	mux.HandleFunc("/scan/batch", s.corsMiddleware(s.rateLimitMiddleware(s.scanBatchHandler)))
	mux.HandleFunc("/ws", s.scanWebSocketHandler)
	if s.archive != nil {
		mux.HandleFunc("/scans", s.corsMiddleware(s.listScansHandler))
		mux.HandleFunc("/scans/{id}", s.corsMiddleware(s.getScanHandler))
	}
}

// log returns the server logger, tolerating zero-value servers in tests.
func (s *Server) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}
