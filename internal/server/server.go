// Package server assembles the HTTP service: the documented API, its
// OpenAPI and docs routes, metrics, health and reference exports.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "watttime-api/internal/api/http"
	"watttime-api/internal/audit"
	"watttime-api/internal/backend"
	"watttime-api/internal/backend/mock"
	"watttime-api/internal/backend/upstream"
	"watttime-api/internal/catalog"
	"watttime-api/internal/config"
	"watttime-api/internal/export"
	"watttime-api/internal/observability/logging"
	"watttime-api/internal/observability/metrics"
	"watttime-api/internal/ratelimit"
)

const (
	userAgent       = "watttime-api"
	janitorInterval = time.Minute
)

// RateLimitedPaths are the Authentication routes throttled per client ip.
var RateLimitedPaths = []string{"/register", "/login", "/password"}

// Server is the assembled HTTP service.
type Server struct {
	cfg     config.Config
	logger  *zap.Logger
	api     huma.API
	handler http.Handler
	limiter *ratelimit.Limiter
	auditDB *sqlx.DB
	audit   *audit.Repository
}

// New wires every component described by cfg. Close releases what it opened.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	doc, err := catalog.Load(catalog.WithDocsDir(cfg.DocsDir), catalog.WithServerURL(cfg.PublicBaseURL))
	if err != nil {
		return nil, err
	}
	b, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, logger: logger}

	var statsDB *sql.DB
	deps := apihttp.Deps{Backend: b, Logger: logger}
	if cfg.Audit.Driver != "" {
		db, err := audit.Open(ctx, cfg.Audit.Driver, cfg.Audit.DSN)
		if err != nil {
			return nil, err
		}
		s.auditDB = db
		s.audit = audit.NewRepository(db)
		deps.Audit = s.audit
		statsDB = db.DB
	}
	metrics.Init(statsDB, logger)

	// Tokens from a real upstream are signed by WattTime, not by us.
	if cfg.Auth.JWTSecret != "" {
		if cfg.Backend.Mode == config.ModeUpstream {
			logger.Warn("AUTH_JWT_SECRET ignored in upstream mode; bearer tokens are forwarded unverified")
		} else {
			deps.TokenSecret = []byte(cfg.Auth.JWTSecret)
		}
	}

	mux := http.NewServeMux()
	s.api = humago.New(mux, apihttp.NewConfig(doc))
	if err := apihttp.Install(s.api, doc, deps); err != nil {
		_ = s.Close()
		return nil, err
	}

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.healthz)
	mux.HandleFunc("GET /exports/reference.pdf", s.serveExport(export.FormatPDF))
	mux.HandleFunc("GET /exports/reference.xlsx", s.serveExport(export.FormatXLSX))

	s.limiter = ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL,
		ratelimit.WithTrustedProxy(cfg.RateLimit.TrustProxy))
	limited := s.limiter.Middleware(mux, RateLimitedPaths)
	s.handler = logging.Middleware(redirectSlashes(limited, doc.Paths()), logger)

	logger.Info("server configured",
		zap.String("backend", cfg.Backend.Mode),
		zap.String("audit_driver", cfg.Audit.Driver),
		zap.Bool("jwt_verification", len(deps.TokenSecret) > 0),
	)
	return s, nil
}

func newBackend(cfg config.Config) (backend.Backend, error) {
	switch cfg.Backend.Mode {
	case config.ModeMock:
		return mock.New([]byte(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL), nil
	case config.ModeUpstream:
		client, err := upstream.NewClient(cfg.Backend.UpstreamBaseURL, cfg.Backend.UpstreamTimeout, upstream.WithUserAgent(userAgent))
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ModeUnimplemented, "":
		return backend.Unimplemented{}, nil
	default:
		return nil, fmt.Errorf("server: unknown backend mode %q", cfg.Backend.Mode)
	}
}

// Handler is the root handler with logging and rate limiting applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// API exposes the registered huma API.
func (s *Server) API() huma.API {
	return s.api
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.limiter.Start(janitorInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("http listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Close stops background work and closes the audit database.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Close()
	}
	if s.auditDB != nil {
		return s.auditDB.Close()
	}
	return nil
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.auditDB != nil {
		if err := s.auditDB.PingContext(r.Context()); err != nil {
			http.Error(w, "audit database unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) serveExport(format export.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := export.Render(export.FromOpenAPI(s.api.OpenAPI()), format, time.Now())
		if err != nil {
			s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "watttime-api-reference."+string(format)))
		_, _ = w.Write(data)
	}
}
