package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/config"
	"github.com/sjses80519/dcnSyslogAnalysis-project/pkg/mtls"
	"go.uber.org/zap"
)

// Server exposes report folders over HTTP
type Server struct {
	cfg        *config.ServeConfig
	httpServer *http.Server
	logger     *zap.Logger
}

// New creates a report server for the configured output directory
func New(cfg *config.ServeConfig, logger *zap.Logger) (*Server, error) {
	catalog := NewCatalog(cfg.Output.Dir, cfg.Output.FolderPrefix, logger)
	handler := NewHandler(catalog, logger)

	// Apply middleware
	var httpHandler http.Handler = handler.Routes()
	httpHandler = RecoveryMiddleware(logger)(httpHandler)
	httpHandler = LoggingMiddleware(logger)(httpHandler)

	httpServer := &http.Server{
		Addr:         cfg.Server.ListenAddress,
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.TLS.Enabled() {
		tlsConfig, err := mtls.LoadServerTLSConfig(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.ClientCA)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS config: %w", err)
		}
		httpServer.TLSConfig = tlsConfig
	}

	return &Server{
		cfg:        cfg,
		httpServer: httpServer,
		logger:     logger,
	}, nil
}

// Handler returns the full middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting",
			zap.String("addr", s.cfg.Server.ListenAddress),
			zap.Bool("tls", s.cfg.TLS.Enabled()),
			zap.Bool("client_auth", s.cfg.TLS.ClientCA != ""),
			zap.String("output_dir", s.cfg.Output.Dir))

		if s.cfg.TLS.Enabled() {
			serverErrors <- s.httpServer.ListenAndServeTLS("", "") // Certs loaded via TLSConfig
		} else {
			serverErrors <- s.httpServer.ListenAndServe()
		}
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown error", zap.Error(err))
			s.httpServer.Close()
			return err
		}

		s.logger.Info("Server stopped gracefully")
		return nil
	}
}
