package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/metrics"
)

// Server knows how to serve http requests.
type Server struct {
	logger  *zap.Logger
	config  *config.Server
	rules   RuleService
	certs   CertificateService
	metrics *metrics.Registry
}

// NewServer returns new Server that will use passed config and services
// during setup. To start serving requests call Server.Serve.
func NewServer(
	logger *zap.Logger,
	config *config.AppConfig,
	rules RuleService,
	certs CertificateService,
	registry *metrics.Registry,
) (*Server, error) {
	if rules == nil || certs == nil {
		return nil, errors.New("rule and certificate services are required")
	}
	return &Server{
		logger:  logger,
		config:  &config.HTTP,
		rules:   rules,
		certs:   certs,
		metrics: registry,
	}, nil
}

// Serve starts HTTP server. This is a blocking call.
// To stop serving, cancel the passed context.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port)),
		Handler:           s.router(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	e := make(chan error, 1)
	go func() {
		e <- srv.ListenAndServe()
	}()

	s.logger.Info(
		"HTTP server is running",
		zap.String("host", s.config.Host),
		zap.Int("port", s.config.Port),
	)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	case err := <-e:
		return err
	}
}
