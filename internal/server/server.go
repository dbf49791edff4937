package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/arkfall/nexus-server/internal/server/config"
	"github.com/arkfall/nexus-server/internal/server/conn"
	"github.com/arkfall/nexus-server/pkg/protocol"
)

// Server accepts client TCP connections and runs one session goroutine per
// connection. The registry is built before the server and shared read-only.
type Server struct {
	cfg *config.Config
	log zerolog.Logger
	reg *protocol.Registry
}

// New creates a Server with the given config, logger and opcode registry.
func New(cfg *config.Config, log zerolog.Logger, reg *protocol.Registry) *Server {
	return &Server{cfg: cfg, log: log, reg: reg}
}

// Start begins listening for connections and blocks until the context is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	lc := net.ListenConfig{}

	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	defer listener.Close()

	if s.cfg.MetricsAddr != "" {
		go s.serveMetrics(ctx)
	}

	s.log.Info().
		Int("port", s.cfg.Port).
		Uint32("authVersion", s.cfg.AuthVersion).
		Int("realms", len(s.cfg.Realms)).
		Msg("gateway started")

	// Close listener when context is cancelled.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		c, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info().Msg("gateway shutting down")
				return nil
			}
			s.log.Error().Err(err).Msg("accept connection")
			continue
		}

		connection := conn.NewConnection(ctx, c, s.cfg, s.log, s.reg)
		go connection.Handle()
	}
}

func (s *Server) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: s.cfg.MetricsAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.log.Info().Str("addr", s.cfg.MetricsAddr).Msg("metrics listener started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.log.Error().Err(err).Msg("metrics listener")
	}
}
