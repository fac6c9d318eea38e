// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

// Package api serves the cache daemon's ops surface over HTTP: health,
// engine statistics, Prometheus metrics, and a pattern invalidation hook
// for the admin console's deploy tooling. This is process introspection
// for the host binary; application code consumes the cache as a library.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/DarkRiddle1212/motionstudio-sub001/internal/cache"
	"github.com/DarkRiddle1212/motionstudio-sub001/internal/config"
)

// Engine is the slice of the cache store the ops surface needs.
type Engine interface {
	Stats() cache.Stats
	InvalidatePattern(re *regexp.Regexp) int
	Sweep() int
}

// Server is the ops HTTP server, runnable as a suture service.
type Server struct {
	engine Engine
	cfg    config.ServerConfig
	logger zerolog.Logger
	router chi.Router
}

// NewServer builds the ops server and its routes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewServer(engine Engine, cfg config.ServerConfig, logger zerolog.Logger) *Server {
	s := &Server{
		engine: engine,
		cfg:    cfg,
		logger: logger.With().Str("service", "ops-server").Logger(),
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/stats", s.handleStats)
	r.Post("/invalidate", s.handleInvalidate)
	r.Post("/sweep", s.handleSweep)
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Router exposes the route tree, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Serve implements the suture.Service interface. It runs the HTTP server
// until the context is canceled, then shuts down gracefully within the
// configured timeout.
func (s *Server) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Timeout,
		WriteTimeout: s.cfg.Timeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("ops server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("ops server shutdown incomplete")
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// String names the service in suture logs.
func (s *Server) String() string {
	return "ops-server"
}

// requestLogger logs one line per request with status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}
