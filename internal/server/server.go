// Package server exposes the forecast pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"kanban-mc/internal/config"
	"kanban-mc/internal/eazybi"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Server wires the HTTP routes to the forecast pipeline.
type Server struct {
	cfg    *config.AppConfig
	client eazybi.Client
	router *gin.Engine
}

// New creates a server with all routes registered.
func New(cfg *config.AppConfig, client eazybi.Client) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:    cfg,
		client: client,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	authorized := router.Group("/", s.bearerAuth())
	{
		authorized.POST("/", s.handleForecast)
		authorized.POST("/forecast", s.handleForecast)
	}

	s.router = router
	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // fetch + simulation can be slow
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
