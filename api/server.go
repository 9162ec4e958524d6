package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/fetchops/ai-project-catalog/config"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(settings config.Settings, deps Dependencies) (Server, error) {
	address := fmt.Sprintf("0.0.0.0:%s", settings.Port) // Bind to 0.0.0.0 for external access

	// Capture startup time
	startupTime := time.Now()

	router, err := newRouter(settings, deps, withStartupTime(startupTime))
	if err != nil {
		return Server{}, err
	}

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  settings.ReadTimeout,  // Timeout for reading the entire request
		WriteTimeout: settings.WriteTimeout, // Timeout for writing the response
		IdleTimeout:  settings.IdleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	startupTime time.Time
	logRequests bool
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withoutRequestLogging() func(*router) {
	return func(r *router) {
		r.logRequests = false
	}
}

func newRouter(settings config.Settings, deps Dependencies, opts ...func(*router)) (*chi.Mux, error) {
	cfg := router{startupTime: time.Now(), logRequests: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	handlers, err := initializeHandlers(settings, deps, cfg.startupTime)
	if err != nil {
		return nil, err
	}

	loginLimiter, err := loginRateLimiter(settings.LoginRateLimit)
	if err != nil {
		return nil, err
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(PrometheusMiddleware)
	chiRouter.Use(secureMiddleware(!settings.IsProduction()))
	if len(settings.AcceptedOrigins) > 0 {
		chiRouter.Use(corsMiddleware(settings.AcceptedOrigins))
	}
	if cfg.logRequests {
		chiRouter.Use(ColoredHTTPLoggingMiddleware(!settings.IsProduction()))
	}

	setupRoutes(chiRouter, handlers, loginLimiter)

	return chiRouter, nil
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
