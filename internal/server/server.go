// Package server exposes build orchestrator status over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/danmuck/neobuild/internal/history"
	"github.com/danmuck/neobuild/internal/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const Version = "0.1.0"

type Config struct {
	Addr        string
	CorsOrigins []string
	Recorder    *history.Recorder
	Logger      *zerolog.Logger
	// Token, when set, is required as a bearer token on /runs.
	Token string
}

// Status serves /health, /metrics and /runs.
type Status struct {
	addr     string
	router   *gin.Engine
	recorder *history.Recorder
	token    string
	logger   zerolog.Logger
	appeared time.Time
	http     *http.Server
}

func New(cfg Config) *Status {
	gin.SetMode(gin.ReleaseMode)

	logger := log.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	recorder := cfg.Recorder
	if recorder == nil {
		recorder = history.NewRecorder(0)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware())
	if len(cfg.CorsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: cfg.CorsOrigins,
			AllowMethods: []string{"GET"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	s := &Status{
		addr:     cfg.Addr,
		router:   r,
		recorder: recorder,
		token:    cfg.Token,
		logger:   logger,
		appeared: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Status) Handler() http.Handler {
	return s.router
}

// Start listens on the configured address and serves in the background.
// It returns the bound address.
func (s *Status) Start() (string, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return "", err
	}
	s.http = &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("status server stopped")
		}
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("status server started")
	return ln.Addr().String(), nil
}

func (s *Status) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
