package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dungeon-sim/internal/engine"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Server - HTTP-фасад над одной игровой сессией.
type Server struct {
	Session *engine.Session
	Metrics *Metrics
	Addr    string

	limiter *IPRateLimiter
	http    *http.Server
}

// New собирает сервер и подписывает метрики на тики игры.
func New(session *engine.Session, addr string, corsOrigins []string) *Server {
	metrics := NewMetrics(session.Hub)
	session.Inspect(func(g *engine.Game) {
		g.AddObserver(metrics)
	})

	limiter := NewIPRateLimiter(DefaultRateLimitConfig)
	router := NewRouter(RouterConfig{
		Session:     session,
		Metrics:     metrics,
		RateLimiter: limiter,
		CORSOrigins: corsOrigins,
	})

	return &Server{
		Session: session,
		Metrics: metrics,
		Addr:    addr,
		limiter: limiter,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler - корневой обработчик (для httptest).
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run слушает Addr до отмены ctx, затем корректно останавливается.
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithFields(logrus.Fields{
			"component": "server",
			"addr":      s.Addr,
		}).Info("🛡️  Dungeon simulation server running")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Log.WithField("component", "server").Info("Server stopped")
	return nil
}
