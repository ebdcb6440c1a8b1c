package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"dungeon-sim/internal/engine"
	"dungeon-sim/internal/network"
	"dungeon-sim/internal/version"
	"dungeon-sim/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterConfig - зависимости HTTP-роутера.
type RouterConfig struct {
	// Session - игра, над которой исполняются команды (обязательна).
	Session *engine.Session
	// Hub - рассылка снимков наблюдателям. Если nil, берётся Session.Hub.
	Hub *network.Broadcaster

	// Metrics - если nil, /metrics не регистрируется.
	Metrics *Metrics

	// RateLimiter ограничивает команды; nil - без ограничений.
	// Роутер его не останавливает: Stop вызывает владелец.
	RateLimiter *IPRateLimiter

	// CORSOrigins - разрешённые источники; nil означает локальную разработку.
	CORSOrigins []string

	DisableLogging bool
}

type handler struct {
	session *engine.Session
	hub     *network.Broadcaster
	limiter *IPRateLimiter
	metrics *Metrics
}

// NewRouter собирает маршруты. Фоновых горутин не запускает.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	limiter := cfg.RateLimiter

	origins := cfg.CORSOrigins
	if origins == nil {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	hub := cfg.Hub
	if hub == nil {
		hub = cfg.Session.Hub
	}
	h := &handler{
		session: cfg.Session,
		hub:     hub,
		limiter: limiter,
		metrics: cfg.Metrics,
	}

	r.Get("/health", h.handleHealth)
	r.Get("/version", h.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleState)
		r.With(limiter.Middleware).Post("/command", h.handleCommand)
	})

	if hub != nil {
		r.Get("/ws", h.handleWS)
	}

	r.Route("/debug", func(r chi.Router) {
		r.Get("/entities", h.handleDumpEntities)
		r.Get("/queue", h.handleTurnQueue)
		r.Get("/circuit", h.handleCircuit)
		r.Get("/ratelimit", h.handleRateLimit)
	})

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler())
	}
	return r
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Info())
}

func (h *handler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.session.State())
}

// commandError - тело ответа на отклонённую команду.
type commandError struct {
	Error string `json:"error"`
	Tick  int    `json:"tick"`
}

func (h *handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd api.ClientCommand
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cmd); err != nil {
		h.metrics.ObserveCommand("", engine.ErrInvalidCommand)
		writeError(w, http.StatusBadRequest, "invalid command body: "+err.Error())
		return
	}

	res, err := h.session.Execute(cmd)
	h.metrics.ObserveCommand(cmd.Action, err)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusFor(err))
		json.NewEncoder(w).Encode(commandError{Error: err.Error(), Tick: res.Tick})
		return
	}
	writeJSON(w, res)
}

// statusFor переводит ошибки движка в HTTP-коды.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrUnknownEntity):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNotInteractable), errors.Is(err, engine.ErrInvalidRewind):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrNoPlayer):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
