package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"dungeon-sim/internal/engine"
	"dungeon-sim/internal/network"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics - prometheus-метрики симуляции. У каждого экземпляра свой реестр,
// поэтому в одном процессе можно поднять несколько серверов (тесты).
type Metrics struct {
	registry *prometheus.Registry

	tickDuration     prometheus.Histogram
	tick             prometheus.Gauge
	entities         prometheus.Gauge
	schedulerEntries prometheus.Gauge
	enemiesDestroyed prometheus.Gauge
	activeConsumers  prometheus.Gauge
	pathSearches     prometheus.Counter
	commands         *prometheus.CounterVec

	lastSearches uint64
}

func NewMetrics(hub *network.Broadcaster) *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		tickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dungeon_tick_duration_seconds",
			Help:    "Time spent advancing the simulation by one tick",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		}),
		tick: f.NewGauge(prometheus.GaugeOpts{
			Name: "dungeon_tick",
			Help: "Number of completed ticks (drops after a rewind)",
		}),
		entities: f.NewGauge(prometheus.GaugeOpts{
			Name: "dungeon_entities",
			Help: "Entities on the map",
		}),
		schedulerEntries: f.NewGauge(prometheus.GaugeOpts{
			Name: "dungeon_scheduler_entries",
			Help: "Valid actions in the tick scheduler",
		}),
		enemiesDestroyed: f.NewGauge(prometheus.GaugeOpts{
			Name: "dungeon_enemies_destroyed",
			Help: "Enemies destroyed in the current timeline",
		}),
		activeConsumers: f.NewGauge(prometheus.GaugeOpts{
			Name: "dungeon_circuit_active_consumers",
			Help: "Logic consumers whose rule is satisfied",
		}),
		pathSearches: f.NewCounter(prometheus.CounterOpts{
			Name: "dungeon_path_searches_total",
			Help: "Shortest path searches run by enemies",
		}),
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dungeon_commands_total",
			Help: "Player commands by action and outcome",
		}, []string{"action", "result"}),
	}

	if hub != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dungeon_observers",
			Help: "Connected websocket observers",
		}, func() float64 { return float64(hub.SubscriberCount()) })
		f.NewCounterFunc(prometheus.CounterOpts{
			Name: "dungeon_observer_dropped_total",
			Help: "State messages dropped for slow observers",
		}, func() float64 { return float64(hub.Dropped()) })
	}
	return m
}

// ObserveTick реализует engine.TickObserver. Вызывается под блокировкой сессии.
func (m *Metrics) ObserveTick(g *engine.Game, elapsed time.Duration) {
	m.tickDuration.Observe(elapsed.Seconds())
	m.tick.Set(float64(g.CurrentTick()))
	m.entities.Set(float64(g.Map.Count()))
	m.schedulerEntries.Set(float64(g.Scheduler.Len()))
	m.enemiesDestroyed.Set(float64(g.EnemiesDestroyed()))

	active := 0
	for _, c := range g.Logic.Consumers() {
		if c.Activated() {
			active++
		}
	}
	m.activeConsumers.Set(float64(active))

	if s := g.PathFinder.Searches; s > m.lastSearches {
		m.pathSearches.Add(float64(s - m.lastSearches))
		m.lastSearches = s
	}
}

// ObserveCommand считает команду по результату. Безопасен для nil.
func (m *Metrics) ObserveCommand(action string, err error) {
	if m == nil {
		return
	}
	action = strings.ToUpper(action)
	if action == "" {
		action = "UNKNOWN"
	}
	m.commands.WithLabelValues(action, commandResult(err)).Inc()
}

func commandResult(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, engine.ErrUnknownEntity):
		return "unknown_entity"
	case errors.Is(err, engine.ErrNotInteractable):
		return "not_interactable"
	case errors.Is(err, engine.ErrInvalidRewind):
		return "invalid_rewind"
	default:
		return "invalid"
	}
}

// Handler - /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
