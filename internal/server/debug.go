package server

import (
	"fmt"
	"net/http"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/engine"
	"dungeon-sim/pkg/api"
)

// entityDump - сущность со скрытыми полями (история позиций, тип поведения).
type entityDump struct {
	*domain.Entity
	Behavior string `json:"behavior"`
}

// /debug/entities?kind=boulder - полный дамп сущностей, можно отфильтровать по виду
func (h *handler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	kindName := r.URL.Query().Get("kind")
	var kind domain.Kind
	if kindName != "" {
		k := domain.ParseKind(kindName)
		if k == domain.KindUnknown {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown kind %q", kindName))
			return
		}
		kind = k
	}

	var dump []entityDump
	h.session.Inspect(func(g *engine.Game) {
		for _, e := range g.Map.Entities() {
			if kindName != "" && e.Kind != kind {
				continue
			}
			// Копия: после выхода из Inspect игра может измениться
			c := e.Clone()
			dump = append(dump, entityDump{Entity: c, Behavior: fmt.Sprintf("%T", c.Behavior)})
		}
	})
	if dump == nil {
		dump = []entityDump{}
	}
	writeJSON(w, dump)
}

// /debug/queue - очередь планировщика в порядке исполнения
func (h *handler) handleTurnQueue(w http.ResponseWriter, r *http.Request) {
	type queueDump struct {
		Tick    int                `json:"tick"`
		Entries []engine.EntryView `json:"entries"`
	}
	var dump queueDump
	h.session.Inspect(func(g *engine.Game) {
		dump = queueDump{Tick: g.CurrentTick(), Entries: g.Scheduler.Entries()}
	})
	writeJSON(w, dump)
}

// /debug/circuit - логическая сеть и дайджест состояния
func (h *handler) handleCircuit(w http.ResponseWriter, r *http.Request) {
	type circuitDump struct {
		Tick    int                   `json:"tick"`
		Digest  string                `json:"digest"`
		Circuit []api.CircuitNodeView `json:"circuit"`
	}
	var dump circuitDump
	h.session.Inspect(func(g *engine.Game) {
		state := g.BuildState()
		dump = circuitDump{Tick: state.Tick, Digest: g.Digest(), Circuit: state.Circuit}
	})
	if dump.Circuit == nil {
		dump.Circuit = []api.CircuitNodeView{}
	}
	writeJSON(w, dump)
}

func (h *handler) handleRateLimit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.limiter.Stats())
}
