package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/logic"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Snapshot - полная копия изменяемого состояния игры на границе тиков.
type Snapshot struct {
	Tick             int
	Map              *domain.GameMap
	Logic            *logic.Network
	Scheduler        *Scheduler[*Game]
	RNG              []byte
	IDs              domain.IDAllocator
	EnemiesDestroyed int
}

// Snapshot копирует состояние без общих ссылок с живой игрой.
func (g *Game) Snapshot() *Snapshot {
	rngState, err := g.pcg.MarshalBinary()
	if err != nil {
		// PCG.MarshalBinary не возвращает ошибок
		panic(fmt.Sprintf("snapshot rng: %v", err))
	}
	return &Snapshot{
		Tick:             g.CurrentTick(),
		Map:              g.Map.Clone(),
		Logic:            g.Logic.Clone(nil),
		Scheduler:        g.Scheduler.Clone(),
		RNG:              rngState,
		IDs:              g.ids,
		EnemiesDestroyed: g.enemiesDestroyed,
	}
}

// Restore возвращает игру к снимку. Снимок остаётся неизменным.
func (g *Game) Restore(s *Snapshot) error {
	pcg := &rand.PCG{}
	if err := pcg.UnmarshalBinary(s.RNG); err != nil {
		return fmt.Errorf("restore rng: %w", err)
	}
	g.Map = s.Map.Clone()
	g.Map.SetEnv(g)
	g.Logic = s.Logic.Clone(g)
	g.Scheduler = s.Scheduler.Clone()
	g.pcg = pcg
	g.rng = rand.New(pcg)
	g.ids = s.IDs
	g.enemiesDestroyed = s.EnemiesDestroyed
	return nil
}

// Rewind возвращает мир на n тиков назад. Прошлая копия игрока убирается,
// текущий игрок остаётся на своей клетке без истории шагов и получает
// новое поколение ID.
func (g *Game) Rewind(n int) (int, error) {
	if n <= 0 {
		return g.CurrentTick(), fmt.Errorf("rewind %d ticks: %w", n, ErrInvalidRewind)
	}
	start := time.Now()
	target := g.CurrentTick() - n
	snap := g.history.At(target)
	if snap == nil {
		return g.CurrentTick(), fmt.Errorf("rewind to tick %d: %w", target, ErrInvalidRewind)
	}

	var carried *domain.Entity
	if p := g.Map.Player(); p != nil {
		carried = p.Clone()
	}
	if err := g.Restore(snap); err != nil {
		return g.CurrentTick(), err
	}
	g.history.Truncate(target)

	if carried != nil {
		if past := g.Map.Player(); past != nil {
			g.Map.RemoveEntity(past)
		}
		carried.ID = carried.ID.Fresh()
		carried.PrevPos = carried.Pos
		carried.PrevDistinctPos = domain.Position{}
		carried.HasPrevDistinct = false
		if err := g.Map.AddEntity(carried); err != nil {
			return g.CurrentTick(), err
		}
		g.Map.SetPlayer(carried.ID)
	}

	g.notify(time.Since(start))

	logger.Log.WithFields(logrus.Fields{
		"component": "game",
		"game_id":   g.ID,
		"ticks":     n,
		"tick":      g.CurrentTick(),
	}).Info("Rewound")
	return g.CurrentTick(), nil
}

// History - кольцо снимков для перемотки.
type History struct {
	depth int
	snaps []*Snapshot
}

func NewHistory(depth int) *History {
	if depth < 0 {
		depth = 0
	}
	return &History{depth: depth}
}

// Push сохраняет снимок, вытесняя самые старые сверх depth+1.
func (h *History) Push(s *Snapshot) {
	h.snaps = append(h.snaps, s)
	if over := len(h.snaps) - (h.depth + 1); over > 0 {
		clear(h.snaps[:over])
		h.snaps = h.snaps[over:]
	}
}

// At ищет снимок конкретного тика.
func (h *History) At(tick int) *Snapshot {
	for i := len(h.snaps) - 1; i >= 0; i-- {
		if h.snaps[i].Tick == tick {
			return h.snaps[i]
		}
	}
	return nil
}

// Truncate отбрасывает снимки после tick.
func (h *History) Truncate(tick int) {
	for len(h.snaps) > 0 && h.snaps[len(h.snaps)-1].Tick > tick {
		h.snaps[len(h.snaps)-1] = nil
		h.snaps = h.snaps[:len(h.snaps)-1]
	}
}

func (h *History) Len() int { return len(h.snaps) }

// Oldest - тик самого старого снимка.
func (h *History) Oldest() (int, bool) {
	if len(h.snaps) == 0 {
		return 0, false
	}
	return h.snaps[0].Tick, true
}
