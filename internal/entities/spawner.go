package entities

import (
	"dungeon-sim/internal/domain"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ZombieSpawner раз в Interval тиков создаёт зомби на случайной соседней клетке без стены.
type ZombieSpawner struct {
	Interval int
}

func (s *ZombieSpawner) Clone() domain.Behavior {
	c := *s
	return &c
}

func (s *ZombieSpawner) Act(m *domain.GameMap, self *domain.Entity) {
	env := m.Env()
	tick := env.CurrentTick()
	if s.Interval <= 0 || (tick+1)%s.Interval != 0 {
		return
	}

	var free []domain.Position
	for _, p := range self.Pos.CardinalNeighbours() {
		if !hasKind(m, p, domain.KindWall) {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return
	}
	pos := free[env.Rand().IntN(len(free))]

	spawned, err := env.Spawn(domain.KindZombieToast, pos)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": "entities",
			"spawner":   self.ID.String(),
		}).WithError(err).Warn("Failed to spawn zombie")
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "entities",
		"spawner":   self.ID.String(),
		"entity":    spawned.ID.String(),
		"tick":      tick,
	}).Debug("Zombie spawned")
}

// IsInteractable - игрок стоит рядом по стороне клетки.
func (s *ZombieSpawner) IsInteractable(_ *domain.GameMap, self, actor *domain.Entity) bool {
	return self.Pos.IsCardinallyAdjacent(actor.Pos)
}

// Interact разрушает спавнер.
func (s *ZombieSpawner) Interact(m *domain.GameMap, self, _ *domain.Entity) {
	m.Destroy(self)
}

func (s *ZombieSpawner) OnDestroy(m *domain.GameMap, self *domain.Entity) {
	m.Env().Unsubscribe(self.ID.Key())
}

func hasKind(m *domain.GameMap, p domain.Position, k domain.Kind) bool {
	for _, e := range m.EntitiesAt(p) {
		if e.Kind == k {
			return true
		}
	}
	return false
}
