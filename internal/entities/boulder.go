package entities

import (
	"dungeon-sim/internal/domain"
)

// Boulder сдвигается толкающим на одну клетку по его направлению.
// Войти в клетку валуна можно, только если валун сам может сдвинуться дальше.
type Boulder struct{}

func (Boulder) Clone() domain.Behavior { return Boulder{} }

func (Boulder) Pushable() bool { return true }

func (Boulder) CanEnter(m *domain.GameMap, self, mover *domain.Entity) bool {
	p, ok := domain.As[domain.Pusher](mover)
	if !ok || !p.Facing().Valid() {
		return false
	}
	return m.CanEnter(self, self.Pos.Translate(p.Facing()))
}

func (Boulder) OnOverlap(m *domain.GameMap, self, mover *domain.Entity) {
	p, ok := domain.As[domain.Pusher](mover)
	if !ok || !p.Facing().Valid() {
		return
	}
	m.MoveTo(self, self.Pos.Translate(p.Facing()))
}
