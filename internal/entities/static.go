package entities

import (
	"dungeon-sim/internal/domain"
)

// Wall блокирует всех.
type Wall struct{}

func (Wall) Clone() domain.Behavior { return Wall{} }

// Exit - проходимая клетка выхода.
type Exit struct{}

func (Exit) Clone() domain.Behavior {
	return Exit{}
}

func (Exit) CanEnter(_ *domain.GameMap, _, _ *domain.Entity) bool {
	return true
}

// Treasure подбирается игроком.
type Treasure struct{}

func (Treasure) Clone() domain.Behavior {
	return Treasure{}
}

func (Treasure) CanEnter(_ *domain.GameMap, _, _ *domain.Entity) bool {
	return true
}

func (Treasure) Collectable() bool {
	return true
}

// SwampTile замедляет ИИ, пока тот стоит на клетке, и дорожает для поиска пути.
type SwampTile struct {
	Factor int
}

func (s *SwampTile) Clone() domain.Behavior {
	c := *s
	return &c
}

func (s *SwampTile) CanEnter(_ *domain.GameMap, _, _ *domain.Entity) bool { return true }

func (s *SwampTile) TraversalCost() int { return s.Factor }

func (s *SwampTile) OnOverlap(m *domain.GameMap, _, mover *domain.Entity) {
	if m.IsPlayer(mover) {
		return
	}
	mover.MovementFactor = s.Factor
}

func (s *SwampTile) OnVacated(_ *domain.GameMap, _, mover *domain.Entity) {
	mover.MovementFactor = 1
}
