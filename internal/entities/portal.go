package entities

import (
	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/systems"
)

// Portal переносит вошедшего к соседней проходимой клетке парного портала того же цвета.
// Толкаемые предметы остаются на портале.
type Portal struct {
	Colour  string
	partner domain.EntityID
}

func (p *Portal) Clone() domain.Behavior {
	c := *p
	return &c
}

func (p *Portal) PairKey() string {
	return p.Colour
}

func (p *Portal) Partner() domain.EntityID {
	return p.partner
}

func (p *Portal) Bind(partner domain.EntityID) {
	p.partner = partner
}

func (p *Portal) CanEnter(m *domain.GameMap, self, mover *domain.Entity) bool {
	if isPushable(mover) {
		return true
	}
	return len(p.Destinations(m, self, mover)) > 0
}

// Destinations - клетки вокруг парного портала, куда может войти mover.
func (p *Portal) Destinations(m *domain.GameMap, _, mover *domain.Entity) []domain.Position {
	if p.partner.IsNil() {
		return nil
	}
	partner := m.Entity(p.partner)
	if partner == nil {
		return nil
	}
	return systems.EnterableNeighbours(m, mover, partner.Pos)
}

func (p *Portal) OnOverlap(m *domain.GameMap, self, mover *domain.Entity) {
	if isPushable(mover) {
		return
	}
	dests := p.Destinations(m, self, mover)
	if len(dests) == 0 {
		return
	}
	m.MoveTo(mover, dests[0])
}
