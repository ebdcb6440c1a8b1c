package entities

import (
	"dungeon-sim/internal/domain"
)

// TimeTravellingPortal пускает только игрока. Первый вход активирует портал и
// ломает его; пока игрок стоит на нём, после хода мир откатывается назад.
type TimeTravellingPortal struct {
	active bool
	broken bool
}

func (p *TimeTravellingPortal) Clone() domain.Behavior {
	c := *p
	return &c
}

func (p *TimeTravellingPortal) CanEnter(m *domain.GameMap, _, mover *domain.Entity) bool {
	return m.IsPlayer(mover)
}

func (p *TimeTravellingPortal) OnOverlap(m *domain.GameMap, _, mover *domain.Entity) {
	if !m.IsPlayer(mover) || p.broken {
		return
	}
	p.active = true
	p.broken = true
}

func (p *TimeTravellingPortal) OnVacated(m *domain.GameMap, _, mover *domain.Entity) {
	if m.IsPlayer(mover) {
		p.active = false
	}
}

func (p *TimeTravellingPortal) TimeTravelActive() bool { return p.active }
