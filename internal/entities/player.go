package entities

import (
	"dungeon-sim/internal/domain"
)

// Player - управляемый командами персонаж. Толкает валуны, подбирает сокровища,
// вступает в бой с враждебными сущностями при пересечении.
type Player struct {
	facing   domain.Direction
	treasure int
	stats    domain.BattleStats
}

func NewPlayer(health, attack float64) *Player {
	return &Player{
		facing: domain.DirNone,
		stats:  domain.BattleStats{Health: health, Attack: attack},
	}
}

func (p *Player) Clone() domain.Behavior {
	c := *p
	return &c
}

func (p *Player) CanEnter(_ *domain.GameMap, _, _ *domain.Entity) bool { return true }

// Steer запоминает направление (его читают валуны) и делает шаг.
func (p *Player) Steer(m *domain.GameMap, self *domain.Entity, d domain.Direction) {
	p.facing = d
	m.MoveBy(self, d)
}

func (p *Player) Facing() domain.Direction { return p.facing }

func (p *Player) OnOverlap(m *domain.GameMap, self, other *domain.Entity) {
	if c, ok := domain.As[domain.Collectable](other); ok && c.Collectable() {
		m.RemoveEntity(other)
		p.treasure++
		return
	}
	if bp, ok := domain.As[domain.BattleParticipant](other); ok && bp.Hostile() {
		m.Env().Battle(self, other)
	}
}

func (p *Player) Treasure() int { return p.treasure }

func (p *Player) Spend(n int) bool {
	if n < 0 || p.treasure < n {
		return false
	}
	p.treasure -= n
	return true
}

func (p *Player) Stats() *domain.BattleStats { return &p.stats }

func (p *Player) Hostile() bool { return true }
