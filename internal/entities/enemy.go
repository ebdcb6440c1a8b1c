package entities

import (
	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/systems"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// enemy - общая часть враждебных сущностей: характеристики и темп движения.
type enemy struct {
	stats    domain.BattleStats
	lastMove int
}

func newEnemy(health, attack float64) enemy {
	return enemy{
		stats:    domain.BattleStats{Health: health, Attack: attack},
		lastMove: -1,
	}
}

func (e *enemy) Stats() *domain.BattleStats { return &e.stats }

// ready - враг ходит раз в 2*MovementFactor-1 тиков.
func (e *enemy) ready(self *domain.Entity, tick int) bool {
	return tick >= e.lastMove+2*self.MovementFactor-1
}

// CanEnter - на клетку врага может войти только игрок (и начать бой).
func (e *enemy) CanEnter(m *domain.GameMap, _, mover *domain.Entity) bool {
	return m.IsPlayer(mover)
}

// OnDestroy снимает действие ИИ и засчитывает убийство.
func (e *enemy) OnDestroy(m *domain.GameMap, self *domain.Entity) {
	env := m.Env()
	env.Unsubscribe(self.ID.Key())
	env.RecordKill(self)
}

// ZombieToast бродит случайно.
type ZombieToast struct {
	enemy
}

func NewZombieToast(health, attack float64) *ZombieToast {
	return &ZombieToast{enemy: newEnemy(health, attack)}
}

func (z *ZombieToast) Clone() domain.Behavior {
	c := *z
	return &c
}

func (z *ZombieToast) Hostile() bool { return true }

func (z *ZombieToast) OnOverlap(m *domain.GameMap, self, mover *domain.Entity) {
	if m.IsPlayer(mover) {
		m.Env().Battle(mover, self)
	}
}

func (z *ZombieToast) Act(m *domain.GameMap, self *domain.Entity) {
	env := m.Env()
	tick := env.CurrentTick()
	if !z.ready(self, tick) {
		return
	}
	m.MoveTo(self, systems.RandomStep(m, self, env.Rand()))
	z.lastMove = tick
}

// Mercenary преследует игрока, пока его не подкупили. Подкупленный следует за игроком.
type Mercenary struct {
	enemy

	BribeAmount     int
	BribeRadius     int
	ControlDuration int // 0 - подкуп навсегда

	allied       bool
	endOfControl int
}

func NewMercenary(health, attack float64, amount, radius, duration int) *Mercenary {
	return &Mercenary{
		enemy:           newEnemy(health, attack),
		BribeAmount:     amount,
		BribeRadius:     radius,
		ControlDuration: duration,
		endOfControl:    -1,
	}
}

func (mc *Mercenary) Clone() domain.Behavior {
	c := *mc
	return &c
}

func (mc *Mercenary) Allied() bool { return mc.allied }

func (mc *Mercenary) Hostile() bool { return !mc.allied }

func (mc *Mercenary) OnOverlap(m *domain.GameMap, self, mover *domain.Entity) {
	if mc.allied || !m.IsPlayer(mover) {
		return
	}
	m.Env().Battle(mover, self)
}

func (mc *Mercenary) Act(m *domain.GameMap, self *domain.Entity) {
	env := m.Env()
	tick := env.CurrentTick()

	player := m.Player()
	nearPlayer := player != nil && self.Pos.IsCardinallyAdjacent(player.Pos)
	if !mc.ready(self, tick) && !(mc.allied && nearPlayer) {
		return
	}

	strategy := systems.MovementHostile
	if mc.allied {
		strategy = systems.MovementAllied
	}
	m.MoveTo(self, systems.Step(strategy, m, self))
	mc.lastMove = tick
}

// OnTick снимает контроль по истечении срока.
func (mc *Mercenary) OnTick(_ *domain.GameMap, self *domain.Entity, tick int) {
	if mc.allied && mc.endOfControl >= 0 && tick >= mc.endOfControl {
		mc.allied = false
		mc.endOfControl = -1
		logger.Log.WithFields(logrus.Fields{
			"component": "entities",
			"entity":    self.ID.String(),
			"tick":      tick,
		}).Debug("Mind control expired")
	}
}

func (mc *Mercenary) IsInteractable(_ *domain.GameMap, self, actor *domain.Entity) bool {
	if mc.allied {
		return false
	}
	if self.Pos.ChebyshevTo(actor.Pos) > mc.BribeRadius {
		return false
	}
	w, ok := domain.As[domain.Wallet](actor)
	return ok && w.Treasure() >= mc.BribeAmount
}

func (mc *Mercenary) Interact(m *domain.GameMap, self, actor *domain.Entity) {
	w, ok := domain.As[domain.Wallet](actor)
	if !ok || !w.Spend(mc.BribeAmount) {
		return
	}
	mc.ally(m, self)
}

func (mc *Mercenary) ally(m *domain.GameMap, self *domain.Entity) {
	tick := m.Env().CurrentTick()
	mc.allied = true
	if mc.ControlDuration > 0 {
		mc.endOfControl = tick + mc.ControlDuration
	}
	logger.Log.WithFields(logrus.Fields{
		"component": "entities",
		"entity":    self.ID.String(),
		"tick":      tick,
		"until":     mc.endOfControl,
	}).Debug("Mercenary bribed")
}

// Assassin - наёмник, подкуп которого может сорваться (плата всё равно списывается).
type Assassin struct {
	Mercenary
	BribeFailRate float64
}

func NewAssassin(health, attack float64, amount, radius, duration int, failRate float64) *Assassin {
	return &Assassin{
		Mercenary:     *NewMercenary(health, attack, amount, radius, duration),
		BribeFailRate: failRate,
	}
}

func (a *Assassin) Clone() domain.Behavior {
	c := *a
	return &c
}

func (a *Assassin) Interact(m *domain.GameMap, self, actor *domain.Entity) {
	w, ok := domain.As[domain.Wallet](actor)
	if !ok || !w.Spend(a.BribeAmount) {
		return
	}
	if m.Env().Rand().Float64() < a.BribeFailRate {
		logger.Log.WithFields(logrus.Fields{
			"component": "entities",
			"entity":    self.ID.String(),
		}).Debug("Assassin bribe failed")
		return
	}
	a.ally(m, self)
}
