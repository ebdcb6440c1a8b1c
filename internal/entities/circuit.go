package entities

import (
	"dungeon-sim/internal/domain"
)

// Switch - источник сигнала: активен, пока на нём лежит валун.
type Switch struct{}

func (Switch) Clone() domain.Behavior {
	return Switch{}
}

func (Switch) CanEnter(_ *domain.GameMap, _, _ *domain.Entity) bool {
	return true
}

func (Switch) CircuitRole() domain.CircuitRole {
	return domain.RoleSwitch
}

func (Switch) RuleName() string {
	return ""
}

func (Switch) OnOverlap(m *domain.GameMap, self, mover *domain.Entity) {
	if isPushable(mover) {
		m.Env().Circuit().AddSource(self.ID, self.ID)
	}
}

func (Switch) OnVacated(m *domain.GameMap, self, mover *domain.Entity) {
	if isPushable(mover) {
		m.Env().Circuit().RemoveSource(self.ID, self.ID)
	}
}

// OnInit включает переключатель, если валун лежит на нём с начала уровня.
func (Switch) OnInit(m *domain.GameMap, self *domain.Entity) {
	for _, e := range m.EntitiesAt(self.Pos) {
		if e != self && isPushable(e) {
			m.Env().Circuit().AddSource(self.ID, self.ID)
			return
		}
	}
}

// Wire проводит сигнал к соседям.
type Wire struct{}

func (Wire) Clone() domain.Behavior {
	return Wire{}
}

func (Wire) CanEnter(_ *domain.GameMap, _, _ *domain.Entity) bool {
	return true
}

func (Wire) CircuitRole() domain.CircuitRole {
	return domain.RoleWire
}

func (Wire) RuleName() string {
	return ""
}

// LightBulb - потребитель без эффекта на мир, кроме собственного состояния.
type LightBulb struct {
	Rule string
}

func (b *LightBulb) Clone() domain.Behavior {
	c := *b
	return &c
}

func (b *LightBulb) CircuitRole() domain.CircuitRole {
	return domain.RoleConsumer
}

func (b *LightBulb) RuleName() string {
	return b.Rule
}

// On - горит ли лампа.
func (b *LightBulb) On(m *domain.GameMap, self *domain.Entity) bool {
	return m.Env().Circuit().IsActive(self.ID)
}

// SwitchDoor пропускает, только пока правило потребителя выполнено.
type SwitchDoor struct {
	Rule string
}

func (d *SwitchDoor) Clone() domain.Behavior {
	c := *d
	return &c
}

func (d *SwitchDoor) CircuitRole() domain.CircuitRole {
	return domain.RoleConsumer
}

func (d *SwitchDoor) RuleName() string {
	return d.Rule
}

func (d *SwitchDoor) CanEnter(m *domain.GameMap, self, _ *domain.Entity) bool {
	return m.Env().Circuit().IsActive(self.ID)
}

func isPushable(e *domain.Entity) bool {
	p, ok := domain.As[domain.Pushable](e)
	return ok && p.Pushable()
}
