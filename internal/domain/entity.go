package domain

// Behavior - объект поведения, прикреплённый к сущности при создании.
// Возможности (Blocker, OverlapHandler, ...) определяются проверкой интерфейсов.
type Behavior interface {
	// Clone возвращает независимую копию состояния поведения.
	Clone() Behavior
}

// Entity - плоская запись сущности. Позицию меняет только GameMap.
type Entity struct {
	ID    EntityID `json:"id"`
	Kind  Kind     `json:"kind"`
	Layer Layer    `json:"layer"`

	Pos             Position `json:"pos"`
	PrevPos         Position `json:"prevPos"`
	PrevDistinctPos Position `json:"prevDistinctPos"`
	HasPrevDistinct bool     `json:"hasPrevDistinct"`

	// MovementFactor замедляет ИИ (болото). 1 - обычная скорость.
	MovementFactor int `json:"movementFactor"`

	Behavior Behavior `json:"-"`
}

// NewEntity собирает сущность в начальной позиции.
func NewEntity(id EntityID, layer Layer, pos Position, b Behavior) *Entity {
	return &Entity{
		ID:             id,
		Kind:           id.Kind(),
		Layer:          layer,
		Pos:            pos,
		PrevPos:        pos,
		MovementFactor: 1,
		Behavior:       b,
	}
}

// setPosition обновляет историю позиций.
func (e *Entity) setPosition(p Position) {
	e.PrevPos = e.Pos
	e.Pos = p
	if e.PrevPos != e.Pos {
		e.PrevDistinctPos = e.PrevPos
		e.HasPrevDistinct = true
	}
}

// Clone копирует запись вместе с поведением.
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Behavior != nil {
		c.Behavior = e.Behavior.Clone()
	}
	return &c
}

// As возвращает возможность T поведения сущности, если она есть.
func As[T any](e *Entity) (T, bool) {
	var zero T
	if e == nil || e.Behavior == nil {
		return zero, false
	}
	v, ok := e.Behavior.(T)
	return v, ok
}
