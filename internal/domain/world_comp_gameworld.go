package domain

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrDetached       = errors.New("map is not attached to a game")
	ErrDuplicateID    = errors.New("entity id already on map")
	ErrEntityNotFound = errors.New("entity not on map")
)

// Cell - все сущности одной клетки, разложенные по слоям.
// Внутри слоя сохраняется порядок добавления.
type Cell struct {
	Pos    Position
	layers [layerCount][]*Entity
}

func (c *Cell) Len() int {
	n := 0
	for _, l := range c.layers {
		n += len(l)
	}
	return n
}

// Entities возвращает копию списка: слой за слоем, затем по порядку добавления.
func (c *Cell) Entities() []*Entity {
	out := make([]*Entity, 0, c.Len())
	for _, l := range c.layers {
		out = append(out, l...)
	}
	return out
}

func (c *Cell) add(e *Entity) {
	c.layers[e.Layer] = append(c.layers[e.Layer], e)
}

func (c *Cell) remove(e *Entity) bool {
	bucket := c.layers[e.Layer]
	for i, other := range bucket {
		if other == e {
			// Порядок важен, поэтому без swap-with-last
			c.layers[e.Layer] = append(bucket[:i], bucket[i+1:]...)
			return true
		}
	}
	return false
}

// Weight - стоимость входа в клетку для поиска пути (минимум 1).
func (c *Cell) Weight() int {
	w := 1
	for _, l := range c.layers {
		for _, e := range l {
			if tc, ok := As[TraversalCoster](e); ok && tc.TraversalCost() > w {
				w = tc.TraversalCost()
			}
		}
	}
	return w
}

// GameMap - разреженный пространственный индекс: хранятся только непустые клетки.
type GameMap struct {
	cells    map[Position]*Cell
	registry map[EntityID]*Entity
	player   EntityID
	env      Env
}

func NewGameMap() *GameMap {
	return &GameMap{
		cells:    make(map[Position]*Cell),
		registry: make(map[EntityID]*Entity),
		env:      detachedEnv{},
	}
}

// SetEnv привязывает карту к игре. nil возвращает автономный режим.
func (m *GameMap) SetEnv(env Env) {
	if env == nil {
		env = detachedEnv{}
	}
	m.env = env
}

func (m *GameMap) Env() Env {
	return m.env
}

// AddEntity кладёт сущность в клетку её текущей позиции.
func (m *GameMap) AddEntity(e *Entity) error {
	if _, exists := m.registry[e.ID]; exists {
		return fmt.Errorf("add %s: %w", e.ID, ErrDuplicateID)
	}
	m.registry[e.ID] = e
	m.attach(e)
	return nil
}

// RemoveEntity убирает сущность без уведомлений.
func (m *GameMap) RemoveEntity(e *Entity) {
	if m.registry[e.ID] != e {
		return
	}
	m.detach(e)
	delete(m.registry, e.ID)
	if m.player == e.ID {
		m.player = NilEntityID
	}
}

// Destroy убирает сущность и вызывает её OnDestroy.
func (m *GameMap) Destroy(e *Entity) {
	if m.registry[e.ID] != e {
		return
	}
	m.RemoveEntity(e)
	if d, ok := As[Destroyable](e); ok {
		d.OnDestroy(m, e)
	}
}

func (m *GameMap) attach(e *Entity) {
	c := m.cells[e.Pos]
	if c == nil {
		c = &Cell{Pos: e.Pos}
		m.cells[e.Pos] = c
	}
	c.add(e)
}

func (m *GameMap) detach(e *Entity) {
	c := m.cells[e.Pos]
	if c == nil {
		return
	}
	c.remove(e)
	if c.Len() == 0 {
		delete(m.cells, e.Pos)
	}
}

// SetPlayer отмечает сущность игроком.
func (m *GameMap) SetPlayer(id EntityID) {
	m.player = id
}

func (m *GameMap) Player() *Entity {
	return m.registry[m.player]
}

func (m *GameMap) IsPlayer(e *Entity) bool {
	return e != nil && !m.player.IsNil() && e.ID == m.player
}

// Entity ищет сущность по ID
func (m *GameMap) Entity(id EntityID) *Entity {
	return m.registry[id]
}

func (m *GameMap) CellAt(p Position) *Cell {
	return m.cells[p]
}

// EntitiesAt возвращает копию списка сущностей в клетке (nil для пустой).
func (m *GameMap) EntitiesAt(p Position) []*Entity {
	c := m.cells[p]
	if c == nil {
		return nil
	}
	return c.Entities()
}

// Weight клетки; для неиндексированной позиции 1.
func (m *GameMap) Weight(p Position) int {
	c := m.cells[p]
	if c == nil {
		return 1
	}
	return c.Weight()
}

func (m *GameMap) Count() int {
	return len(m.registry)
}

// Positions возвращает занятые позиции построчно.
func (m *GameMap) Positions() []Position {
	out := make([]Position, 0, len(m.cells))
	for p := range m.cells {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Position) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return out
}

// Entities - все сущности в стабильном порядке (позиция, слой, добавление).
func (m *GameMap) Entities() []*Entity {
	out := make([]*Entity, 0, len(m.registry))
	for _, p := range m.Positions() {
		out = append(out, m.cells[p].Entities()...)
	}
	return out
}

func (m *GameMap) EntitiesOfKind(k Kind) []*Entity {
	var out []*Entity
	for _, e := range m.Entities() {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// Clone - глубокая копия карты. Окружение не копируется: вызывающий привязывает его заново.
func (m *GameMap) Clone() *GameMap {
	c := NewGameMap()
	c.player = m.player
	for pos, cell := range m.cells {
		nc := &Cell{Pos: pos}
		for l, bucket := range cell.layers {
			if len(bucket) == 0 {
				continue
			}
			nb := make([]*Entity, len(bucket))
			for i, e := range bucket {
				ce := e.Clone()
				nb[i] = ce
				c.registry[ce.ID] = ce
			}
			nc.layers[l] = nb
		}
		c.cells[pos] = nc
	}
	return c
}
