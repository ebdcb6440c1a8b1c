package logic

import (
	"slices"

	"dungeon-sim/internal/domain"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// TickSource отдаёт текущий тик симуляции.
type TickSource interface {
	CurrentTick() int
}

// ConductorKind определяет, как проводник участвует в распространении.
type ConductorKind uint8

const (
	// KindWire принимает источники от соседей и передаёт их дальше.
	KindWire ConductorKind = iota
	// KindSwitch запитывается только сам (валуном) и проводит, пока включён.
	KindSwitch
)

// Conductor - узел сети, несущий набор источников питания.
type Conductor struct {
	ID   domain.EntityID
	Pos  domain.Position
	Kind ConductorKind

	activated     bool
	activatedTick int
	sources       map[domain.EntityID]struct{}

	neighbours []*Conductor
	observers  []*Consumer
}

func (c *Conductor) Activated() bool {
	return c.activated
}

func (c *Conductor) ActivatedTick() int {
	return c.activatedTick
}

// Conductive - может ли проводник принять источник от соседа.
func (c *Conductor) Conductive() bool {
	return c.Kind == KindWire
}

func (c *Conductor) has(source domain.EntityID) bool {
	_, ok := c.sources[source]
	return ok
}

// Sources в порядке возрастания ID.
func (c *Conductor) Sources() []domain.EntityID {
	out := make([]domain.EntityID, 0, len(c.sources))
	for id := range c.sources {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Consumer - логическая сущность (лампа, дверь), состояние которой выводится правилом.
type Consumer struct {
	ID   domain.EntityID
	Pos  domain.Position
	Rule Rule

	activated bool
	inputs    []*Conductor
}

func (c *Consumer) Activated() bool { return c.activated }

func (c *Consumer) Inputs() []*Conductor {
	return slices.Clone(c.inputs)
}

// Network - логическая сеть уровня. Соседство вычисляется один раз в Bind.
type Network struct {
	ticks      TickSource
	conductors map[domain.EntityID]*Conductor
	consumers  map[domain.EntityID]*Consumer
	bound      bool

	// OnChange вызывается при смене состояния потребителя.
	OnChange func(id domain.EntityID, active bool)
}

func NewNetwork(ticks TickSource) *Network {
	return &Network{
		ticks:      ticks,
		conductors: make(map[domain.EntityID]*Conductor),
		consumers:  make(map[domain.EntityID]*Consumer),
	}
}

// SetTickSource перепривязывает источник тиков (после клонирования).
func (n *Network) SetTickSource(ticks TickSource) {
	n.ticks = ticks
}

func (n *Network) currentTick() int {
	if n.ticks == nil {
		return 0
	}
	return n.ticks.CurrentTick()
}

func (n *Network) AddConductor(id domain.EntityID, pos domain.Position, kind ConductorKind) *Conductor {
	c := &Conductor{ID: id, Pos: pos, Kind: kind, sources: make(map[domain.EntityID]struct{})}
	n.conductors[id] = c
	n.bound = false
	return c
}

func (n *Network) AddConsumer(id domain.EntityID, pos domain.Position, rule Rule) *Consumer {
	if rule == nil {
		rule = OrRule{}
	}
	c := &Consumer{ID: id, Pos: pos, Rule: rule}
	n.consumers[id] = c
	n.bound = false
	return c
}

func (n *Network) Conductor(id domain.EntityID) *Conductor {
	return n.conductors[id]
}

func (n *Network) Consumer(id domain.EntityID) *Consumer {
	return n.consumers[id]
}

// Conductors в порядке возрастания ID.
func (n *Network) Conductors() []*Conductor {
	return sortedValues(n.conductors, func(c *Conductor) domain.EntityID { return c.ID })
}

// Consumers в порядке возрастания ID.
func (n *Network) Consumers() []*Consumer {
	return sortedValues(n.consumers, func(c *Consumer) domain.EntityID { return c.ID })
}

// Bind связывает проводники с соседями и потребителей с входами по кардинальному соседству.
func (n *Network) Bind() {
	conductors := n.Conductors()
	consumers := n.Consumers()

	for _, c := range conductors {
		c.neighbours = c.neighbours[:0]
		c.observers = c.observers[:0]
		for _, other := range conductors {
			if other != c && other.Pos.IsCardinallyAdjacent(c.Pos) {
				c.neighbours = append(c.neighbours, other)
			}
		}
		for _, l := range consumers {
			if l.Pos.IsCardinallyAdjacent(c.Pos) {
				c.observers = append(c.observers, l)
			}
		}
	}
	for _, l := range consumers {
		l.inputs = l.inputs[:0]
		for _, c := range conductors {
			if c.Pos.IsCardinallyAdjacent(l.Pos) {
				l.inputs = append(l.inputs, c)
			}
		}
		l.activated = l.Rule.Evaluate(l.inputs)
	}
	n.bound = true

	logger.Log.WithFields(logrus.Fields{
		"component":  "logic",
		"conductors": len(conductors),
		"consumers":  len(consumers),
	}).Debug("Circuit bound")
}

func (n *Network) Bound() bool { return n.bound }

// AddSource добавляет источник проводнику и распространяет его по сети.
func (n *Network) AddSource(id, source domain.EntityID) {
	c := n.conductors[id]
	if c == nil {
		return
	}
	n.addSource(c, source)
}

func (n *Network) addSource(c *Conductor, source domain.EntityID) {
	c.sources[source] = struct{}{}
	c.activatedTick = n.currentTick()
	if len(c.sources) == 1 && !c.activated {
		c.activated = true
		n.notify(c)
	}

	for _, nb := range c.neighbours {
		if nb.has(source) || !nb.Conductive() {
			continue
		}
		n.addSource(nb, source)
	}
}

// RemoveSource снимает источник и распространяет снятие по носителям этого источника.
func (n *Network) RemoveSource(id, source domain.EntityID) {
	c := n.conductors[id]
	if c == nil {
		return
	}
	n.removeSource(c, source)
}

func (n *Network) removeSource(c *Conductor, source domain.EntityID) {
	delete(c.sources, source)
	if len(c.sources) == 0 {
		c.activated = false
	}
	n.notify(c)

	for _, nb := range c.neighbours {
		if nb.has(source) {
			n.removeSource(nb, source)
		}
	}
}

func (n *Network) notify(c *Conductor) {
	for _, l := range c.observers {
		next := l.Rule.Evaluate(l.inputs)
		if next == l.activated {
			continue
		}
		l.activated = next
		logger.Log.WithFields(logrus.Fields{
			"component": "logic",
			"consumer":  l.ID.String(),
			"rule":      l.Rule.Name(),
			"active":    next,
			"tick":      n.currentTick(),
		}).Debug("Consumer state changed")
		if n.OnChange != nil {
			n.OnChange(l.ID, next)
		}
	}
}

// IsActive - состояние проводника или потребителя с данным ID.
func (n *Network) IsActive(id domain.EntityID) bool {
	if c := n.conductors[id]; c != nil {
		return c.activated
	}
	if l := n.consumers[id]; l != nil {
		return l.activated
	}
	return false
}

// Sources проводника (nil для неизвестного ID).
func (n *Network) Sources(id domain.EntityID) []domain.EntityID {
	c := n.conductors[id]
	if c == nil {
		return nil
	}
	return c.Sources()
}

// Clone - глубокая копия сети; ссылки соседства пересобираются по ID.
func (n *Network) Clone(ticks TickSource) *Network {
	out := NewNetwork(ticks)
	out.OnChange = n.OnChange
	for id, c := range n.conductors {
		nc := &Conductor{
			ID:            c.ID,
			Pos:           c.Pos,
			Kind:          c.Kind,
			activated:     c.activated,
			activatedTick: c.activatedTick,
			sources:       make(map[domain.EntityID]struct{}, len(c.sources)),
		}
		for s := range c.sources {
			nc.sources[s] = struct{}{}
		}
		out.conductors[id] = nc
	}
	for id, l := range n.consumers {
		out.consumers[id] = &Consumer{ID: l.ID, Pos: l.Pos, Rule: l.Rule, activated: l.activated}
	}
	for id, c := range n.conductors {
		nc := out.conductors[id]
		for _, nb := range c.neighbours {
			nc.neighbours = append(nc.neighbours, out.conductors[nb.ID])
		}
		for _, l := range c.observers {
			nc.observers = append(nc.observers, out.consumers[l.ID])
		}
	}
	for id, l := range n.consumers {
		nl := out.consumers[id]
		for _, c := range l.inputs {
			nl.inputs = append(nl.inputs, out.conductors[c.ID])
		}
	}
	out.bound = n.bound
	return out
}

func sortedValues[V any](m map[domain.EntityID]V, key func(V) domain.EntityID) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, func(a, b V) int {
		ka, kb := key(a), key(b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		}
		return 0
	})
	return out
}
