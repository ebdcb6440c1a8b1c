package logic

import (
	"os"
	"testing"

	"dungeon-sim/internal/domain"
	"dungeon-sim/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeClock struct{ tick int }

func (f *fakeClock) CurrentTick() int { return f.tick }

func id(kind domain.Kind, n uint64) domain.EntityID {
	return domain.PackEntityID(kind, 0, n)
}

func pos(x, y int) domain.Position { return domain.Position{X: x, Y: y} }

// switch(0,0) - wire(1,0) - wire(2,0) - bulb(3,0)
func TestNetwork_SwitchWireBulb(t *testing.T) {
	clock := &fakeClock{tick: 4}
	n := NewNetwork(clock)

	sw := id(domain.KindSwitch, 1)
	w1 := id(domain.KindWire, 2)
	w2 := id(domain.KindWire, 3)
	bulb := id(domain.KindLightBulb, 4)

	n.AddConductor(sw, pos(0, 0), KindSwitch)
	n.AddConductor(w1, pos(1, 0), KindWire)
	n.AddConductor(w2, pos(2, 0), KindWire)
	n.AddConsumer(bulb, pos(3, 0), OrRule{})
	n.Bind()

	if n.IsActive(bulb) {
		t.Fatal("bulb must start off")
	}

	n.AddSource(sw, sw)
	for _, c := range []domain.EntityID{sw, w1, w2, bulb} {
		if !n.IsActive(c) {
			t.Errorf("%v should be active after the switch is pressed", c)
		}
	}
	if got := n.Conductor(w2).ActivatedTick(); got != 4 {
		t.Errorf("ActivatedTick = %d, want 4", got)
	}

	n.RemoveSource(sw, sw)
	for _, c := range []domain.EntityID{sw, w1, w2, bulb} {
		if n.IsActive(c) {
			t.Errorf("%v should be inactive after the switch is released", c)
		}
	}
}

// Два выключателя на одном проводе: снятие одного не гасит провод.
func TestNetwork_MultiSource(t *testing.T) {
	n := NewNetwork(&fakeClock{})

	s1 := id(domain.KindSwitch, 1)
	s2 := id(domain.KindSwitch, 2)
	w := id(domain.KindWire, 3)

	n.AddConductor(s1, pos(0, 0), KindSwitch)
	n.AddConductor(w, pos(1, 0), KindWire)
	n.AddConductor(s2, pos(2, 0), KindSwitch)
	n.Bind()

	n.AddSource(s1, s1)
	n.AddSource(s2, s2)
	if got := n.Sources(w); len(got) != 2 {
		t.Fatalf("wire sources = %v, want two", got)
	}

	n.RemoveSource(s1, s1)
	if !n.IsActive(w) {
		t.Error("wire must stay active while another source remains")
	}
	if got := n.Sources(w); len(got) != 1 || got[0] != s2 {
		t.Errorf("wire sources = %v, want [%v]", got, s2)
	}

	// Выключатель не принимает чужие источники
	if got := n.Sources(s1); len(got) != 0 {
		t.Errorf("released switch carries %v", got)
	}
}

func TestNetwork_NoDuplicateSourcesInLoop(t *testing.T) {
	n := NewNetwork(&fakeClock{})
	sw := id(domain.KindSwitch, 1)
	n.AddConductor(sw, pos(0, 0), KindSwitch)
	// Кольцо проводов 2x2 рядом с выключателем
	ring := []domain.Position{pos(1, 0), pos(2, 0), pos(2, 1), pos(1, 1)}
	var wires []domain.EntityID
	for i, p := range ring {
		w := id(domain.KindWire, uint64(10+i))
		wires = append(wires, w)
		n.AddConductor(w, p, KindWire)
	}
	n.Bind()

	n.AddSource(sw, sw)
	for _, w := range wires {
		if got := n.Sources(w); len(got) != 1 {
			t.Errorf("wire %v sources = %v, want exactly one", w, got)
		}
	}
	n.RemoveSource(sw, sw)
	for _, w := range wires {
		if n.IsActive(w) {
			t.Errorf("wire %v still active", w)
		}
	}
}

func TestNetwork_CoAnd(t *testing.T) {
	clock := &fakeClock{}
	n := NewNetwork(clock)

	// s1 - w1 - door - w2 - s2
	s1 := id(domain.KindSwitch, 1)
	w1 := id(domain.KindWire, 2)
	door := id(domain.KindSwitchDoor, 3)
	w2 := id(domain.KindWire, 4)
	s2 := id(domain.KindSwitch, 5)
	n.AddConductor(s1, pos(0, 0), KindSwitch)
	n.AddConductor(w1, pos(1, 0), KindWire)
	n.AddConsumer(door, pos(2, 0), CoAndRule{})
	n.AddConductor(w2, pos(3, 0), KindWire)
	n.AddConductor(s2, pos(4, 0), KindSwitch)
	n.Bind()

	t.Run("different ticks", func(t *testing.T) {
		clock.tick = 1
		n.AddSource(s1, s1)
		clock.tick = 2
		n.AddSource(s2, s2)
		if n.IsActive(door) {
			t.Error("co_and must stay off when inputs activate on different ticks")
		}
		n.RemoveSource(s1, s1)
		n.RemoveSource(s2, s2)
	})

	t.Run("same tick", func(t *testing.T) {
		clock.tick = 7
		n.AddSource(s1, s1)
		n.AddSource(s2, s2)
		if !n.IsActive(door) {
			t.Error("co_and must activate when inputs activate on the same tick")
		}
	})
}

func TestNetwork_CloneIndependent(t *testing.T) {
	n := NewNetwork(&fakeClock{})
	sw := id(domain.KindSwitch, 1)
	w := id(domain.KindWire, 2)
	n.AddConductor(sw, pos(0, 0), KindSwitch)
	n.AddConductor(w, pos(0, 1), KindWire)
	n.Bind()

	c := n.Clone(&fakeClock{})
	c.AddSource(sw, sw)

	if n.IsActive(w) {
		t.Error("powering the clone leaked into the original")
	}
	if !c.IsActive(w) {
		t.Error("clone did not propagate along rebuilt neighbour links")
	}
}

func TestNetwork_OnChange(t *testing.T) {
	n := NewNetwork(&fakeClock{})
	sw := id(domain.KindSwitch, 1)
	bulb := id(domain.KindLightBulb, 2)
	n.AddConductor(sw, pos(0, 0), KindSwitch)
	n.AddConsumer(bulb, pos(1, 0), OrRule{})
	n.Bind()

	var changes []bool
	n.OnChange = func(got domain.EntityID, active bool) {
		if got != bulb {
			t.Errorf("OnChange for %v, want %v", got, bulb)
		}
		changes = append(changes, active)
	}
	n.AddSource(sw, sw)
	n.RemoveSource(sw, sw)
	n.RemoveSource(sw, sw)

	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Errorf("changes = %v, want [true false]", changes)
	}
}
