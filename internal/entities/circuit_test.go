package entities_test

import (
	"testing"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/entities"
)

func bulbOn(t *testing.T, m *domain.GameMap, e *domain.Entity) bool {
	t.Helper()
	b, ok := domain.As[*entities.LightBulb](e)
	if !ok {
		t.Fatalf("entity %s is not a light bulb", e.ID)
	}
	return b.On(m, e)
}

func TestBoulderSwitchWireBulb(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindBoulder, 1, 0),
		spec(domain.KindSwitch, 2, 0),
		spec(domain.KindWire, 2, 1),
		spec(domain.KindLightBulb, 2, 2),
	)
	bulb := only(t, g, domain.KindLightBulb)
	if bulbOn(t, g.Map, bulb) {
		t.Fatal("bulb is on before the boulder reaches the switch")
	}

	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	boulder := only(t, g, domain.KindBoulder)
	if boulder.Pos != pos(2, 0) {
		t.Fatalf("boulder at %v, want (2,0)", boulder.Pos)
	}
	if g.Map.Player().Pos != pos(1, 0) {
		t.Fatalf("player at %v, want (1,0)", g.Map.Player().Pos)
	}
	bulb = only(t, g, domain.KindLightBulb)
	if !bulbOn(t, g.Map, bulb) {
		t.Fatal("bulb is off with the boulder on the switch")
	}
	wire := only(t, g, domain.KindWire)
	if !g.Logic.IsActive(wire.ID) {
		t.Error("wire is not powered")
	}

	// Второй толчок снимает валун с переключателя
	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	if only(t, g, domain.KindBoulder).Pos != pos(3, 0) {
		t.Fatal("boulder was not pushed off the switch")
	}
	bulb = only(t, g, domain.KindLightBulb)
	if bulbOn(t, g.Map, bulb) {
		t.Error("bulb stays on after the boulder left")
	}
}

func TestSwitchDoor_InitialBoulder(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindSwitch, 1, 0),
		spec(domain.KindBoulder, 1, 0),
		entities.Spec{Kind: domain.KindSwitchDoor, Pos: pos(2, 0), Logic: "or"},
		spec(domain.KindPlayer, 2, 1),
	)
	door := only(t, g, domain.KindSwitchDoor)
	if !g.Logic.IsActive(door.ID) {
		t.Fatal("door is closed with a boulder resting on the switch")
	}

	if _, err := g.TickMove(domain.DirUp); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	if g.Map.Player().Pos != pos(2, 0) {
		t.Errorf("player at %v, want to pass through the open door", g.Map.Player().Pos)
	}
}

func TestSwitchDoor_ClosedBlocks(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindSwitch, 1, 0),
		entities.Spec{Kind: domain.KindSwitchDoor, Pos: pos(2, 0), Logic: "and"},
		spec(domain.KindPlayer, 2, 1),
	)
	if _, err := g.TickMove(domain.DirUp); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	if g.Map.Player().Pos != pos(2, 1) {
		t.Errorf("player at %v, closed door should block", g.Map.Player().Pos)
	}
}

func TestBoulder_BlockedByWall(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindBoulder, 1, 0),
		spec(domain.KindWall, 2, 0),
	)
	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	if g.Map.Player().Pos != pos(0, 0) {
		t.Errorf("player at %v, want (0,0)", g.Map.Player().Pos)
	}
	if only(t, g, domain.KindBoulder).Pos != pos(1, 0) {
		t.Error("boulder moved into a wall")
	}
}
