package entities_test

import (
	"testing"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/entities"
)

func TestPortal_Teleport(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindPlayer, 0, 0),
		entities.Spec{Kind: domain.KindPortal, Pos: pos(1, 0), Colour: "red"},
		entities.Spec{Kind: domain.KindPortal, Pos: pos(5, 5), Colour: "red"},
	)
	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	want := pos(5, 5).Translate(domain.DirUp)
	if got := g.Map.Player().Pos; got != want {
		t.Errorf("player at %v, want %v", got, want)
	}
}

func TestPortal_UnpairedBlocks(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindPlayer, 0, 0),
		entities.Spec{Kind: domain.KindPortal, Pos: pos(1, 0), Colour: "blue"},
	)
	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	if got := g.Map.Player().Pos; got != pos(0, 0) {
		t.Errorf("player at %v, unpaired portal should block", got)
	}
}

func TestSwampTile_MovementFactor(t *testing.T) {
	var ids domain.IDAllocator
	f := entities.NewFactory(entities.DefaultParams())
	m := domain.NewGameMap()

	add := func(s entities.Spec) *domain.Entity {
		e, err := f.Create(s, &ids)
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if err := m.AddEntity(e); err != nil {
			t.Fatalf("AddEntity() error = %v", err)
		}
		return e
	}
	add(entities.Spec{Kind: domain.KindSwampTile, Pos: pos(1, 0), MovementFactor: 3})
	zombie := add(spec(domain.KindZombieToast, 0, 0))
	player := add(spec(domain.KindPlayer, 1, 1))
	m.SetPlayer(player.ID)

	if !m.MoveTo(zombie, pos(1, 0)) {
		t.Fatal("zombie could not enter the swamp")
	}
	if zombie.MovementFactor != 3 {
		t.Errorf("MovementFactor on swamp = %d, want 3", zombie.MovementFactor)
	}
	if got := m.Weight(pos(1, 0)); got != 3 {
		t.Errorf("Weight(swamp) = %d, want 3", got)
	}
	m.MoveTo(zombie, pos(2, 0))
	if zombie.MovementFactor != 1 {
		t.Errorf("MovementFactor after leaving = %d, want 1", zombie.MovementFactor)
	}

	m.MoveTo(player, pos(1, 0))
	if player.MovementFactor != 1 {
		t.Errorf("player MovementFactor = %d, swamp must not slow the player", player.MovementFactor)
	}
}
