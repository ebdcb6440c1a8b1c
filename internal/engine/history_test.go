package engine

import (
	"errors"
	"testing"

	"dungeon-sim/internal/domain"
)

func TestGame_Rewind(t *testing.T) {
	g := buildGame(t, 3,
		placement{domain.KindPlayer, 0, 0},
		placement{domain.KindBoulder, 2, 0},
	)
	oldID := g.Map.Player().ID

	for range 3 {
		if _, err := g.TickMove(domain.DirRight); err != nil {
			t.Fatalf("TickMove() error = %v", err)
		}
	}
	if got := g.Map.EntitiesOfKind(domain.KindBoulder)[0].Pos; got != (domain.Position{X: 4, Y: 0}) {
		t.Fatalf("boulder at %v before rewind, want (4,0)", got)
	}

	tick, err := g.Rewind(2)
	if err != nil {
		t.Fatalf("Rewind() error = %v", err)
	}
	if tick != 1 {
		t.Errorf("tick after rewind = %d, want 1", tick)
	}

	player := g.Map.Player()
	if player == nil {
		t.Fatal("no player after rewind")
	}
	// Игрок остаётся там, где был в настоящем, без памяти о прошлых шагах
	if player.Pos != (domain.Position{X: 3, Y: 0}) {
		t.Errorf("player at %v, want (3,0)", player.Pos)
	}
	if player.PrevPos != player.Pos || player.HasPrevDistinct {
		t.Errorf("player prev = %v (distinct %v), want cleared", player.PrevPos, player.HasPrevDistinct)
	}
	if player.ID == oldID || player.ID.Index() != oldID.Index() {
		t.Errorf("player id = %s, want fresh generation of %s", player.ID, oldID)
	}
	if n := len(g.Map.EntitiesOfKind(domain.KindPlayer)); n != 1 {
		t.Errorf("players after rewind = %d, want 1", n)
	}
	if got := g.Map.EntitiesOfKind(domain.KindBoulder)[0].Pos; got != (domain.Position{X: 2, Y: 0}) {
		t.Errorf("boulder at %v after rewind, want (2,0)", got)
	}

	// Будущее после точки возврата отброшено
	if _, err := g.Rewind(2); !errors.Is(err, ErrInvalidRewind) {
		t.Errorf("second Rewind(2) error = %v, want ErrInvalidRewind", err)
	}

	// Игра продолжается с восстановленного состояния
	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() after rewind error = %v", err)
	}
	if g.CurrentTick() != 2 || g.Map.Player().Pos != (domain.Position{X: 4, Y: 0}) {
		t.Errorf("after rewind+move: tick %d pos %v", g.CurrentTick(), g.Map.Player().Pos)
	}
}

func TestHistory_Depth(t *testing.T) {
	h := NewHistory(2)
	for i := 0; i < 5; i++ {
		h.Push(&Snapshot{Tick: i})
	}
	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	if h.At(1) != nil {
		t.Error("tick 1 should have been evicted")
	}
	if s := h.At(2); s == nil || s.Tick != 2 {
		t.Errorf("At(2) = %v", s)
	}
	h.Truncate(3)
	if h.At(4) != nil || h.Len() != 2 {
		t.Errorf("Truncate(3) left %d snapshots", h.Len())
	}
}

func TestSnapshot_NoAliasing(t *testing.T) {
	g := buildGame(t, 9, placement{domain.KindPlayer, 0, 0})
	snap := g.Snapshot()
	before := snap.Map.Player().Pos

	g.TickMove(domain.DirDown)
	if snap.Map.Player().Pos != before {
		t.Error("snapshot map follows the live game")
	}
	if snap.Tick != 0 || snap.Scheduler.CurrentTick() != 0 {
		t.Error("snapshot scheduler follows the live game")
	}
}

func TestGame_TimeTravelLimitedByHistory(t *testing.T) {
	g := buildGame(t, 4,
		placement{domain.KindPlayer, 0, 0},
		placement{domain.KindTimeTravellingPortal, 8, 0},
	)

	var tick int
	for range 8 {
		var err error
		if tick, err = g.TickMove(domain.DirRight); err != nil {
			t.Fatalf("TickMove() error = %v", err)
		}
	}

	// Глубина истории 5: самый старый снимок - тик 3
	if tick != 3 {
		t.Errorf("tick after time travel = %d, want 3", tick)
	}
	if got := g.Map.Player().Pos; got != (domain.Position{X: 8, Y: 0}) {
		t.Errorf("player at %v, want (8,0)", got)
	}
	if n := len(g.Map.EntitiesOfKind(domain.KindPlayer)); n != 1 {
		t.Errorf("players after time travel = %d, want 1", n)
	}
}
