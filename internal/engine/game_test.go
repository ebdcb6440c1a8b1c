package engine

import (
	"errors"
	"testing"
	"time"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/entities"
)

type placement struct {
	kind domain.Kind
	x, y int
}

func buildGame(t *testing.T, seed uint64, items ...placement) *Game {
	t.Helper()
	cfg := NewConfig()
	cfg.Seed = seed
	cfg.HistoryDepth = 5
	f := entities.NewFactory(entities.DefaultParams())
	g := NewGame("test", cfg, f)
	for _, it := range items {
		e, err := f.Build(it.kind, domain.Position{X: it.x, Y: it.y}, g.IDs())
		if err != nil {
			t.Fatalf("Build(%s) error = %v", it.kind, err)
		}
		if err := g.AddEntity(e); err != nil {
			t.Fatalf("AddEntity(%s) error = %v", it.kind, err)
		}
	}
	if err := g.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return g
}

func TestGame_InitRequiresPlayer(t *testing.T) {
	g := NewGame("empty", NewConfig(), nil)
	if err := g.Init(); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("Init() error = %v, want ErrNoPlayer", err)
	}
}

func TestGame_Move(t *testing.T) {
	g := buildGame(t, 1,
		placement{domain.KindPlayer, 0, 0},
		placement{domain.KindWall, 0, 1},
	)

	tests := []struct {
		dir  domain.Direction
		want domain.Position
	}{
		{domain.DirDown, domain.Position{X: 0, Y: 0}},
		{domain.DirRight, domain.Position{X: 1, Y: 0}},
		{domain.DirDown, domain.Position{X: 1, Y: 1}},
		{domain.DirLeft, domain.Position{X: 1, Y: 1}},
	}
	for i, tt := range tests {
		tick, err := g.TickMove(tt.dir)
		if err != nil {
			t.Fatalf("step %d: TickMove(%s) error = %v", i, tt.dir, err)
		}
		if tick != i+1 {
			t.Errorf("step %d: tick = %d, want %d", i, tick, i+1)
		}
		if got := g.Map.Player().Pos; got != tt.want {
			t.Errorf("step %d: player at %v, want %v", i, got, tt.want)
		}
	}
}

func TestGame_RejectedCommandsHaveNoEffect(t *testing.T) {
	g := buildGame(t, 1,
		placement{domain.KindPlayer, 0, 0},
		placement{domain.KindWall, 1, 0},
		placement{domain.KindZombieToast, 4, 4},
	)
	wall := g.Map.EntitiesOfKind(domain.KindWall)[0]
	before := g.Digest()

	tests := []struct {
		name string
		cmd  domain.Command
		want error
	}{
		{"unknown target", domain.Command{Action: domain.ActionInteract, Target: domain.PackEntityID(domain.KindMercenary, 0, 99)}, ErrUnknownEntity},
		{"wall", domain.Command{Action: domain.ActionInteract, Target: wall.ID}, ErrNotInteractable},
		{"no direction", domain.Command{Action: domain.ActionMove}, ErrInvalidCommand},
		{"unknown action", domain.Command{Action: domain.ActionUnknown}, ErrInvalidCommand},
		{"rewind nothing", domain.Command{Action: domain.ActionRewind, Ticks: 0}, ErrInvalidRewind},
		{"rewind past history", domain.Command{Action: domain.ActionRewind, Ticks: 3}, ErrInvalidRewind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tick, err := g.Apply(tt.cmd)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Apply() error = %v, want %v", err, tt.want)
			}
			if tick != 0 {
				t.Errorf("tick = %d, want 0", tick)
			}
			if g.Digest() != before {
				t.Error("rejected command changed the world")
			}
		})
	}
}

func TestGame_Deterministic(t *testing.T) {
	items := []placement{
		{domain.KindPlayer, 0, 0},
		{domain.KindZombieToast, 5, 5},
		{domain.KindZombieToast, 6, 2},
		{domain.KindMercenary, 8, 0},
		{domain.KindSwampTile, 7, 0},
	}
	dirs := []domain.Direction{domain.DirRight, domain.DirDown, domain.DirDown, domain.DirLeft, domain.DirUp}

	a := buildGame(t, 42, items...)
	b := buildGame(t, 42, items...)
	for i, d := range dirs {
		if _, err := a.TickMove(d); err != nil {
			t.Fatalf("a.TickMove() error = %v", err)
		}
		if _, err := b.TickMove(d); err != nil {
			t.Fatalf("b.TickMove() error = %v", err)
		}
		if a.Digest() != b.Digest() {
			t.Fatalf("digests diverged at step %d", i)
		}
	}
	if a.ID == b.ID {
		t.Error("games share an id")
	}
}

func TestGame_SpawnWithoutFactory(t *testing.T) {
	g := NewGame("bare", NewConfig(), nil)
	if _, err := g.Spawn(domain.KindZombieToast, domain.Position{}); err == nil {
		t.Error("Spawn() without factory succeeded")
	}
}

type countingObserver struct{ ticks []int }

func (o *countingObserver) ObserveTick(g *Game, _ time.Duration) {
	o.ticks = append(o.ticks, g.CurrentTick())
}

func TestGame_Observers(t *testing.T) {
	g := buildGame(t, 1, placement{domain.KindPlayer, 0, 0})
	obs := &countingObserver{}
	g.AddObserver(obs)
	g.TickIdle()
	g.TickIdle()
	if len(obs.ticks) != 2 || obs.ticks[1] != 2 {
		t.Errorf("observed ticks = %v, want [1 2]", obs.ticks)
	}
}
