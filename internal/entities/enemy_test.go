package entities_test

import (
	"errors"
	"testing"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/engine"
	"dungeon-sim/internal/entities"
)

func wallet(t *testing.T, g *engine.Game) domain.Wallet {
	t.Helper()
	w, ok := domain.As[domain.Wallet](g.Map.Player())
	if !ok {
		t.Fatal("player has no wallet")
	}
	return w
}

func hostile(t *testing.T, e *domain.Entity) bool {
	t.Helper()
	bp, ok := domain.As[domain.BattleParticipant](e)
	if !ok {
		t.Fatalf("%s is not a battle participant", e.ID)
	}
	return bp.Hostile()
}

func TestMercenary_Bribe(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindTreasure, 1, 0),
		spec(domain.KindMercenary, 4, 0),
	)

	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	if got := wallet(t, g).Treasure(); got != 1 {
		t.Fatalf("Treasure() = %d, want 1", got)
	}
	if n := len(g.Map.EntitiesOfKind(domain.KindTreasure)); n != 0 {
		t.Fatalf("treasure left on map: %d", n)
	}
	merc := only(t, g, domain.KindMercenary)
	if merc.Pos != pos(3, 0) {
		t.Fatalf("mercenary at %v, want (3,0)", merc.Pos)
	}

	// Слишком далеко: отказ без продвижения тика
	tick := g.CurrentTick()
	if _, err := g.Interact(merc.ID); !errors.Is(err, engine.ErrNotInteractable) {
		t.Fatalf("Interact() error = %v, want ErrNotInteractable", err)
	}
	if g.CurrentTick() != tick {
		t.Fatal("rejected interaction advanced the tick")
	}

	g.TickIdle()
	merc = only(t, g, domain.KindMercenary)
	if merc.Pos != pos(2, 0) {
		t.Fatalf("mercenary at %v, want (2,0)", merc.Pos)
	}

	if _, err := g.Interact(merc.ID); err != nil {
		t.Fatalf("Interact() error = %v", err)
	}
	if got := wallet(t, g).Treasure(); got != 0 {
		t.Errorf("Treasure() = %d, want 0 after bribe", got)
	}
	if hostile(t, only(t, g, domain.KindMercenary)) {
		t.Error("bribed mercenary is still hostile")
	}
}

func TestMercenary_ControlExpires(t *testing.T) {
	params := entities.DefaultParams()
	params.MindControlDuration = 2
	params.BribeAmount = 0
	g := newGame(t, params,
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindWall, 0, 1),
		spec(domain.KindMercenary, 1, 0),
	)
	merc := only(t, g, domain.KindMercenary)
	if _, err := g.Interact(merc.ID); err != nil {
		t.Fatalf("Interact() error = %v", err)
	}
	if hostile(t, merc) {
		t.Fatal("mercenary is hostile right after the bribe")
	}
	g.TickIdle()
	g.TickIdle()
	merc = only(t, g, domain.KindMercenary)
	if !hostile(t, merc) {
		t.Error("mind control did not expire")
	}
}

func TestAssassin_Bribe(t *testing.T) {
	tests := []struct {
		name     string
		failRate float64
		hostile  bool
	}{
		{"always fails", 1, true},
		{"never fails", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := entities.DefaultParams()
			params.AssassinBribeFailRate = tt.failRate
			g := newGame(t, params,
				spec(domain.KindPlayer, 0, 0),
				spec(domain.KindTreasure, 1, 0),
				spec(domain.KindAssassin, 3, 0),
			)
			if _, err := g.TickMove(domain.DirRight); err != nil {
				t.Fatalf("TickMove() error = %v", err)
			}
			a := only(t, g, domain.KindAssassin)
			if _, err := g.Interact(a.ID); err != nil {
				t.Fatalf("Interact() error = %v", err)
			}
			if got := wallet(t, g).Treasure(); got != 0 {
				t.Errorf("Treasure() = %d, want 0 (paid either way)", got)
			}
			if got := hostile(t, only(t, g, domain.KindAssassin)); got != tt.hostile {
				t.Errorf("Hostile() = %v, want %v", got, tt.hostile)
			}
		})
	}
}

func TestEnemy_DestroyedInBattle(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindZombieToast, 1, 0),
	)
	g.Battles = killer{}
	zombie := only(t, g, domain.KindZombieToast)

	if _, err := g.TickMove(domain.DirRight); err != nil {
		t.Fatalf("TickMove() error = %v", err)
	}
	if g.Map.Entity(zombie.ID) != nil {
		t.Fatal("zombie survived a lethal battle")
	}
	if got := g.EnemiesDestroyed(); got != 1 {
		t.Errorf("EnemiesDestroyed() = %d, want 1", got)
	}
	for _, e := range g.Scheduler.Entries() {
		if e.ID == zombie.ID.Key() {
			t.Errorf("action of destroyed zombie is still scheduled: %+v", e)
		}
	}
}

func TestEnemy_AttacksPlayer(t *testing.T) {
	g := newGame(t, entities.DefaultParams(),
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindMercenary, 2, 0),
	)
	g.Battles = killer{}

	g.TickIdle()
	if only(t, g, domain.KindMercenary).Pos != pos(1, 0) {
		t.Fatal("mercenary did not approach")
	}
	g.TickIdle()
	if n := len(g.Map.EntitiesOfKind(domain.KindMercenary)); n != 0 {
		t.Errorf("mercenary count = %d, want 0 after walking into the player", n)
	}
	if got := g.EnemiesDestroyed(); got != 1 {
		t.Errorf("EnemiesDestroyed() = %d, want 1", got)
	}
}

func TestZombieSpawner(t *testing.T) {
	params := entities.DefaultParams()
	params.ZombieSpawnInterval = 2
	g := newGame(t, params,
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindZombieSpawner, 5, 5),
		spec(domain.KindWall, 5, 4),
		spec(domain.KindWall, 5, 6),
		spec(domain.KindWall, 4, 5),
	)

	g.TickIdle()
	if n := len(g.Map.EntitiesOfKind(domain.KindZombieToast)); n != 0 {
		t.Fatalf("zombies after first tick = %d, want 0", n)
	}
	g.TickIdle()
	zombie := only(t, g, domain.KindZombieToast)
	if zombie.Pos != pos(6, 5) {
		t.Errorf("zombie spawned at %v, want the only free side (6,5)", zombie.Pos)
	}
}

func TestZombieSpawner_Destroy(t *testing.T) {
	params := entities.DefaultParams()
	params.ZombieSpawnInterval = 1
	g := newGame(t, params,
		spec(domain.KindPlayer, 0, 0),
		spec(domain.KindZombieSpawner, 1, 0),
	)
	spawner := only(t, g, domain.KindZombieSpawner)

	if _, err := g.Interact(spawner.ID); err != nil {
		t.Fatalf("Interact() error = %v", err)
	}
	for range 3 {
		g.TickIdle()
	}
	if g.Map.Entity(spawner.ID) != nil {
		t.Error("spawner still on the map")
	}
	if n := len(g.Map.EntitiesOfKind(domain.KindZombieToast)); n != 0 {
		t.Errorf("destroyed spawner produced %d zombies", n)
	}
}
