package handlers

import (
	"encoding/json"
	"errors"
	"testing"

	"dungeon-sim/internal/domain"
)

type fakeGame struct {
	moves     []domain.Direction
	interacts []domain.EntityID
	idles     int
	tick      int
}

func (f *fakeGame) TickMove(d domain.Direction) (int, error) {
	f.moves = append(f.moves, d)
	f.tick++
	return f.tick, nil
}

func (f *fakeGame) TickIdle() int {
	f.idles++
	f.tick++
	return f.tick
}

func (f *fakeGame) Interact(id domain.EntityID) (int, error) {
	f.interacts = append(f.interacts, id)
	f.tick++
	return f.tick, nil
}

func (f *fakeGame) Rewind(n int) (int, error) {
	f.tick -= n
	return f.tick, nil
}

func TestRegistry_Dispatch(t *testing.T) {
	g := &fakeGame{}
	ctx := Context{Game: g}
	reg := Registry()

	res, err := reg[domain.ActionMove](ctx, json.RawMessage(`{"direction":"left"}`))
	if err != nil {
		t.Fatalf("MOVE: %v", err)
	}
	if res.Tick != 1 || res.Command.Direction != domain.DirLeft || len(g.moves) != 1 {
		t.Errorf("MOVE result = %+v, moves = %v", res, g.moves)
	}

	target := domain.PackEntityID(domain.KindMercenary, 0, 5)
	raw, _ := json.Marshal(map[string]string{"targetId": target.Key()})
	res, err = reg[domain.ActionInteract](ctx, raw)
	if err != nil {
		t.Fatalf("INTERACT: %v", err)
	}
	if res.Command.Target != target {
		t.Errorf("INTERACT target = %v, want %v", res.Command.Target, target)
	}

	if _, err := reg[domain.ActionIdle](ctx, nil); err != nil || g.idles != 1 {
		t.Errorf("IDLE err = %v, idles = %d", err, g.idles)
	}

	res, err = reg[domain.ActionRewind](ctx, json.RawMessage(`{"ticks":2}`))
	if err != nil || res.Tick != 1 {
		t.Errorf("REWIND = %+v, %v", res, err)
	}
}

func TestWithPayload_Rejects(t *testing.T) {
	g := &fakeGame{}
	ctx := Context{Game: g}
	reg := Registry()

	tests := []struct {
		name   string
		action domain.ActionType
		raw    string
	}{
		{"bad json", domain.ActionMove, `{"direction":`},
		{"missing direction", domain.ActionMove, `{}`},
		{"diagonal", domain.ActionMove, `{"direction":"upleft"}`},
		{"no target", domain.ActionInteract, `{}`},
		{"garbage target", domain.ActionInteract, `{"targetId":"abc"}`},
		{"zero rewind", domain.ActionRewind, `{"ticks":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reg[tt.action](ctx, json.RawMessage(tt.raw))
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("error = %v, want ErrInvalidPayload", err)
			}
		})
	}
	if g.tick != 0 {
		t.Errorf("rejected commands advanced the game to tick %d", g.tick)
	}
}
