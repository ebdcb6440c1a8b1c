package handlers

import (
	"fmt"

	"dungeon-sim/internal/domain"
	"dungeon-sim/pkg/api"
)

func HandleMove(ctx Context, p api.DirectionPayload) (Result, error) {
	d, ok := domain.ParseDirection(p.Direction)
	if !ok {
		return Result{}, fmt.Errorf("%w: direction %q", ErrInvalidPayload, p.Direction)
	}
	tick, err := ctx.Game.TickMove(d)
	return Result{Tick: tick, Command: domain.Command{Action: domain.ActionMove, Direction: d}}, err
}

func HandleInteract(ctx Context, p api.EntityPayload) (Result, error) {
	id, err := domain.ParseEntityID(p.TargetID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	tick, err := ctx.Game.Interact(id)
	return Result{Tick: tick, Command: domain.Command{Action: domain.ActionInteract, Target: id}}, err
}

func HandleRewind(ctx Context, p api.RewindPayload) (Result, error) {
	tick, err := ctx.Game.Rewind(p.Ticks)
	return Result{Tick: tick, Command: domain.Command{Action: domain.ActionRewind, Ticks: p.Ticks}}, err
}

func HandleIdle(ctx Context) (Result, error) {
	return Result{Tick: ctx.Game.TickIdle(), Command: domain.Command{Action: domain.ActionIdle}}, nil
}

// Registry - стандартный набор хендлеров.
func Registry() map[domain.ActionType]HandlerFunc {
	return map[domain.ActionType]HandlerFunc{
		domain.ActionMove:     WithPayload(HandleMove),
		domain.ActionInteract: WithPayload(HandleInteract),
		domain.ActionRewind:   WithPayload(HandleRewind),
		domain.ActionIdle:     WithEmptyPayload(HandleIdle),
	}
}
