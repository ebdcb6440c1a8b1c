package agent

import (
	"context"
	"encoding/json"
	"errors"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/engine"
	"dungeon-sim/internal/network"
	"dungeon-sim/internal/systems"
	"dungeon-sim/pkg/api"
	"dungeon-sim/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrStuck - боту некуда идти: цели недостижимы.
var ErrStuck = errors.New("bot has no reachable goal")

// Bot - автопилот игрока (headless agent).
// Подписывается на Hub как обычный наблюдатель и на каждый новый снимок мира
// отвечает командой через Session, так же как внешний клиент.
//
// Приоритеты:
//  1. INTERACT с любой доступной целью (подкуп наёмника, разрушение спавнера).
//  2. Ближайшее сокровище.
//  3. Выход.
type Bot struct {
	ID      string
	Session *engine.Session
	Hub     *network.Broadcaster
	Inbox   chan api.ServerResponse

	// paths - свой поиск пути: счётчик поисков игры остаётся за врагами.
	paths *systems.PathFinder
	steps int
}

func NewBot(session *engine.Session) *Bot {
	id := "bot_" + uuid.NewString()
	logger.Log.WithField("bot", id).Info("Creating autopilot")
	var maxDistance int
	session.Inspect(func(g *engine.Game) {
		maxDistance = g.Config.MaxPathDistance
	})
	return &Bot{
		ID:      id,
		Session: session,
		Hub:     session.Hub,
		Inbox:   session.Hub.Register(id),
		paths:   systems.NewPathFinder(maxDistance),
	}
}

// Steps - сколько команд принято.
func (b *Bot) Steps() int { return b.steps }

// Run ведёт игрока, пока он не дойдёт до выхода, не погибнет, не исчерпает
// maxSteps или не отменится ctx. Достижение выхода - не ошибка.
func (b *Bot) Run(ctx context.Context, maxSteps int) error {
	defer b.Hub.Unregister(b.ID)

	// Первый ход делаем сами: снимок в Inbox придёт только после команды
	done, err := b.makeMove()
	for !done && err == nil {
		if b.steps >= maxSteps {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-b.Inbox:
			if !ok {
				return nil
			}
			if event.Type != "STATE" {
				continue
			}
			done, err = b.makeMove()
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"bot":   b.ID,
		"steps": b.steps,
	}).WithError(err).Info("Autopilot finished")
	return err
}

// makeMove выбирает команду по живому миру и отправляет её. done - цель достигнута.
func (b *Bot) makeMove() (done bool, err error) {
	var cmd api.ClientCommand
	b.Session.Inspect(func(g *engine.Game) {
		cmd, done, err = b.decide(g)
	})
	if done || err != nil {
		return done, err
	}

	if _, err := b.Session.Execute(cmd); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"bot":    b.ID,
			"action": cmd.Action,
		}).WithError(err).Warn("Command rejected")
		return false, err
	}
	b.steps++
	return false, nil
}

// decide - мозг бота. Карта не меняется: поиск пути только читает её.
func (b *Bot) decide(g *engine.Game) (api.ClientCommand, bool, error) {
	me := g.Map.Player()
	if me == nil {
		// Мертвые не ходят
		return api.ClientCommand{}, true, nil
	}

	for _, e := range g.Map.Entities() {
		if e == me {
			continue
		}
		if res := systems.ValidateInteraction(g.Map, me, e.ID); res.Valid {
			return command(domain.ActionInteract, api.EntityPayload{TargetID: e.ID.Key()}), false, nil
		}
	}

	goal, ok := nearest(me.Pos, g.Map.EntitiesOfKind(domain.KindTreasure))
	if !ok {
		goal, ok = nearest(me.Pos, g.Map.EntitiesOfKind(domain.KindExit))
		if !ok {
			return api.ClientCommand{}, true, nil
		}
		if goal == me.Pos {
			return api.ClientCommand{}, true, nil
		}
	}

	next := b.paths.NextStep(g.Map, me.Pos, goal, me)
	d := me.Pos.DirectionTo(next)
	if d == domain.DirNone {
		return api.ClientCommand{}, false, ErrStuck
	}
	return command(domain.ActionMove, api.DirectionPayload{Direction: d.String()}), false, nil
}

func nearest(from domain.Position, candidates []*domain.Entity) (domain.Position, bool) {
	best, found := domain.Position{}, false
	for _, e := range candidates {
		if !found || from.ManhattanTo(e.Pos) < from.ManhattanTo(best) {
			best, found = e.Pos, true
		}
	}
	return best, found
}

func command(action domain.ActionType, payload any) api.ClientCommand {
	raw, err := json.Marshal(payload)
	if err != nil {
		// payload - наши собственные DTO
		panic(err)
	}
	return api.ClientCommand{Action: action.String(), Payload: raw}
}
