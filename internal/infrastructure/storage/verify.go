package storage

import (
	"errors"
	"fmt"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/engine"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

var ErrReplayMismatch = errors.New("replay diverged")

// Replay применяет команды сессии к свежей игре. Каждая команда должна
// завершиться на записанном тике.
func Replay(g *engine.Game, session *domain.ReplaySession) error {
	for i, a := range session.Actions {
		tick, err := g.Apply(a.Command)
		if err != nil {
			return fmt.Errorf("action %d (%s): %w", i, a.Command.Action, err)
		}
		if tick != a.Tick {
			return fmt.Errorf("%w: action %d ended on tick %d, recorded %d", ErrReplayMismatch, i, tick, a.Tick)
		}
	}
	return nil
}

// Verify воспроизводит сессию и сверяет итоговый дайджест с индексом.
func Verify(g *engine.Game, session *domain.ReplaySession, index *TickIndex) error {
	if err := Replay(g, session); err != nil {
		return err
	}
	want, err := index.Digest(session.RunID, g.CurrentTick())
	if err != nil {
		return err
	}
	got := g.Digest()
	if got != want {
		return fmt.Errorf("%w: tick %d digest %s, indexed %s", ErrReplayMismatch, g.CurrentTick(), got, want)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "storage",
		"run_id":    session.RunID,
		"actions":   len(session.Actions),
		"tick":      g.CurrentTick(),
	}).Info("Replay verified")
	return nil
}
