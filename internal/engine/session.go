package engine

import (
	"errors"
	"fmt"
	"sync"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/engine/handlers"
	"dungeon-sim/internal/network"
	"dungeon-sim/pkg/api"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Recorder сохраняет принятые команды (реплей).
type Recorder interface {
	Record(a domain.ReplayAction) error
}

// Session сериализует внешние команды над одной игрой и рассылает снимки наблюдателям.
type Session struct {
	mu       sync.Mutex
	game     *Game
	handlers map[domain.ActionType]handlers.HandlerFunc

	Hub      *network.Broadcaster
	Recorder Recorder
}

func NewSession(g *Game, hub *network.Broadcaster) *Session {
	return &Session{
		game:     g,
		handlers: handlers.Registry(),
		Hub:      hub,
	}
}

// Execute разбирает команду клиента, исполняет её и публикует новое состояние.
// Отклонённая команда не меняет мир.
func (s *Session) Execute(cmd api.ClientCommand) (api.CommandResult, error) {
	action := domain.ParseAction(cmd.Action)
	handler, ok := s.handlers[action]
	if !ok {
		return api.CommandResult{}, fmt.Errorf("action %q: %w", cmd.Action, ErrInvalidCommand)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := handler(handlers.Context{Game: s.game}, cmd.Payload)
	if err != nil {
		if errors.Is(err, handlers.ErrInvalidPayload) {
			err = fmt.Errorf("%w: %w", ErrInvalidCommand, err)
		}
		logger.Log.WithFields(logrus.Fields{
			"component": "session",
			"action":    action.String(),
			"tick":      s.game.CurrentTick(),
		}).WithError(err).Info("Command rejected")
		return api.CommandResult{Tick: s.game.CurrentTick()}, err
	}

	return s.accepted(res.Command, res.Tick), nil
}

// Apply исполняет уже разобранную команду (реплей, тесты).
func (s *Session) Apply(cmd domain.Command) (api.CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tick, err := s.game.Apply(cmd)
	if err != nil {
		return api.CommandResult{Tick: s.game.CurrentTick()}, err
	}
	return s.accepted(cmd, tick), nil
}

func (s *Session) accepted(cmd domain.Command, tick int) api.CommandResult {
	if s.Recorder != nil {
		// Запоминаем тик, на котором команда была исполнена
		if err := s.Recorder.Record(domain.ReplayAction{Tick: tick, Command: cmd}); err != nil {
			logger.Log.WithFields(logrus.Fields{
				"component": "session",
				"tick":      tick,
			}).WithError(err).Error("Failed to record command")
		}
	}
	state := s.game.BuildState()
	if s.Hub != nil {
		s.Hub.PublishState(state)
	}
	return api.CommandResult{Tick: tick, State: state}
}

// State - текущий снимок мира.
func (s *Session) State() *api.StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.BuildState()
}

// Inspect даёт доступ к игре под блокировкой (отладочные маршруты).
func (s *Session) Inspect(fn func(g *Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}
