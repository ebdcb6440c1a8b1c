package handlers

import (
	"encoding/json"

	"dungeon-sim/internal/domain"
)

// Commander - командная поверхность игры. Game неявно реализует этот интерфейс.
type Commander interface {
	TickMove(d domain.Direction) (int, error)
	TickIdle() int
	Interact(id domain.EntityID) (int, error)
	Rewind(n int) (int, error)
}

// Context передает хендлеру игру, над которой исполняется команда.
type Context struct {
	Game Commander
}

// Result - возвращает результат выполнения команды.
// Command - нормализованная команда для записи в реплей.
type Result struct {
	Tick    int
	Command domain.Command
}

// HandlerFunc - это контракт для любой команды (MOVE, INTERACT, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)
