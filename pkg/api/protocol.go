package api

import (
	"encoding/json"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет наблюдателям.
type ServerResponse struct {
	// Type тип сообщения: "STATE" или "ERROR".
	Type string `json:"type"`

	// State полный снимок мира после тика.
	State *StateView `json:"state,omitempty"`

	// Error текст ошибки для отклонённой команды.
	Error string `json:"error,omitempty"`
}

// StateView - неизменяемый снимок мира для наблюдателей и аудита.
type StateView struct {
	GameID string `json:"gameId"`
	Name   string `json:"name"`

	// Tick число завершённых тиков.
	Tick int `json:"tick"`

	// PlayerID пустой, если игрок погиб.
	PlayerID string `json:"playerId,omitempty"`

	EnemiesDestroyed int `json:"enemiesDestroyed"`

	// Entities в стабильном порядке: позиция, слой, порядок добавления.
	Entities []EntityView `json:"entities"`

	// Circuit состояние логической сети.
	Circuit []CircuitNodeView `json:"circuit,omitempty"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Layer string `json:"layer"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	MovementFactor int `json:"movementFactor,omitempty"`

	// Stats есть только у участников боя.
	Stats *StatsView `json:"stats,omitempty"`

	// Active - состояние логической сущности (лампа, дверь, провод).
	Active *bool `json:"active,omitempty"`
}

// StatsView это DTO для боевых характеристик.
type StatsView struct {
	Health  float64 `json:"health"`
	Attack  float64 `json:"attack"`
	Defence float64 `json:"defence"`
	Hostile bool    `json:"hostile"`
}

// CircuitNodeView - проводник или потребитель логической сети.
type CircuitNodeView struct {
	ID      string   `json:"id"`
	Role    string   `json:"role"` // wire, switch, consumer
	Rule    string   `json:"rule,omitempty"`
	Active  bool     `json:"active"`
	Tick    int      `json:"activatedTick,omitempty"`
	Sources []string `json:"sources,omitempty"`
}

// CommandResult - ответ на принятую команду.
type CommandResult struct {
	Tick  int        `json:"tick"`
	State *StateView `json:"state,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех команд клиента.
type ClientCommand struct {
	// Action название действия: MOVE, IDLE, INTERACT, REWIND.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// DirectionPayload используется для MOVE.
type DirectionPayload struct {
	Direction string `json:"direction"` // UP, DOWN, LEFT, RIGHT
}

// EntityPayload используется для действий, нацеленных на другую сущность (INTERACT).
type EntityPayload struct {
	TargetID string `json:"targetId"`
}

// RewindPayload используется для REWIND.
type RewindPayload struct {
	Ticks int `json:"ticks"`
}
