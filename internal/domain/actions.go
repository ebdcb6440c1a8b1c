package domain

import "strings"

// ActionType - Внутренний числовой идентификатор команды игрока
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionIdle
	ActionMove
	ActionInteract
	ActionRewind
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"IDLE":     ActionIdle,
	"MOVE":     ActionMove,
	"INTERACT": ActionInteract,
	"REWIND":   ActionRewind,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionIdle:     "IDLE",
	ActionMove:     "MOVE",
	ActionInteract: "INTERACT",
	ActionRewind:   "REWIND",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}
