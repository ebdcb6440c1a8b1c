package engine

import "errors"

var (
	// ErrUnknownEntity - цель команды не найдена на карте.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrNotInteractable - цель существует, но взаимодействие недоступно.
	ErrNotInteractable = errors.New("entity is not interactable")
	// ErrInvalidCommand - команда не распознана или её параметры некорректны.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrInvalidRewind - запрошенная точка истории недоступна.
	ErrInvalidRewind = errors.New("invalid rewind")
	// ErrNoPlayer - в игре нет игрока.
	ErrNoPlayer = errors.New("game has no player")
)
