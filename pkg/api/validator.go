package api

import (
	"errors"
	"strings"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	switch strings.ToUpper(p.Direction) {
	case "UP", "DOWN", "LEFT", "RIGHT":
		return nil
	case "":
		return errors.New("direction is required")
	}
	return errors.New("direction must be one of UP, DOWN, LEFT, RIGHT")
}

func (p EntityPayload) Validate() error {
	if p.TargetID == "" {
		return errors.New("targetId is required")
	}
	return nil
}

func (p RewindPayload) Validate() error {
	if p.Ticks <= 0 {
		return errors.New("ticks must be positive")
	}
	return nil
}
