package logic

import (
	"fmt"
	"strings"
)

// Rule вычисляет состояние потребителя по соседним проводникам.
type Rule interface {
	Name() string
	Evaluate(inputs []*Conductor) bool
}

// OrRule - хотя бы один вход активен.
type OrRule struct{}

func (OrRule) Name() string { return "or" }

func (OrRule) Evaluate(inputs []*Conductor) bool {
	for _, c := range inputs {
		if c.Activated() {
			return true
		}
	}
	return false
}

// AndRule - все входы активны, и входов не меньше двух.
type AndRule struct{}

func (AndRule) Name() string { return "and" }

func (AndRule) Evaluate(inputs []*Conductor) bool {
	if len(inputs) < 2 {
		return false
	}
	for _, c := range inputs {
		if !c.Activated() {
			return false
		}
	}
	return true
}

// XorRule - активен ровно один вход.
type XorRule struct{}

func (XorRule) Name() string { return "xor" }

func (XorRule) Evaluate(inputs []*Conductor) bool {
	return countActive(inputs) == 1
}

// CoAndRule - не меньше двух активных входов, включённых на одном и том же тике.
type CoAndRule struct{}

func (CoAndRule) Name() string { return "co_and" }

func (CoAndRule) Evaluate(inputs []*Conductor) bool {
	if countActive(inputs) < 2 {
		return false
	}
	tick, seen := 0, false
	for _, c := range inputs {
		if !c.Activated() {
			continue
		}
		if !seen {
			tick, seen = c.ActivatedTick(), true
			continue
		}
		if c.ActivatedTick() != tick {
			return false
		}
	}
	return true
}

func countActive(inputs []*Conductor) int {
	n := 0
	for _, c := range inputs {
		if c.Activated() {
			n++
		}
	}
	return n
}

// ParseRule принимает имя правила из сценария. Пустая строка означает "or".
func ParseRule(name string) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "or":
		return OrRule{}, nil
	case "and":
		return AndRule{}, nil
	case "xor":
		return XorRule{}, nil
	case "co_and", "coand":
		return CoAndRule{}, nil
	}
	return nil, fmt.Errorf("unknown logic rule %q", name)
}
