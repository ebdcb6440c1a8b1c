package systems

import (
	"math/rand/v2"

	"dungeon-sim/internal/domain"
)

// MovementStrategy выбирает, куда шагнуть ИИ. Не меняет состояние мира.
type MovementStrategy uint8

const (
	MovementHostile MovementStrategy = iota
	MovementAllied
	MovementRandom
)

func (s MovementStrategy) String() string {
	switch s {
	case MovementHostile:
		return "hostile"
	case MovementAllied:
		return "allied"
	case MovementRandom:
		return "random"
	}
	return "unknown"
}

// HostileStep - следующий шаг по кратчайшему пути к игроку.
func HostileStep(m *domain.GameMap, e *domain.Entity, paths domain.PathPlanner) domain.Position {
	player := m.Player()
	if player == nil {
		return e.Pos
	}
	return paths.NextStep(m, e.Pos, player.Pos, e)
}

// AlliedStep - союзник рядом с игроком занимает его предыдущую клетку,
// иначе идёт к игроку по кратчайшему пути.
func AlliedStep(m *domain.GameMap, e *domain.Entity, paths domain.PathPlanner) domain.Position {
	player := m.Player()
	if player == nil {
		return e.Pos
	}
	if e.Pos.IsCardinallyAdjacent(player.PrevPos) || e.Pos.IsCardinallyAdjacent(player.Pos) {
		if !player.HasPrevDistinct {
			return e.Pos
		}
		return player.PrevDistinctPos
	}
	return paths.NextStep(m, e.Pos, player.Pos, e)
}

// RandomStep - равновероятно одна из доступных соседних клеток.
func RandomStep(m *domain.GameMap, e *domain.Entity, rng *rand.Rand) domain.Position {
	options := EnterableNeighbours(m, e, e.Pos)
	if len(options) == 0 {
		return e.Pos
	}
	return options[rng.IntN(len(options))]
}

// EnterableNeighbours - соседи around, куда может войти e, в порядке Up, Down, Left, Right.
func EnterableNeighbours(m *domain.GameMap, e *domain.Entity, around domain.Position) []domain.Position {
	var out []domain.Position
	for _, p := range around.CardinalNeighbours() {
		if m.CanEnter(e, p) {
			out = append(out, p)
		}
	}
	return out
}

// Step выбирает шаг по стратегии.
func Step(s MovementStrategy, m *domain.GameMap, e *domain.Entity) domain.Position {
	env := m.Env()
	switch s {
	case MovementAllied:
		return AlliedStep(m, e, env.Paths())
	case MovementRandom:
		return RandomStep(m, e, env.Rand())
	}
	return HostileStep(m, e, env.Paths())
}
