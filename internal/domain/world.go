package domain

import "math/rand/v2"

// Circuit - логическая сеть, видимая поведению сущностей.
type Circuit interface {
	AddSource(conductor, source EntityID)
	RemoveSource(conductor, source EntityID)
	IsActive(id EntityID) bool
}

// PathPlanner выбирает следующий шаг на кратчайшем пути.
type PathPlanner interface {
	NextStep(m *GameMap, src, dst Position, e *Entity) Position
}

// Env - сервисы игры, доступные поведению через карту.
type Env interface {
	CurrentTick() int
	Circuit() Circuit
	Paths() PathPlanner
	Rand() *rand.Rand
	// Unsubscribe снимает запланированные действия с данным ключом.
	Unsubscribe(key string)
	Battle(player, enemy *Entity)
	RecordKill(e *Entity)
	Spawn(kind Kind, pos Position) (*Entity, error)
}

// detachedEnv используется картой без игры (тесты, клоны до привязки).
type detachedEnv struct{}

func (detachedEnv) CurrentTick() int {
	return 0
}

func (detachedEnv) Circuit() Circuit {
	return noCircuit{}
}

func (detachedEnv) Paths() PathPlanner {
	return stayPlanner{}
}

func (detachedEnv) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(0, 0))
}

func (detachedEnv) Unsubscribe(string) {}

func (detachedEnv) Battle(_, _ *Entity) {}

func (detachedEnv) RecordKill(*Entity) {}

func (detachedEnv) Spawn(Kind, Position) (*Entity, error) {
	return nil, ErrDetached
}

type noCircuit struct{}

func (noCircuit) AddSource(_, _ EntityID) {}

func (noCircuit) RemoveSource(_, _ EntityID) {}

func (noCircuit) IsActive(EntityID) bool {
	return false
}

type stayPlanner struct{}

func (stayPlanner) NextStep(_ *GameMap, src, _ Position, _ *Entity) Position { return src }
