package domain

// --- ВОЗМОЖНОСТИ ПОВЕДЕНИЯ ---
// self - сущность, к которой прикреплено поведение.

// Blocker решает, может ли mover войти в клетку self.
// Поведение без Blocker блокирует клетку.
type Blocker interface {
	CanEnter(m *GameMap, self, mover *Entity) bool
}

// OverlapHandler вызывается, когда mover вошёл в клетку self.
type OverlapHandler interface {
	OnOverlap(m *GameMap, self, mover *Entity)
}

// VacateHandler вызывается, когда mover покинул клетку self.
type VacateHandler interface {
	OnVacated(m *GameMap, self, mover *Entity)
}

// Destroyable получает уведомление после удаления с карты.
type Destroyable interface {
	OnDestroy(m *GameMap, self *Entity)
}

// Interactable - цель команды INTERACT.
type Interactable interface {
	IsInteractable(m *GameMap, self, actor *Entity) bool
	Interact(m *GameMap, self, actor *Entity)
}

// Collectable - предмет, который игрок подбирает при входе в клетку.
type Collectable interface {
	Collectable() bool
}

// TraversalCoster задаёт вес клетки для поиска пути.
type TraversalCoster interface {
	TraversalCost() int
}

// Teleporter перемещает вошедших. Destinations - клетки, куда mover может попасть.
type Teleporter interface {
	Destinations(m *GameMap, self, mover *Entity) []Position
}

// TimeTrigger - после хода игрока активный триггер отправляет мир в прошлое.
type TimeTrigger interface {
	TimeTravelActive() bool
}

// BattleParticipant отдаёт характеристики внешнему резолверу боя.
type BattleParticipant interface {
	Stats() *BattleStats
	// Hostile - false для союзников, которые не вступают в бой.
	Hostile() bool
}

// Actor действует каждый тик в полосе ИИ (движение, спавн).
type Actor interface {
	Act(m *GameMap, self *Entity)
}

// Ticker - хук в полосе обратных вызовов игрока (истечение контроля и т.п.).
type Ticker interface {
	OnTick(m *GameMap, self *Entity, tick int)
}

// Steerable - сущность, управляемая командой MOVE.
type Steerable interface {
	Steer(m *GameMap, self *Entity, d Direction)
}

// Pusher толкает то, во что входит (игрок).
type Pusher interface {
	Facing() Direction
}

// Pushable - сдвигается толкающим (валун).
type Pushable interface {
	Pushable() bool
}

// Wallet - запас сокровищ игрока.
type Wallet interface {
	Treasure() int
	Spend(n int) bool
}

// CircuitRole - роль сущности в логической сети.
type CircuitRole uint8

const (
	RoleNone CircuitRole = iota
	RoleWire
	RoleSwitch
	RoleConsumer
)

// CircuitMember регистрируется в логической сети при инициализации игры.
type CircuitMember interface {
	CircuitRole() CircuitRole
	// RuleName - правило активации для потребителей ("or", "and", "xor", "co_and").
	RuleName() string
}

// Pairable - порталы, связываемые по цвету.
type Pairable interface {
	PairKey() string
	Partner() EntityID
	Bind(partner EntityID)
}

// Initializer вызывается один раз после сборки уровня (сеть и порталы уже связаны).
type Initializer interface {
	OnInit(m *GameMap, self *Entity)
}
