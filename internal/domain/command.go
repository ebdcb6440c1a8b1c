package domain

// Command - проверенная команда игрока для движка.
type Command struct {
	Action    ActionType
	Direction Direction // MOVE
	Target    EntityID  // INTERACT
	Ticks     int       // REWIND
}
