package domain

// ReplayAction - это запись одного принятого действия игрока
type ReplayAction struct {
	Tick    int     `json:"tick"` // Тик, на котором команда была принята
	Command Command `json:"command"`
}

// ReplaySession - полная запись партии
type ReplaySession struct {
	RunID     string         `json:"runId"`
	Scenario  string         `json:"scenario"`
	Seed      uint64         `json:"seed"` // Зерно рандома
	Timestamp int64          `json:"timestamp"`
	Actions   []ReplayAction `json:"actions"`
}
