package domain

// BattleStats - характеристики участника боя. Арифметику урона считает резолвер.
type BattleStats struct {
	Health  float64 `json:"health"`
	Attack  float64 `json:"attack"`
	Defence float64 `json:"defence"`
}

// TakeDamage наносит урон. Возвращает true, если цель погибла.
func (s *BattleStats) TakeDamage(amount float64) bool {
	if !s.Alive() {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	s.Health -= amount

	if s.Health <= 0 {
		s.Health = 0
		return true
	}
	return false
}

func (s *BattleStats) Alive() bool {
	return s.Health > 0
}
