package systems

import (
	"dungeon-sim/internal/domain"
)

// ValidationResult - результат проверки цели
type ValidationResult struct {
	Target  *domain.Entity
	Valid   bool
	Unknown bool   // цели нет на карте
	Message string // Сообщение об ошибке, если Valid == false
}

// ValidateInteraction проверяет, может ли actor взаимодействовать с targetID.
// Карта не меняется.
func ValidateInteraction(m *domain.GameMap, actor *domain.Entity, targetID domain.EntityID) ValidationResult {
	// 1. Поиск цели
	target := m.Entity(targetID)
	if target == nil {
		return ValidationResult{Unknown: true, Message: "target not found"}
	}

	// 2. Поддерживает ли цель взаимодействие вообще
	in, ok := domain.As[domain.Interactable](target)
	if !ok {
		return ValidationResult{Target: target, Message: target.Kind.String() + " cannot be interacted with"}
	}

	// 3. Условия самой цели (дистанция, плата и т.п.)
	if actor == nil || !in.IsInteractable(m, target, actor) {
		return ValidationResult{Target: target, Message: target.Kind.String() + " is not interactable right now"}
	}

	return ValidationResult{Target: target, Valid: true}
}
