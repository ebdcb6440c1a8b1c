package entities

import (
	"errors"
	"fmt"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/logic"
)

var (
	ErrUnknownKind      = errors.New("unknown entity kind")
	ErrInvalidAttribute = errors.New("invalid entity attribute")
)

// Params - настройки сущностей уровня (секция entities в сценарии).
type Params struct {
	PlayerHealth float64 `yaml:"player_health" json:"player_health"`
	PlayerAttack float64 `yaml:"player_attack" json:"player_attack"`

	ZombieHealth        float64 `yaml:"zombie_health" json:"zombie_health"`
	ZombieAttack        float64 `yaml:"zombie_attack" json:"zombie_attack"`
	ZombieSpawnInterval int     `yaml:"zombie_spawn_interval" json:"zombie_spawn_interval"`

	MercenaryHealth     float64 `yaml:"mercenary_health" json:"mercenary_health"`
	MercenaryAttack     float64 `yaml:"mercenary_attack" json:"mercenary_attack"`
	BribeAmount         int     `yaml:"bribe_amount" json:"bribe_amount"`
	BribeRadius         int     `yaml:"bribe_radius" json:"bribe_radius"`
	MindControlDuration int     `yaml:"mind_control_duration" json:"mind_control_duration"`

	AssassinHealth        float64 `yaml:"assassin_health" json:"assassin_health"`
	AssassinAttack        float64 `yaml:"assassin_attack" json:"assassin_attack"`
	AssassinBribeAmount   int     `yaml:"assassin_bribe_amount" json:"assassin_bribe_amount"`
	AssassinBribeFailRate float64 `yaml:"assassin_bribe_fail_rate" json:"assassin_bribe_fail_rate"`
}

func DefaultParams() Params {
	return Params{
		PlayerHealth:          10,
		PlayerAttack:          10,
		ZombieHealth:          5,
		ZombieAttack:          6,
		ZombieSpawnInterval:   20,
		MercenaryHealth:       10,
		MercenaryAttack:       5,
		BribeAmount:           1,
		BribeRadius:           1,
		AssassinHealth:        10,
		AssassinAttack:        10,
		AssassinBribeAmount:   1,
		AssassinBribeFailRate: 0.3,
	}
}

// Spec описывает одну сущность уровня.
type Spec struct {
	Kind domain.Kind
	Pos  domain.Position

	Colour         string // порталы
	Logic          string // лампы и двери-переключатели
	MovementFactor int    // болото
}

// Factory собирает сущности с поведением. Реализует engine.EntityFactory.
type Factory struct {
	Params Params
}

func NewFactory(p Params) *Factory {
	return &Factory{Params: p}
}

// Build создаёт сущность с атрибутами по умолчанию (спавн во время игры).
func (f *Factory) Build(kind domain.Kind, pos domain.Position, ids *domain.IDAllocator) (*domain.Entity, error) {
	return f.Create(Spec{Kind: kind, Pos: pos}, ids)
}

// Create проверяет атрибуты и только затем выдаёт ID.
func (f *Factory) Create(s Spec, ids *domain.IDAllocator) (*domain.Entity, error) {
	b, err := f.behavior(s)
	if err != nil {
		return nil, err
	}
	return domain.NewEntity(ids.Next(s.Kind), s.Kind.DefaultLayer(), s.Pos, b), nil
}

func (f *Factory) behavior(s Spec) (domain.Behavior, error) {
	p := f.Params
	switch s.Kind {
	case domain.KindPlayer:
		return NewPlayer(p.PlayerHealth, p.PlayerAttack), nil
	case domain.KindWall:
		return Wall{}, nil
	case domain.KindExit:
		return Exit{}, nil
	case domain.KindTreasure:
		return Treasure{}, nil
	case domain.KindBoulder:
		return Boulder{}, nil
	case domain.KindSwitch:
		return Switch{}, nil
	case domain.KindWire:
		return Wire{}, nil
	case domain.KindLightBulb:
		if _, err := logic.ParseRule(s.Logic); err != nil {
			return nil, fmt.Errorf("%s at %v: %w: %w", s.Kind, s.Pos, ErrInvalidAttribute, err)
		}
		return &LightBulb{Rule: s.Logic}, nil
	case domain.KindSwitchDoor:
		if _, err := logic.ParseRule(s.Logic); err != nil {
			return nil, fmt.Errorf("%s at %v: %w: %w", s.Kind, s.Pos, ErrInvalidAttribute, err)
		}
		return &SwitchDoor{Rule: s.Logic}, nil
	case domain.KindPortal:
		if s.Colour == "" {
			return nil, fmt.Errorf("%s at %v: %w: colour is required", s.Kind, s.Pos, ErrInvalidAttribute)
		}
		return &Portal{Colour: s.Colour}, nil
	case domain.KindTimeTravellingPortal:
		return &TimeTravellingPortal{}, nil
	case domain.KindSwampTile:
		factor := s.MovementFactor
		if factor == 0 {
			factor = 1
		}
		if factor < 1 {
			return nil, fmt.Errorf("%s at %v: %w: movement factor %d", s.Kind, s.Pos, ErrInvalidAttribute, factor)
		}
		return &SwampTile{Factor: factor}, nil
	case domain.KindZombieToast:
		return NewZombieToast(p.ZombieHealth, p.ZombieAttack), nil
	case domain.KindMercenary:
		return NewMercenary(p.MercenaryHealth, p.MercenaryAttack, p.BribeAmount, p.BribeRadius, p.MindControlDuration), nil
	case domain.KindAssassin:
		return NewAssassin(p.AssassinHealth, p.AssassinAttack, p.AssassinBribeAmount, p.BribeRadius,
			p.MindControlDuration, p.AssassinBribeFailRate), nil
	case domain.KindZombieSpawner:
		return &ZombieSpawner{Interval: p.ZombieSpawnInterval}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind)
}
