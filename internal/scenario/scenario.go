package scenario

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"dungeon-sim/internal/domain"
	"dungeon-sim/internal/engine"
	"dungeon-sim/internal/entities"
	"dungeon-sim/pkg/logger"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario - файл уровня не прошёл проверку.
var ErrInvalidScenario = errors.New("invalid scenario")

// Старые имена типов из JSON-файлов уровней.
var kindAliases = map[string]domain.Kind{
	"light_bulb_off": domain.KindLightBulb,
}

// Scenario - описание уровня.
type Scenario struct {
	Name         string          `yaml:"name"`
	Seed         *uint64         `yaml:"seed"`
	HistoryDepth *int            `yaml:"history_depth"`
	Params       entities.Params `yaml:"params"`
	Entities     []EntityDef     `yaml:"entities"`
}

// EntityDef - одна сущность уровня.
type EntityDef struct {
	Type           string `yaml:"type"`
	X              int    `yaml:"x"`
	Y              int    `yaml:"y"`
	Colour         string `yaml:"colour"`
	Logic          string `yaml:"logic"`
	MovementFactor int    `yaml:"movement_factor"`
}

func (d EntityDef) Kind() domain.Kind {
	if k, ok := kindAliases[strings.ToLower(d.Type)]; ok {
		return k
	}
	return domain.ParseKind(d.Type)
}

func (d EntityDef) Spec() entities.Spec {
	return entities.Spec{
		Kind:           d.Kind(),
		Pos:            domain.Position{X: d.X, Y: d.Y},
		Colour:         d.Colour,
		Logic:          d.Logic,
		MovementFactor: d.MovementFactor,
	}
}

// Load читает и проверяет файл уровня (YAML или JSON).
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Parse проверяет документ по схеме и разбирает его. Параметры сущностей,
// не указанные в документе, берутся по умолчанию.
func Parse(data []byte) (*Scenario, error) {
	if err := validate(data); err != nil {
		return nil, err
	}
	sc := &Scenario{Params: entities.DefaultParams()}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}

	players := 0
	for _, def := range sc.Entities {
		if def.Kind() == domain.KindPlayer {
			players++
		}
	}
	if players != 1 {
		return nil, fmt.Errorf("%w: want exactly one player, got %d", ErrInvalidScenario, players)
	}
	return sc, nil
}

// Build собирает и инициализирует игру. Сид и глубина истории сценария
// перекрывают cfg.
func Build(sc *Scenario, cfg engine.Config) (*engine.Game, error) {
	if sc.Seed != nil {
		cfg.Seed = *sc.Seed
	}
	if sc.HistoryDepth != nil {
		cfg.HistoryDepth = *sc.HistoryDepth
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	factory := entities.NewFactory(sc.Params)
	g := engine.NewGame(sc.Name, cfg, factory)
	for i, def := range sc.Entities {
		e, err := factory.Create(def.Spec(), g.IDs())
		if err != nil {
			return nil, fmt.Errorf("entity #%d: %w", i, err)
		}
		if err := g.AddEntity(e); err != nil {
			return nil, fmt.Errorf("entity #%d: %w", i, err)
		}
	}
	if err := g.Init(); err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "scenario",
		"name":      sc.Name,
		"entities":  len(sc.Entities),
		"seed":      cfg.Seed,
	}).Info("Scenario built")
	return g, nil
}
