package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска движка
type Config struct {
	// Seed - зерно единственного генератора случайных чисел игры.
	Seed uint64 `yaml:"seed"`

	// HistoryDepth - сколько снимков хранится для перемотки.
	HistoryDepth int `yaml:"history_depth"`
	// MaxPathDistance - предел стоимости поиска пути.
	MaxPathDistance int `yaml:"max_path_distance"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:            uint64(time.Now().UnixNano()),
		HistoryDepth:    30,
		MaxPathDistance: 200,
	}
}

// LoadConfig читает YAML поверх значений по умолчанию.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ConfigFromEnv накладывает переменные DSIM_* на cfg.
func ConfigFromEnv(cfg Config) Config {
	if v, ok := getEnvUint("DSIM_SEED"); ok {
		cfg.Seed = v
	}
	if v, ok := getEnvUint("DSIM_HISTORY_DEPTH"); ok {
		cfg.HistoryDepth = int(v)
	}
	if v, ok := getEnvUint("DSIM_MAX_PATH_DISTANCE"); ok && v > 0 {
		cfg.MaxPathDistance = int(v)
	}
	return cfg
}

func (c Config) Validate() error {
	if c.HistoryDepth < 0 {
		return fmt.Errorf("history_depth must be >= 0, got %d", c.HistoryDepth)
	}
	if c.MaxPathDistance <= 0 {
		return fmt.Errorf("max_path_distance must be > 0, got %d", c.MaxPathDistance)
	}
	return nil
}

func getEnvUint(key string) (uint64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
