// Package config loads application settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// ErrInvalid reports a configuration value outside its allowed range.
var ErrInvalid = errors.New("invalid configuration")

// Depth limits accepted for the engine.
const (
	MinDepth = 1
	MaxDepth = 6
)

// Storage backends
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Engine  EngineConfig  `yaml:"engine"`
	Rules   RulesConfig   `yaml:"rules"`
	Clock   ClockConfig   `yaml:"clock"`
	Storage StorageConfig `yaml:"storage"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console, json or legacy
	File   string `yaml:"file"`   // empty disables file output
}

type EngineConfig struct {
	Depth           int    `yaml:"depth"`
	Difficulty      string `yaml:"difficulty"` // overrides depth when set
	TrackEnPassant  bool   `yaml:"track_en_passant"`
	CaptureOrdering bool   `yaml:"capture_ordering"`
}

type RulesConfig struct {
	Castling  bool     `yaml:"castling"`
	EnPassant bool     `yaml:"en_passant"`
	Promotion []string `yaml:"promotion"`
}

type ClockConfig struct {
	Minutes          int `yaml:"minutes"`
	IncrementSeconds int `yaml:"increment_seconds"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Dir      string `yaml:"dir"` // empty selects the platform data directory
	RedisURL string `yaml:"redis_url"`
	TTLHours int    `yaml:"ttl_hours"` // expiry of saved games in redis, 0 keeps them
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Engine: EngineConfig{
			Depth: 2,
		},
		Rules: RulesConfig{
			Castling:  true,
			EnPassant: true,
			Promotion: []string{"q", "r", "b", "n"},
		},
		Clock: ClockConfig{
			Minutes: 10,
		},
		Storage: StorageConfig{
			Backend:  BackendBadger,
			RedisURL: "redis://localhost:6379/0",
			TTLHours: 24 * 30,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and CHESS_* environment variables, in that order.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("CHESS_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_LOG_FORMAT")); v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_ENGINE_DEPTH")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CHESS_ENGINE_DEPTH=%q", ErrInvalid, v)
		}
		c.Engine.Depth = n
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_STORAGE_BACKEND")); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_REDIS_URL")); v != "" {
		c.Storage.RedisURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CHESS_DATA_DIR")); v != "" {
		c.Storage.Dir = v
	}
	return nil
}

// Validate checks every value against its allowed range.
func (c *Config) Validate() error {
	if c.Engine.Depth < MinDepth || c.Engine.Depth > MaxDepth {
		return fmt.Errorf("%w: engine depth %d not in %d..%d", ErrInvalid, c.Engine.Depth, MinDepth, MaxDepth)
	}
	switch c.Engine.Difficulty {
	case "", "easy", "medium", "hard":
	default:
		return fmt.Errorf("%w: engine difficulty %q", ErrInvalid, c.Engine.Difficulty)
	}

	switch c.Log.Format {
	case "console", "json", "legacy":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}

	if len(c.Rules.Promotion) == 0 {
		return fmt.Errorf("%w: at least one promotion piece is required", ErrInvalid)
	}
	for _, p := range c.Rules.Promotion {
		switch p {
		case "q", "r", "b", "n":
		default:
			return fmt.Errorf("%w: promotion piece %q", ErrInvalid, p)
		}
	}

	if c.Clock.Minutes <= 0 || c.Clock.IncrementSeconds < 0 {
		return fmt.Errorf("%w: clock %d+%d", ErrInvalid, c.Clock.Minutes, c.Clock.IncrementSeconds)
	}

	switch c.Storage.Backend {
	case BackendBadger, BackendNone:
	case BackendRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("%w: redis backend needs redis_url", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: storage backend %q", ErrInvalid, c.Storage.Backend)
	}
	return nil
}

// PromotionCodes returns the promotion allow-list as one string, e.g. "qrbn".
func (r RulesConfig) PromotionCodes() string {
	return strings.Join(r.Promotion, "")
}
