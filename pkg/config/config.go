package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"logging"`

	DataSource struct {
		Type string `yaml:"type" default:"platform" validate:"oneof=platform clickhouse"`

		Platform struct {
			BaseURL string        `yaml:"base_url" default:"http://localhost:8080"`
			Timeout time.Duration `yaml:"timeout" default:"30s"`
		} `yaml:"platform"`

		ClickHouse struct {
			Host         string        `yaml:"host" default:"localhost"`
			Port         int           `yaml:"port" default:"9000"`
			Database     string        `yaml:"database" default:"trendcast"`
			User         string        `yaml:"user" default:"default"`
			Password     string        `yaml:"password"`
			Table        string        `yaml:"table" default:"trendcast.daily_bars"`
			DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		} `yaml:"clickhouse"`
	} `yaml:"datasource"`

	Artifacts struct {
		Dir string `yaml:"dir" default:"artifacts" validate:"required"`
	} `yaml:"artifacts"`

	Training struct {
		Folds int `yaml:"folds" default:"5" validate:"min=1"`
	} `yaml:"training"`

	Cache struct {
		Enabled bool          `yaml:"enabled"`
		Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis"`
		TTL     time.Duration `yaml:"ttl" default:"6h"`

		Redis struct {
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"trendcast"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads, defaults and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse unmarshals config bytes, applies defaults and validates.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := validator.New().Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config and overrides selected fields from environment
// variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PLATFORM_BASE_URL"); v != "" {
		c.DataSource.Platform.BaseURL = v
	}
	if v := os.Getenv("ARTIFACTS_DIR"); v != "" {
		c.Artifacts.Dir = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.DataSource.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}

	return c, nil
}
