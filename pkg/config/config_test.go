package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	c, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Environment != "development" {
		t.Fatalf("environment = %s", c.Environment)
	}
	if c.DataSource.Type != "platform" {
		t.Fatalf("datasource type = %s", c.DataSource.Type)
	}
	if c.DataSource.Platform.Timeout != 30*time.Second {
		t.Fatalf("platform timeout = %v", c.DataSource.Platform.Timeout)
	}
	if c.Artifacts.Dir != "artifacts" {
		t.Fatalf("artifacts dir = %s", c.Artifacts.Dir)
	}
	if c.Training.Folds != 5 {
		t.Fatalf("folds = %d", c.Training.Folds)
	}
	if c.Cache.Backend != "memory" || c.Cache.TTL != 6*time.Hour {
		t.Fatalf("cache defaults = %s/%v", c.Cache.Backend, c.Cache.TTL)
	}
}

func TestParseOverrides(t *testing.T) {
	raw := `
datasource:
  type: clickhouse
  clickhouse:
    host: ch.internal
    port: 9440
artifacts:
  dir: /var/lib/trendcast
training:
  folds: 3
`
	c, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.DataSource.Type != "clickhouse" {
		t.Fatalf("datasource type = %s", c.DataSource.Type)
	}
	if c.DataSource.ClickHouse.Host != "ch.internal" || c.DataSource.ClickHouse.Port != 9440 {
		t.Fatalf("clickhouse = %s:%d", c.DataSource.ClickHouse.Host, c.DataSource.ClickHouse.Port)
	}
	if c.Artifacts.Dir != "/var/lib/trendcast" {
		t.Fatalf("artifacts dir = %s", c.Artifacts.Dir)
	}
	if c.Training.Folds != 3 {
		t.Fatalf("folds = %d", c.Training.Folds)
	}
	// Untouched fields still get defaults.
	if c.DataSource.ClickHouse.Table != "trendcast.daily_bars" {
		t.Fatalf("table = %s", c.DataSource.ClickHouse.Table)
	}
}

func TestParseRejectsUnknownSourceType(t *testing.T) {
	if _, err := Parse([]byte("datasource:\n  type: csv\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestParseRejectsNegativeFolds(t *testing.T) {
	if _, err := Parse([]byte("training:\n  folds: -1\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PLATFORM_BASE_URL", "http://bars.internal:9090")
	t.Setenv("ARTIFACTS_DIR", "/tmp/artifacts")

	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DataSource.Platform.BaseURL != "http://bars.internal:9090" {
		t.Fatalf("base url = %s", c.DataSource.Platform.BaseURL)
	}
	if c.Artifacts.Dir != "/tmp/artifacts" {
		t.Fatalf("artifacts dir = %s", c.Artifacts.Dir)
	}
}
