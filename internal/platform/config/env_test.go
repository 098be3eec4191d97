package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int           `env:"TEST_PORT" envDefault:"123"`
	Lag  time.Duration `env:"TEST_LAG" envDefault:"500ms"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.Lag != 500*time.Millisecond {
		t.Fatalf("expected default lag 500ms, got %v", cfg.Lag)
	}
}

func TestParseEnvAppliesPrefix(t *testing.T) {
	t.Setenv("EVENTWIRE_TEST_PORT", "9000")
	// The unprefixed name must be ignored.
	t.Setenv("TEST_LAG", "9s")

	var cfg envTestConfig
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 9000 {
		t.Fatalf("expected prefixed override 9000, got %d", cfg.Port)
	}
	if cfg.Lag != 500*time.Millisecond {
		t.Fatalf("unprefixed variable should not apply, got %v", cfg.Lag)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("EVENTWIRE_TEST_PORT", "not-an-int")

	var cfg envTestConfig
	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse environment") {
		t.Fatalf("expected wrapped parse error, got %v", err)
	}
}
