package configparser

import (
	"testing"
	"time"
)

type parseTarget struct {
	Name     string        `env:"PARSE_TEST_NAME" default:"fallback"`
	Port     int           `env:"PARSE_TEST_PORT" default:"3000"`
	Ratio    float64       `env:"PARSE_TEST_RATIO" default:"-8.5"`
	Enabled  bool          `env:"PARSE_TEST_ENABLED" default:"true"`
	Interval time.Duration `env:"PARSE_TEST_INTERVAL" default:"30s"`
	Tenants  []string      `env:"PARSE_TEST_TENANTS" default:"primary"`

	Nested struct {
		Value string `env:"PARSE_TEST_NESTED_VALUE" default:"inner"`
	}
}

func TestParseEnv_Defaults(t *testing.T) {
	var cfg parseTarget
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.Name != "fallback" {
		t.Errorf("string default: got %q", cfg.Name)
	}
	if cfg.Port != 3000 {
		t.Errorf("int default: got %d", cfg.Port)
	}
	if cfg.Ratio != -8.5 {
		t.Errorf("float default: got %v", cfg.Ratio)
	}
	if !cfg.Enabled {
		t.Errorf("bool default: got %v", cfg.Enabled)
	}
	if cfg.Interval != 30*time.Second {
		t.Errorf("duration default: got %v", cfg.Interval)
	}
	if len(cfg.Tenants) != 1 || cfg.Tenants[0] != "primary" {
		t.Errorf("slice default: got %v", cfg.Tenants)
	}
	if cfg.Nested.Value != "inner" {
		t.Errorf("nested default: got %q", cfg.Nested.Value)
	}
}

func TestParseEnv_EnvOverridesDefault(t *testing.T) {
	t.Setenv("PARSE_TEST_NAME", "from-env")
	t.Setenv("PARSE_TEST_INTERVAL", "1m30s")
	t.Setenv("PARSE_TEST_TENANTS", "alpha, beta ,gamma")

	var cfg parseTarget
	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.Name != "from-env" {
		t.Errorf("got %q", cfg.Name)
	}
	if cfg.Interval != 90*time.Second {
		t.Errorf("got %v", cfg.Interval)
	}
	want := []string{"alpha", "beta", "gamma"}
	if len(cfg.Tenants) != len(want) {
		t.Fatalf("got %v", cfg.Tenants)
	}
	for i := range want {
		if cfg.Tenants[i] != want[i] {
			t.Errorf("tenant %d: got %q want %q", i, cfg.Tenants[i], want[i])
		}
	}
}

func TestParseEnv_InvalidValue(t *testing.T) {
	t.Setenv("PARSE_TEST_PORT", "not-a-number")

	var cfg parseTarget
	if err := ParseEnv(&cfg); err == nil {
		t.Fatalf("expected an error for a non-numeric int")
	}
}

func TestParseEnv_RequiresStructPointer(t *testing.T) {
	var cfg parseTarget
	if err := ParseEnv(cfg); err == nil {
		t.Fatalf("expected an error for a non-pointer destination")
	}
}
