package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("expected 30s request timeout, got %s", cfg.Server.RequestTimeout)
	}
	if cfg.Database.URL != "" {
		t.Errorf("expected empty database url, got %s", cfg.Database.URL)
	}
	if cfg.Valuation.ComparableLimit != 10 {
		t.Errorf("expected comparable limit 10, got %d", cfg.Valuation.ComparableLimit)
	}
	if cfg.Mortgage.DefaultCountry != "UAE" {
		t.Errorf("expected default country UAE, got %s", cfg.Mortgage.DefaultCountry)
	}
	if cfg.Mortgage.DefaultLoanType != "conventional_30y" {
		t.Errorf("expected default loan type conventional_30y, got %s", cfg.Mortgage.DefaultLoanType)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Logging.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PROPFOLIO_SERVER_PORT", "9090")
	t.Setenv("PROPFOLIO_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("expected env port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected env level debug, got %s", cfg.Logging.Level)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "3000"
valuation:
  comparable_limit: 25
  use_synthetic_comparables: true
mortgage:
  default_country: Qatar
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Errorf("expected file port 3000, got %s", cfg.Server.Port)
	}
	if cfg.Valuation.ComparableLimit != 25 {
		t.Errorf("expected comparable limit 25, got %d", cfg.Valuation.ComparableLimit)
	}
	if !cfg.Valuation.UseSyntheticComparables {
		t.Errorf("expected synthetic comparables enabled")
	}
	if cfg.Mortgage.DefaultCountry != "Qatar" {
		t.Errorf("expected default country Qatar, got %s", cfg.Mortgage.DefaultCountry)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected default read timeout, got %s", cfg.Server.ReadTimeout)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Errorf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server:    ServerConfig{Port: "8080"},
		Valuation: ValuationConfig{ComparableLimit: 10},
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	noPort := valid
	noPort.Server.Port = ""
	if err := noPort.Validate(); err == nil {
		t.Errorf("expected error for empty port")
	}

	badLimit := valid
	badLimit.Valuation.ComparableLimit = 0
	if err := badLimit.Validate(); err == nil {
		t.Errorf("expected error for zero comparable limit")
	}

	badTTL := valid
	badTTL.Redis.URL = "redis://localhost:6379"
	badTTL.Redis.CacheTTL = 0
	if err := badTTL.Validate(); err == nil {
		t.Errorf("expected error for zero cache TTL with redis enabled")
	}
}
