package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pricing.RiskFreeRate != 0.04 {
		t.Errorf("RiskFreeRate = %v, want 0.04", cfg.Pricing.RiskFreeRate)
	}
	if cfg.Pricing.ContractMultiplier != 100 {
		t.Errorf("ContractMultiplier = %v, want 100", cfg.Pricing.ContractMultiplier)
	}
	if cfg.Server.Port != 8087 {
		t.Errorf("Port = %d, want 8087", cfg.Server.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[pricing]
risk_free_rate = 0.05
dividend_yield = 0.01

[server]
port = 9000
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pricing.RiskFreeRate != 0.05 {
		t.Errorf("RiskFreeRate = %v, want 0.05", cfg.Pricing.RiskFreeRate)
	}
	if cfg.Pricing.DividendYield != 0.01 {
		t.Errorf("DividendYield = %v, want 0.01", cfg.Pricing.DividendYield)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Server.Port)
	}
	// Untouched sections keep their defaults.
	if cfg.Pricing.ContractMultiplier != 100 {
		t.Errorf("ContractMultiplier = %v, want 100", cfg.Pricing.ContractMultiplier)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPTSIM_RISK_FREE_RATE", "0.03")
	t.Setenv("OPTSIM_PORT", "9100")
	t.Setenv("OPTSIM_LOG_LEVEL", "debug")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pricing.RiskFreeRate != 0.03 {
		t.Errorf("RiskFreeRate = %v, want 0.03", cfg.Pricing.RiskFreeRate)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Port = %d, want 9100", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	content := `
[pricing]
risk_free_rate = 2.5
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected validation error for out-of-range rate")
	}

	cfg := &Config{}
	cfg.Pricing.RiskFreeRate = 0.04
	cfg.Pricing.ContractMultiplier = 100
	cfg.Server.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid port")
	}
}
