// Package config provides configuration management for the simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Pricing PricingConfig `mapstructure:"pricing"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Storage StorageConfig `mapstructure:"storage"`
}

// PricingConfig holds the pricing assumptions injected into the engine.
type PricingConfig struct {
	// RiskFreeRate is the annualized continuously-compounded rate as a
	// fraction. Default 0.04 (4%), roughly the short-dated treasury yield.
	RiskFreeRate float64 `mapstructure:"risk_free_rate"`

	// DividendYield is the default continuous dividend yield when the
	// caller does not supply one.
	DividendYield float64 `mapstructure:"dividend_yield"`

	// ContractMultiplier is the default point value per contract.
	ContractMultiplier float64 `mapstructure:"contract_multiplier"`
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Console  bool   `mapstructure:"console"`
	File     bool   `mapstructure:"file"`
	FilePath string `mapstructure:"file_path"`
}

// StorageConfig holds saved-configuration storage settings.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-simulator"
	}
	return filepath.Join(home, ".config", "options-simulator")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing
// config file yields the defaults rather than an error.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("pricing.risk_free_rate", 0.04)
	v.SetDefault("pricing.dividend_yield", 0.0)
	v.SetDefault("pricing.contract_multiplier", 100.0)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8087)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", false)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "optsim.log"))

	v.SetDefault("storage.db_path", filepath.Join(configDir, "optsim.db"))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTSIM_RISK_FREE_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Pricing.RiskFreeRate = rate
		}
	}
	if v := os.Getenv("OPTSIM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("OPTSIM_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("OPTSIM_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Pricing.RiskFreeRate < -0.05 || c.Pricing.RiskFreeRate > 0.5 {
		return fmt.Errorf("risk_free_rate %.4f out of range [-0.05, 0.5]", c.Pricing.RiskFreeRate)
	}
	if c.Pricing.DividendYield < 0 || c.Pricing.DividendYield > 0.5 {
		return fmt.Errorf("dividend_yield %.4f out of range [0, 0.5]", c.Pricing.DividendYield)
	}
	if c.Pricing.ContractMultiplier <= 0 {
		return fmt.Errorf("contract_multiplier must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
