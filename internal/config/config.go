// Package config provides Viper-based configuration loading for the
// simulation toolkit.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SimulationConfig holds default simulation parameters. Flags on the
// simulate binary override these per run.
type SimulationConfig struct {
	// Rolls is the number of rounds per play.
	Rolls int `mapstructure:"rolls"`
	// Seed selects a deterministic random source when non-zero; 0 uses the
	// crypto source.
	Seed int64 `mapstructure:"seed"`
	// Form is the result table shape: "wide" or "narrow".
	Form string `mapstructure:"form"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: returns nil if configuration is valid, or an error
// describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.Rolls < 1 {
		errs = append(errs, fmt.Sprintf("simulation.rolls must be >= 1, got %d", s.Rolls))
	}
	validForms := map[string]bool{"wide": true, "narrow": true}
	if !validForms[s.Form] {
		errs = append(errs, fmt.Sprintf("simulation.form must be one of [wide, narrow], got %q", s.Form))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path skips the file
// and uses defaults plus environment overrides only.
//
// Postcondition: returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with MONTECARLO_ prefix
	v.SetEnvPrefix("MONTECARLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil.
// Postcondition: returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("simulation.rolls", 1000)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.form", "wide")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}
