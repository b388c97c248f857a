package config

import (
	"fmt"

	"lensflow/matching"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Matching MatchingConfig `mapstructure:"matching"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int32  `mapstructure:"max_connections"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// MatchingConfig tunes the lead-distribution engine. Weights default to the
// production point system when the section is absent.
type MatchingConfig struct {
	FanOutLimit   int              `mapstructure:"fan_out_limit"`
	CandidatePool int              `mapstructure:"candidate_pool"`
	Weights       matching.Weights `mapstructure:"weights"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "lensflow"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.Matching.FanOutLimit <= 0 {
		cfg.Matching.FanOutLimit = matching.DefaultFanOutLimit
	}
	if cfg.Matching.CandidatePool <= 0 {
		cfg.Matching.CandidatePool = matching.DefaultCandidatePool
	}
	if cfg.Matching.Weights.IsZero() {
		cfg.Matching.Weights = matching.DefaultWeights()
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("config: database url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth jwt_secret is required")
	}
	if cfg.Matching.FanOutLimit < 1 {
		return fmt.Errorf("config: matching fan_out_limit must be at least 1")
	}
	return nil
}
