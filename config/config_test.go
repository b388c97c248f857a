package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lensflow/matching"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	applyDefaults(&cfg)

	assert.Equal(t, "lensflow", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, matching.DefaultFanOutLimit, cfg.Matching.FanOutLimit)
	assert.Equal(t, matching.DefaultCandidatePool, cfg.Matching.CandidatePool)
	assert.Equal(t, matching.DefaultWeights(), cfg.Matching.Weights)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestApplyDefaultsKeepsConfiguredWeights(t *testing.T) {
	custom := matching.Weights{Base: 1, SpecializationMax: 2}
	cfg := Config{Matching: MatchingConfig{Weights: custom, FanOutLimit: 3}}
	applyDefaults(&cfg)

	assert.Equal(t, custom, cfg.Matching.Weights)
	assert.Equal(t, 3, cfg.Matching.FanOutLimit)
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		Database: DatabaseConfig{URL: "postgres://localhost/lensflow"},
		Auth:     AuthConfig{JWTSecret: "secret"},
		Matching: MatchingConfig{FanOutLimit: 5},
	}
	require.NoError(t, validateConfig(&valid))

	noDB := valid
	noDB.Database.URL = ""
	assert.Error(t, validateConfig(&noDB))

	noSecret := valid
	noSecret.Auth.JWTSecret = ""
	assert.Error(t, validateConfig(&noSecret))

	badFanOut := valid
	badFanOut.Matching.FanOutLimit = 0
	assert.Error(t, validateConfig(&badFanOut))
}
