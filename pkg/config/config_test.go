package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.AnalysisModel)
	assert.Equal(t, 42, cfg.LLM.Seed)
	assert.Equal(t, 4, cfg.Analysis.BatchSize)
	assert.Equal(t, 5, cfg.Analysis.MinTextLength)
	assert.Equal(t, "./data", cfg.Artifacts.DataDir)
	assert.NotEmpty(t, cfg.LLM.SystemPrompt)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REVIEW_INSIGHT_ANALYSIS_BATCHSIZE", "8")
	t.Setenv("REVIEW_INSIGHT_LLM_APIKEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Analysis.BatchSize)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
}
