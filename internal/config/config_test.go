// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentConfigCopiesLLMConfig(t *testing.T) {
	require.NoError(t, InitConfig(t.TempDir()))

	first := GetCurrentConfig()
	require.NotNil(t, first.LLMConfig)

	// Mutating the returned copy must not write through to the singleton.
	first.LLMConfig["api_key"] = "mutated-by-caller"
	first.LLMProvider = "mutated-provider"

	second := GetCurrentConfig()
	assert.NotEqual(t, "mutated-by-caller", second.LLMConfig["api_key"])
	assert.NotEqual(t, "mutated-provider", second.LLMProvider)
}

func TestUpdateLLMConfigPersistsSettings(t *testing.T) {
	require.NoError(t, InitConfig(t.TempDir()))

	require.NoError(t, UpdateLLMConfig("openrouter", map[string]string{
		"api_key":       "test-key",
		"default_model": "google/gemini-2.5-flash",
	}))

	cfg := GetCurrentConfig()
	assert.Equal(t, "openrouter", cfg.LLMProvider)
	assert.Equal(t, "test-key", cfg.LLMConfig["api_key"])
}
