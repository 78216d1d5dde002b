package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "OLLAMA_BASE_URL", "LEXICON_API_KEY", "DATABASE_URL", "PORT"} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
llm:
  backend: "ollama"
  model: "llama3"
  base_url: "http://localhost:11434"
  timeout: 90s

providers:
  translation: "WEB"
  search_limit: 20
  rate_limit: 2.5

lexicon:
  terms_url: "https://lexicon.example.com/terms"
  concordance_url: "https://lexicon.example.com/strongs"

database:
  url: "postgres://localhost:5432/versewise"
  table_name: "test_chats"

server:
  port: "9090"
  allowed_origins:
    - "https://app.example.com"

log:
  level: "debug"
  encoding: "console"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "ollama", config.LLM.Backend)
	assert.Equal(t, "llama3", config.LLM.Model)
	assert.Equal(t, 90*time.Second, config.LLM.Timeout)
	assert.Equal(t, "WEB", config.Providers.Translation)
	assert.Equal(t, 20, config.Providers.SearchLimit)
	assert.Equal(t, 2.5, config.Providers.RateLimit)
	assert.Equal(t, "https://bible-api.com", config.Providers.BibleAPIURL)
	assert.Equal(t, "https://lexicon.example.com/terms", config.Lexicon.TermsURL)
	assert.Equal(t, "X-API-Key", config.Lexicon.APIKeyHeader)
	assert.Equal(t, "postgres://localhost:5432/versewise", config.Database.URL)
	assert.Equal(t, "test_chats", config.Database.TableName)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, config.Server.AllowedOrigins)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Empty(t, config.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformed(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("llm: [unclosed"), 0644))

	_, err := LoadConfig(configPath)
	assert.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)

	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini", config.LLM.Backend)
	assert.Equal(t, "gemini-2.0-flash", config.LLM.Model)
	assert.Empty(t, config.LLM.APIKey)
	assert.Empty(t, config.Lexicon.APIKey)
	assert.Equal(t, "https://bolls.life", config.Providers.BollsURL)
	assert.Equal(t, 30*time.Second, config.Providers.Timeout)
	assert.Equal(t, "chat_messages", config.Database.TableName)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	clearEnv(t)

	valid, err := getDefaultConfig()
	require.NoError(t, err)

	invalid := *valid
	invalid.LLM.Backend = "gpt"
	invalid.LLM.BaseURL = "invalid-url"
	invalid.Providers.BollsURL = "bolls"
	invalid.Providers.SearchLimit = 0
	invalid.Database.URL = "invalid-url"
	invalid.Server.Port = "http"
	invalid.Log.Level = "verbose"

	tests := []struct {
		name          string
		config        Config
		expectedErrs  int
		errorMessages []string
	}{
		{
			name:         "valid config",
			config:       *valid,
			expectedErrs: 0,
		},
		{
			name:         "invalid config",
			config:       invalid,
			expectedErrs: 7,
			errorMessages: []string{
				"llm.backend: unknown backend",
				"llm.base_url: invalid base URL",
				"providers.bolls_url: invalid provider URL",
				"providers.search_limit: search_limit must be between 1 and 500",
				"database.url: invalid database URL",
				"server.port: port must be a number",
				"log.level: unknown level",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := tt.config.Validate()
			assert.Len(t, errors, tt.expectedErrs)

			if tt.errorMessages != nil {
				for i, msg := range tt.errorMessages {
					assert.Contains(t, errors[i].Error(), msg)
				}
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-gemini")
	t.Setenv("LEXICON_API_KEY", "env-lexicon")
	t.Setenv("OLLAMA_BASE_URL", "http://env-ollama:11434")
	t.Setenv("DATABASE_URL", "postgres://env-db:5432/test")
	t.Setenv("PORT", "3000")

	config := &Config{LLM: LLMConfig{Backend: "ollama"}}
	mergeWithEnv(config)

	assert.Equal(t, "env-gemini", config.LLM.APIKey)
	assert.Equal(t, "env-lexicon", config.Lexicon.APIKey)
	assert.Equal(t, "http://env-ollama:11434", config.LLM.BaseURL)
	assert.Equal(t, "postgres://env-db:5432/test", config.Database.URL)
	assert.Equal(t, "3000", config.Server.Port)
}
