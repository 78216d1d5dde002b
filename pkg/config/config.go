package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LLM       LLMConfig       `yaml:"llm"`
	Providers ProvidersConfig `yaml:"providers"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

type LLMConfig struct {
	Backend string        `yaml:"backend"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
}

type ProvidersConfig struct {
	BibleAPIURL string        `yaml:"bible_api_url"`
	BollsURL    string        `yaml:"bolls_url"`
	Translation string        `yaml:"translation"`
	SearchLimit int           `yaml:"search_limit"`
	Timeout     time.Duration `yaml:"timeout"`
	RateLimit   float64       `yaml:"rate_limit"`
}

type LexiconConfig struct {
	TermsURL       string        `yaml:"terms_url"`
	APIKey         string        `yaml:"api_key"`
	APIKeyHeader   string        `yaml:"api_key_header"`
	ConcordanceURL string        `yaml:"concordance_url"`
	Timeout        time.Duration `yaml:"timeout"`
	RateLimit      float64       `yaml:"rate_limit"`
}

type DatabaseConfig struct {
	URL          string `yaml:"url"`
	TableName    string `yaml:"table_name"`
	HistoryLimit int    `yaml:"history_limit"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/versewise/config.yaml"),
			"/etc/versewise/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	applyDefaults(config)
	mergeWithEnv(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.LLM.Backend == "" {
		config.LLM.Backend = "gemini"
	}
	if config.LLM.Model == "" {
		switch config.LLM.Backend {
		case "ollama":
			config.LLM.Model = "mistral"
		default:
			config.LLM.Model = "gemini-2.0-flash"
		}
	}
	if config.LLM.BaseURL == "" && config.LLM.Backend == "ollama" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.Timeout == 0 {
		config.LLM.Timeout = 60 * time.Second
	}

	if config.Providers.BibleAPIURL == "" {
		config.Providers.BibleAPIURL = "https://bible-api.com"
	}
	if config.Providers.BollsURL == "" {
		config.Providers.BollsURL = "https://bolls.life"
	}
	if config.Providers.Translation == "" {
		config.Providers.Translation = "KJV"
	}
	if config.Providers.SearchLimit == 0 {
		config.Providers.SearchLimit = 10
	}
	if config.Providers.Timeout == 0 {
		config.Providers.Timeout = 30 * time.Second
	}

	if config.Lexicon.APIKeyHeader == "" {
		config.Lexicon.APIKeyHeader = "X-API-Key"
	}
	if config.Lexicon.Timeout == 0 {
		config.Lexicon.Timeout = 30 * time.Second
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "chat_messages"
	}
	if config.Database.HistoryLimit == 0 {
		config.Database.HistoryLimit = 50
	}

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Encoding == "" {
		config.Log.Encoding = "json"
	}
}

// mergeWithEnv overlays secrets and deployment endpoints. Secrets have no
// defaults and are only ever read from the file or the environment.
func mergeWithEnv(config *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && config.LLM.Backend == "ollama" {
		config.LLM.BaseURL = baseURL
	}
	if key := os.Getenv("LEXICON_API_KEY"); key != "" {
		config.Lexicon.APIKey = key
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if port := os.Getenv("PORT"); port != "" {
		config.Server.Port = port
	}
}
