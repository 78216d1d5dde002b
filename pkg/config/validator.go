package config

import (
	"fmt"
	"net/url"
	"strconv"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// LLM
	switch c.LLM.Backend {
	case "gemini", "ollama":
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.backend",
			Message: fmt.Sprintf("unknown backend %q, expected gemini or ollama", c.LLM.Backend),
		})
	}

	if c.LLM.Backend == "ollama" && c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "Ollama base URL is required",
		})
	}

	if c.LLM.BaseURL != "" && !isAbsoluteURL(c.LLM.BaseURL) {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid base URL",
		})
	}

	if c.LLM.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.timeout",
			Message: "timeout cannot be negative",
		})
	}

	// Providers
	for _, p := range []struct{ field, value string }{
		{"providers.bible_api_url", c.Providers.BibleAPIURL},
		{"providers.bolls_url", c.Providers.BollsURL},
	} {
		if !isAbsoluteURL(p.value) {
			errors = append(errors, ValidationError{Field: p.field, Message: "invalid provider URL"})
		}
	}

	if c.Providers.SearchLimit < 1 || c.Providers.SearchLimit > 500 {
		errors = append(errors, ValidationError{
			Field:   "providers.search_limit",
			Message: "search_limit must be between 1 and 500",
		})
	}

	if c.Providers.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "providers.rate_limit",
			Message: "rate_limit cannot be negative",
		})
	}

	// Lexicon
	if c.Lexicon.TermsURL != "" && !isAbsoluteURL(c.Lexicon.TermsURL) {
		errors = append(errors, ValidationError{
			Field:   "lexicon.terms_url",
			Message: "invalid terms URL",
		})
	}

	if c.Lexicon.ConcordanceURL != "" && !isAbsoluteURL(c.Lexicon.ConcordanceURL) {
		errors = append(errors, ValidationError{
			Field:   "lexicon.concordance_url",
			Message: "invalid concordance URL",
		})
	}

	if c.Lexicon.RateLimit < 0 {
		errors = append(errors, ValidationError{
			Field:   "lexicon.rate_limit",
			Message: "rate_limit cannot be negative",
		})
	}

	// Database
	if c.Database.URL != "" {
		if u, err := url.Parse(c.Database.URL); err != nil || u.Scheme == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.HistoryLimit < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.history_limit",
			Message: "history_limit must be positive",
		})
	}

	// Server
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: "port must be a number between 1 and 65535",
		})
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown level %q", c.Log.Level),
		})
	}

	switch c.Log.Encoding {
	case "json", "console":
	default:
		errors = append(errors, ValidationError{
			Field:   "log.encoding",
			Message: fmt.Sprintf("unknown encoding %q", c.Log.Encoding),
		})
	}

	return errors
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
