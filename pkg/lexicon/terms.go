package lexicon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xhad/versewise/internal/metrics"
	"github.com/xhad/versewise/pkg/fetcher"
	"github.com/xhad/versewise/pkg/processor"
)

const (
	// GeneralTermLimit caps terms for questions with no scripture anchor.
	GeneralTermLimit = 5
	// AnchoredTermLimit caps terms when verses were resolved.
	AnchoredTermLimit = 10
)

type TermMatcherConfig struct {
	URL          string
	APIKey       string
	APIKeyHeader string
	Timeout      time.Duration
	RateLimit    float64
}

// TermMatcher pulls the full biblical vocabulary from the lexical service and
// filters it locally against a piece of text.
type TermMatcher struct {
	url       string
	fetcher   *fetcher.Fetcher
	processor processor.Processor
	logger    *zap.Logger
}

func NewTermMatcher(config TermMatcherConfig, opts ...Option) *TermMatcher {
	if config.APIKeyHeader == "" {
		config.APIKeyHeader = "X-API-Key"
	}

	headers := map[string]string{}
	if config.APIKey != "" {
		headers[config.APIKeyHeader] = config.APIKey
	}

	s := applyOptions(opts)
	return &TermMatcher{
		url: config.URL,
		fetcher: fetcher.NewWithConfig(fetcher.FetcherConfig{
			Timeout:   config.Timeout,
			RateLimit: config.RateLimit,
			Headers:   headers,
		}),
		processor: processor.New(),
		logger:    s.logger,
	}
}

// FindRelatedTerms returns at most limit vocabulary terms related to text, in
// provider order. Any provider failure yields an empty list.
func (m *TermMatcher) FindRelatedTerms(ctx context.Context, text string, limit int) []string {
	if m.url == "" || strings.TrimSpace(text) == "" {
		return []string{}
	}

	vocabulary, err := m.vocabulary(ctx)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("lexicon-terms", metrics.OutcomeError).Inc()
		m.logger.Warn("Semantic term lookup failed", zap.Error(err))
		return []string{}
	}
	metrics.ProviderRequests.WithLabelValues("lexicon-terms", metrics.OutcomeOK).Inc()

	return MatchTerms(m.processor, vocabulary, text, limit)
}

func (m *TermMatcher) vocabulary(ctx context.Context) ([]string, error) {
	body, err := m.fetcher.Get(ctx, m.url)
	if err != nil {
		return nil, err
	}

	body = bytes.TrimSpace(body)
	var terms []string
	if len(body) > 0 && body[0] == '{' {
		var envelope struct {
			Terms []string `json:"terms"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("malformed vocabulary: %w", err)
		}
		terms = envelope.Terms
	} else if err := json.Unmarshal(body, &terms); err != nil {
		return nil, fmt.Errorf("malformed vocabulary: %w", err)
	}
	return terms, nil
}

// MatchTerms keeps the vocabulary entries related to text: the term occurs in
// the text, the text occurs in the term, or one of the text's content tokens
// occurs in the term. Comparison is case-insensitive; order is preserved and
// duplicates are dropped.
func MatchTerms(p processor.Processor, vocabulary []string, text string, limit int) []string {
	matches := []string{}
	if limit <= 0 {
		return matches
	}

	needle := p.CleanText(text)
	if needle == "" {
		return matches
	}
	tokens := p.Tokens(text)
	seen := make(map[string]bool)

	for _, term := range vocabulary {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" || seen[t] {
			continue
		}
		if !related(t, needle, tokens) {
			continue
		}
		seen[t] = true
		matches = append(matches, strings.TrimSpace(term))
		if len(matches) == limit {
			break
		}
	}
	return matches
}

func related(term, text string, tokens []string) bool {
	if strings.Contains(text, term) || strings.Contains(term, text) {
		return true
	}
	for _, tok := range tokens {
		if strings.Contains(term, tok) {
			return true
		}
	}
	return false
}
