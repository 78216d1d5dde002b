package lexicon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xhad/versewise/internal/metrics"
	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/pkg/fetcher"
)

// MaxStrongsLookups bounds concordance calls per message.
const MaxStrongsLookups = 3

var ErrEmptyEntry = errors.New("concordance returned an empty entry")

type ConcordanceConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
}

// Concordance looks up Strong's numbers one HTTP call at a time.
type Concordance struct {
	baseURL string
	fetcher *fetcher.Fetcher
	logger  *zap.Logger
}

func NewConcordance(config ConcordanceConfig, opts ...Option) *Concordance {
	s := applyOptions(opts)
	return &Concordance{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		fetcher: fetcher.NewWithConfig(fetcher.FetcherConfig{
			Timeout:   config.Timeout,
			RateLimit: config.RateLimit,
		}),
		logger: s.logger,
	}
}

// looseStrings accepts either a JSON array of strings or one comma separated
// string.
type looseStrings []string

func (l *looseStrings) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

// rawEntry lists the field names used by the concordance services we have
// seen; the first non-empty one wins.
type rawEntry struct {
	Number          string       `json:"number"`
	Strongs         string       `json:"strongs"`
	OriginalWord    string       `json:"originalWord"`
	Lemma           string       `json:"lemma"`
	Transliteration string       `json:"transliteration"`
	Xlit            string       `json:"xlit"`
	Pronunciation   string       `json:"pronunciation"`
	Pron            string       `json:"pron"`
	Definition      string       `json:"definition"`
	StrongsDef      string       `json:"strongs_def"`
	Translations    looseStrings `json:"translations"`
	KJVDef          looseStrings `json:"kjv_def"`
}

// Lookup fetches one entry. Missing fields come back as zero values.
func (c *Concordance) Lookup(ctx context.Context, id string) (*models.StrongsEntry, error) {
	id = strings.ToUpper(strings.TrimSpace(id))
	if id == "" {
		return nil, errors.New("empty Strong's id")
	}

	var raw rawEntry
	if err := c.fetcher.GetJSON(ctx, fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(id)), &raw); err != nil {
		return nil, fmt.Errorf("strong's lookup %s: %w", id, err)
	}

	entry := &models.StrongsEntry{
		Number:          firstNonEmpty(raw.Number, raw.Strongs, id),
		OriginalWord:    firstNonEmpty(raw.OriginalWord, raw.Lemma),
		Transliteration: firstNonEmpty(raw.Transliteration, raw.Xlit),
		Pronunciation:   firstNonEmpty(raw.Pronunciation, raw.Pron),
		Definition:      fetcher.StripMarkup(firstNonEmpty(raw.Definition, raw.StrongsDef)),
		Translations:    []string(raw.Translations),
	}
	if len(entry.Translations) == 0 {
		entry.Translations = []string(raw.KJVDef)
	}
	if entry.Translations == nil {
		entry.Translations = []string{}
	}

	if entry.OriginalWord == "" && entry.Definition == "" {
		return nil, fmt.Errorf("strong's lookup %s: %w", id, ErrEmptyEntry)
	}
	return entry, nil
}

// LookupAll resolves up to MaxStrongsLookups ids, silently skipping any that
// fail.
func (c *Concordance) LookupAll(ctx context.Context, ids []string) []models.StrongsEntry {
	entries := []models.StrongsEntry{}
	if c.baseURL == "" {
		return entries
	}

	if len(ids) > MaxStrongsLookups {
		ids = ids[:MaxStrongsLookups]
	}

	for _, id := range ids {
		entry, err := c.Lookup(ctx, id)
		if err != nil {
			metrics.ProviderRequests.WithLabelValues("concordance", metrics.OutcomeError).Inc()
			c.logger.Debug("Skipping Strong's id", zap.String("id", id), zap.Error(err))
			continue
		}
		metrics.ProviderRequests.WithLabelValues("concordance", metrics.OutcomeOK).Inc()
		entries = append(entries, *entry)
	}
	return entries
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
