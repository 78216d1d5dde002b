package scripture

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/xhad/versewise/internal/metrics"
	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/pkg/fetcher"
)

// chapterSearchLimit bounds the keyword search used to rebuild a chapter when
// every chapter provider is down. Psalm 119 has 176 verses.
const chapterSearchLimit = 500

type ResolverConfig struct {
	BibleAPIURL string
	BollsURL    string
	Translation string
	Timeout     time.Duration
	RateLimit   float64
	SearchLimit int
}

// Resolver turns references and queries into verses by walking ordered
// provider chains. It never returns an error: total failure is an empty
// result.
type Resolver struct {
	verseChain   []VerseProvider
	chapterChain []ChapterProvider
	searcher     Searcher
	searchLimit  int
	logger       *zap.Logger
}

type Option func(*Resolver)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithSearchLimit(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.searchLimit = n
		}
	}
}

// New builds a resolver from explicit chains. searcher may be nil, which
// disables keyword search and the chapter search fallback.
func New(verseChain []VerseProvider, chapterChain []ChapterProvider, searcher Searcher, opts ...Option) *Resolver {
	r := &Resolver{
		verseChain:   verseChain,
		chapterChain: chapterChain,
		searcher:     searcher,
		searchLimit:  10,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewWithConfig wires the standard chains: bible-api first, bolls second,
// with bolls also serving keyword search.
func NewWithConfig(config ResolverConfig, opts ...Option) *Resolver {
	if config.BibleAPIURL == "" {
		config.BibleAPIURL = "https://bible-api.com"
	}
	if config.BollsURL == "" {
		config.BollsURL = "https://bolls.life"
	}
	if config.Translation == "" {
		config.Translation = "KJV"
	}

	f := fetcher.NewWithConfig(fetcher.FetcherConfig{
		Timeout:   config.Timeout,
		RateLimit: config.RateLimit,
	})
	bibleAPI := NewBibleAPIProvider(config.BibleAPIURL, config.Translation, f)
	bolls := NewBollsProvider(config.BollsURL, config.Translation, f)

	if config.SearchLimit > 0 {
		opts = append([]Option{WithSearchLimit(config.SearchLimit)}, opts...)
	}

	return New(
		[]VerseProvider{bibleAPI, bolls},
		[]ChapterProvider{bibleAPI, bolls},
		bolls,
		opts...,
	)
}

// Resolve tries each verse provider in order and returns the first non-empty
// result.
func (r *Resolver) Resolve(ctx context.Context, query string) []models.VerseResult {
	for _, p := range r.verseChain {
		verses, err := p.Resolve(ctx, query)
		if r.accept(p.Name(), query, len(verses), err) {
			return verses
		}
	}
	return []models.VerseResult{}
}

// Search runs a keyword search against the configured searcher.
func (r *Resolver) Search(ctx context.Context, query string, limit int) []models.VerseResult {
	if r.searcher == nil {
		return []models.VerseResult{}
	}
	if limit <= 0 {
		limit = r.searchLimit
	}

	verses, err := r.searcher.Search(ctx, query, limit)
	if !r.accept(r.searcher.Name(), query, len(verses), err) {
		return []models.VerseResult{}
	}
	return verses
}

// ResolveChapter walks the chapter chain, and when every provider fails
// rebuilds the chapter from a keyword search on the book name.
func (r *Resolver) ResolveChapter(ctx context.Context, book string, chapter int) models.Chapter {
	name := canonicalBook(book)
	result := models.Chapter{Book: name, Chapter: chapter, Verses: []models.VerseResult{}}

	label := fmt.Sprintf("%s %d", name, chapter)
	for _, p := range r.chapterChain {
		verses, err := p.Chapter(ctx, name, chapter)
		if r.accept(p.Name(), label, len(verses), err) {
			result.Verses = sortVerses(verses)
			return result
		}
	}

	if r.searcher == nil {
		return result
	}

	found, err := r.searcher.Search(ctx, name, chapterSearchLimit)
	if !r.accept(r.searcher.Name(), name, len(found), err) {
		return result
	}

	seen := make(map[int]bool)
	for _, v := range found {
		if v.Book != name || v.Chapter != chapter || v.Partial || seen[v.Verse] {
			continue
		}
		seen[v.Verse] = true
		result.Verses = append(result.Verses, v)
	}
	result.Verses = sortVerses(result.Verses)
	return result
}

// accept records the outcome of one provider call and reports whether the
// chain can stop.
func (r *Resolver) accept(provider, query string, n int, err error) bool {
	switch {
	case err != nil:
		metrics.ProviderRequests.WithLabelValues(provider, metrics.OutcomeError).Inc()
		r.logger.Warn("Scripture provider failed",
			zap.String("provider", provider),
			zap.String("query", query),
			zap.Error(err))
		return false
	case n == 0:
		metrics.ProviderRequests.WithLabelValues(provider, metrics.OutcomeEmpty).Inc()
		r.logger.Debug("Scripture provider returned nothing",
			zap.String("provider", provider),
			zap.String("query", query))
		return false
	default:
		metrics.ProviderRequests.WithLabelValues(provider, metrics.OutcomeOK).Inc()
		return true
	}
}

func sortVerses(verses []models.VerseResult) []models.VerseResult {
	sort.SliceStable(verses, func(i, j int) bool {
		return verses[i].Verse < verses[j].Verse
	})
	return verses
}
