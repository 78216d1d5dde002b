package scripture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/pkg/extractor"
	"github.com/xhad/versewise/pkg/fetcher"
)

// VerseProvider resolves a reference or free-text query to verses. A nil
// slice with an error, or an empty slice, both mean "try the next provider".
type VerseProvider interface {
	Name() string
	Resolve(ctx context.Context, query string) ([]models.VerseResult, error)
}

// ChapterProvider returns every verse of one chapter.
type ChapterProvider interface {
	Name() string
	Chapter(ctx context.Context, book string, chapter int) ([]models.VerseResult, error)
}

// Searcher performs keyword search across the whole text.
type Searcher interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.VerseResult, error)
}

var errNotReference = errors.New("query is not a scripture reference")

// BibleAPIProvider talks to a bible-api.com style service, which resolves
// references given in the URL path and answers with a "verses" array.
type BibleAPIProvider struct {
	baseURL     string
	translation string
	fetcher     *fetcher.Fetcher
}

func NewBibleAPIProvider(baseURL, translation string, f *fetcher.Fetcher) *BibleAPIProvider {
	return &BibleAPIProvider{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		translation: translation,
		fetcher:     f,
	}
}

func (p *BibleAPIProvider) Name() string { return "bible-api" }

// Resolve only accepts recognisable references; free text would 404 anyway.
func (p *BibleAPIProvider) Resolve(ctx context.Context, query string) ([]models.VerseResult, error) {
	ref, ok := extractor.ParseReference(query)
	if !ok {
		return nil, errNotReference
	}
	return p.fetch(ctx, ref.String(), verseHint{})
}

func (p *BibleAPIProvider) Chapter(ctx context.Context, book string, chapter int) ([]models.VerseResult, error) {
	return p.fetch(ctx, fmt.Sprintf("%s %d", book, chapter), verseHint{Book: book, Chapter: chapter})
}

func (p *BibleAPIProvider) fetch(ctx context.Context, passage string, hint verseHint) ([]models.VerseResult, error) {
	u := fmt.Sprintf("%s/%s", p.baseURL, url.PathEscape(passage))
	if p.translation != "" {
		u += "?translation=" + url.QueryEscape(strings.ToLower(p.translation))
	}

	body, err := p.fetcher.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	return decodeVerses(body, hint)
}

// BollsProvider talks to a bolls.life style service: keyword search with
// highlighted results, and chapters addressed by book number.
type BollsProvider struct {
	baseURL     string
	translation string
	fetcher     *fetcher.Fetcher
	limit       int
}

func NewBollsProvider(baseURL, translation string, f *fetcher.Fetcher) *BollsProvider {
	if translation == "" {
		translation = "KJV"
	}
	return &BollsProvider{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		translation: strings.ToUpper(translation),
		fetcher:     f,
		limit:       10,
	}
}

func (p *BollsProvider) Name() string { return "bolls" }

func (p *BollsProvider) Resolve(ctx context.Context, query string) ([]models.VerseResult, error) {
	return p.Search(ctx, query, p.limit)
}

func (p *BollsProvider) Search(ctx context.Context, query string, limit int) ([]models.VerseResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("empty search query")
	}
	if limit <= 0 {
		limit = p.limit
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("match_case", "false")
	params.Set("match_whole", "false")
	params.Set("limit", fmt.Sprint(limit))
	u := fmt.Sprintf("%s/v2/find/%s?%s", p.baseURL, p.translation, params.Encode())

	body, err := p.fetcher.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	verses, err := decodeVerses(body, verseHint{})
	if err != nil {
		return nil, err
	}
	if len(verses) > limit {
		verses = verses[:limit]
	}
	return verses, nil
}

func (p *BollsProvider) Chapter(ctx context.Context, book string, chapter int) ([]models.VerseResult, error) {
	b, ok := extractor.LookupBook(book)
	if !ok {
		return nil, fmt.Errorf("unknown book %q", book)
	}

	u := fmt.Sprintf("%s/get-text/%s/%d/%d/", p.baseURL, p.translation, b.Number, chapter)
	body, err := p.fetcher.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	return decodeVerses(body, verseHint{Book: b.Name, Chapter: chapter})
}
