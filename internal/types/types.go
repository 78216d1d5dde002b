package types

import (
	"context"

	"github.com/xhad/versewise/internal/models"
)

// Pipeline collaborators. The concrete implementations live under pkg/ and
// every method degrades to an empty result rather than failing.

type VerseResolver interface {
	Resolve(ctx context.Context, query string) []models.VerseResult
}

type ChapterResolver interface {
	ResolveChapter(ctx context.Context, book string, chapter int) models.Chapter
}

type VerseSearcher interface {
	Search(ctx context.Context, query string, limit int) []models.VerseResult
}

// Scripture covers the full resolver surface used by the server and CLI.
type Scripture interface {
	VerseResolver
	ChapterResolver
	VerseSearcher
}

type TermFinder interface {
	FindRelatedTerms(ctx context.Context, text string, limit int) []string
}

type StrongsLookup interface {
	Lookup(ctx context.Context, id string) (*models.StrongsEntry, error)
	LookupAll(ctx context.Context, ids []string) []models.StrongsEntry
}

// Responder always returns text; failures become a fixed fallback reply.
type Responder interface {
	Invoke(ctx context.Context, prompt string) string
}

type ChatStore interface {
	Save(ctx context.Context, msg models.ChatMessage) error
	History(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
	Close()
}
