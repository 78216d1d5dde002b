// Package assistant answers a user message by grounding it in scripture and
// word studies before asking the model.
package assistant

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xhad/versewise/internal/metrics"
	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/internal/types"
	"github.com/xhad/versewise/pkg/extractor"
	"github.com/xhad/versewise/pkg/lexicon"
)

type Assistant struct {
	verses    types.VerseResolver
	terms     types.TermFinder
	strongs   types.StrongsLookup
	responder types.Responder
	store     types.ChatStore
	logger    *zap.Logger
	now       func() time.Time
}

type Option func(*Assistant)

func WithLogger(logger *zap.Logger) Option {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// WithStore persists every chat exchange.
func WithStore(store types.ChatStore) Option {
	return func(a *Assistant) {
		a.store = store
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Assistant) {
		a.now = now
	}
}

func New(verses types.VerseResolver, terms types.TermFinder, strongs types.StrongsLookup,
	responder types.Responder, opts ...Option) *Assistant {
	a := &Assistant{
		verses:    verses,
		terms:     terms,
		strongs:   strongs,
		responder: responder,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Grounding is the material gathered for one message.
type Grounding struct {
	Extraction models.Extraction
	Verses     []models.VerseResult
	Terms      []string
	Strongs    []models.StrongsEntry
	Context    string
}

// Ground runs extraction and every lookup for message, in order: references,
// semantic terms, then Strong's entries. Lookups never fail; a source that
// yields nothing contributes nothing.
func (a *Assistant) Ground(ctx context.Context, message string) Grounding {
	g := Grounding{Extraction: extractor.Extract(message)}

	g.Verses = []models.VerseResult{}
	for _, ref := range g.Extraction.ScriptureRefs {
		if len(g.Verses) >= MaxContextVerses {
			break
		}
		g.Verses = append(g.Verses, a.verses.Resolve(ctx, ref)...)
	}
	if len(g.Verses) > MaxContextVerses {
		g.Verses = g.Verses[:MaxContextVerses]
	}

	if len(g.Verses) > 0 {
		// The question stays in the anchored text so its own keywords still
		// reach the matcher.
		texts := make([]string, 0, len(g.Verses)+1)
		texts = append(texts, message)
		for _, v := range g.Verses {
			texts = append(texts, v.Text)
		}
		g.Terms = a.terms.FindRelatedTerms(ctx, strings.Join(texts, " "), lexicon.AnchoredTermLimit)
	} else {
		g.Terms = a.terms.FindRelatedTerms(ctx, message, lexicon.GeneralTermLimit)
	}

	g.Strongs = []models.StrongsEntry{}
	if len(g.Extraction.StrongsIDs) > 0 {
		g.Strongs = a.strongs.LookupAll(ctx, g.Extraction.StrongsIDs)
	}

	g.Context = AssembleContext(g.Verses, g.Terms, g.Strongs)
	a.logger.Debug("Grounded message",
		zap.Strings("refs", g.Extraction.ScriptureRefs),
		zap.Strings("strongs", g.Extraction.StrongsIDs),
		zap.Int("verses", len(g.Verses)),
		zap.Int("terms", len(g.Terms)),
		zap.Int("entries", len(g.Strongs)))
	return g
}

// Answer returns the model's reply to message, or the fixed fallback reply
// when the model is unavailable. It never fails.
func (a *Assistant) Answer(ctx context.Context, message string) string {
	g := a.Ground(ctx, message)
	metrics.Answers.WithLabelValues(strconv.FormatBool(g.Context != "")).Inc()
	return a.responder.Invoke(ctx, BuildPrompt(message, g.Context))
}

// Chat answers message on behalf of principal and persists the exchange when
// a store is configured. The returned message always carries the reply; the
// error only reports a persistence failure.
func (a *Assistant) Chat(ctx context.Context, principal models.Principal, message string) (models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    principal.UserID,
		Message:   message,
		Response:  a.Answer(ctx, message),
		Timestamp: a.now().UTC(),
	}

	if a.store == nil {
		return msg, nil
	}
	if err := a.store.Save(ctx, msg); err != nil {
		a.logger.Error("Failed to save chat message",
			zap.String("id", msg.ID),
			zap.String("user", msg.UserID),
			zap.Error(err))
		return msg, err
	}
	return msg, nil
}

// History returns the principal's most recent exchanges, newest first.
func (a *Assistant) History(ctx context.Context, principal models.Principal, limit int) ([]models.ChatMessage, error) {
	if a.store == nil {
		return nil, ErrNoStore
	}
	return a.store.History(ctx, principal.UserID, limit)
}
