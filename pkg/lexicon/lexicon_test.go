package lexicon_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/versewise/pkg/lexicon"
	"github.com/xhad/versewise/pkg/processor"
)

var vocabulary = []string{
	"Love", "Agape", "Faith", "Grace", "Righteousness", "Loving-kindness",
	"Redemption", "Covenant", "Justification", "love", "Forgiveness",
}

func TestMatchTerms(t *testing.T) {
	p := processor.New()

	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{"term inside text", "Is grace enough?", 5, []string{"Grace"}},
		{"term inside plural", "Tell me about the covenants of old", 5, []string{"Covenant"}},
		{"near miss", "What does justify mean?", 5, []string{}},
		{"text inside term", "righteous", 5, []string{"Righteousness"}},
		{"token inside compound term", "God is love and kindness", 5, []string{"Love", "Loving-kindness"}},
		{"limit applies in provider order", "love faith grace redemption covenant forgiveness", 3, []string{"Love", "Faith", "Grace"}},
		{"no match", "weather tomorrow", 5, []string{}},
		{"zero limit", "grace", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lexicon.MatchTerms(p, vocabulary, tt.text, tt.limit))
		})
	}
}

func TestFindRelatedTerms(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "lexicon-key", r.Header.Get("X-API-Key"))
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`["Faith","Hope","Love","Charity"]`))
	}))
	defer server.Close()

	m := lexicon.NewTermMatcher(lexicon.TermMatcherConfig{URL: server.URL, APIKey: "lexicon-key"})
	terms := m.FindRelatedTerms(context.Background(), "faith, hope and love", lexicon.GeneralTermLimit)
	assert.Equal(t, []string{"Faith", "Hope", "Love"}, terms)
}

func TestFindRelatedTermsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"terms":["Atonement","Sabbath"]}`))
	}))
	defer server.Close()

	m := lexicon.NewTermMatcher(lexicon.TermMatcherConfig{URL: server.URL})
	assert.Equal(t, []string{"Sabbath"}, m.FindRelatedTerms(context.Background(), "keeping the sabbath", 5))
}

func TestFindRelatedTermsProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	m := lexicon.NewTermMatcher(lexicon.TermMatcherConfig{URL: server.URL})
	terms := m.FindRelatedTerms(context.Background(), "grace", 5)
	require.NotNil(t, terms)
	assert.Empty(t, terms)
}

func TestFindRelatedTermsUnconfigured(t *testing.T) {
	m := lexicon.NewTermMatcher(lexicon.TermMatcherConfig{})
	assert.Empty(t, m.FindRelatedTerms(context.Background(), "grace", 5))
}

func TestConcordanceLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/G26":
			w.Write([]byte(`{"strongs":"G26","lemma":"ἀγάπη","xlit":"agápē","pron":"ag-ah'-pay",
				"strongs_def":"love, i.e. <i>affection</i> or benevolence","kjv_def":"(feast of) charity, dear, love"}`))
		case "/H430":
			w.Write([]byte(`{"number":"H430","originalWord":"אֱלֹהִים","definition":"God","translations":["God","gods","judges"]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := lexicon.NewConcordance(lexicon.ConcordanceConfig{BaseURL: server.URL})

	entry, err := c.Lookup(context.Background(), "g26")
	require.NoError(t, err)
	assert.Equal(t, "G26", entry.Number)
	assert.Equal(t, "ἀγάπη", entry.OriginalWord)
	assert.Equal(t, "agápē", entry.Transliteration)
	assert.Equal(t, "ag-ah'-pay", entry.Pronunciation)
	assert.Equal(t, "love, i.e. affection or benevolence", entry.Definition)
	assert.Equal(t, []string{"(feast of) charity", "dear", "love"}, entry.Translations)

	entry, err = c.Lookup(context.Background(), "H430")
	require.NoError(t, err)
	assert.Equal(t, []string{"God", "gods", "judges"}, entry.Translations)
	assert.Empty(t, entry.Transliteration)

	_, err = c.Lookup(context.Background(), "G9999")
	assert.Error(t, err)
}

func TestConcordanceLookupEmptyEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number":"G1"}`))
	}))
	defer server.Close()

	c := lexicon.NewConcordance(lexicon.ConcordanceConfig{BaseURL: server.URL})
	_, err := c.Lookup(context.Background(), "G1")
	assert.ErrorIs(t, err, lexicon.ErrEmptyEntry)
}

func TestConcordanceLookupAllCapsAndSkips(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/H2" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"lemma":"word","strongs_def":"definition"}`))
	}))
	defer server.Close()

	c := lexicon.NewConcordance(lexicon.ConcordanceConfig{BaseURL: server.URL})
	entries := c.LookupAll(context.Background(), []string{"H1", "H2", "H3", "H4", "H5"})

	assert.Equal(t, int32(lexicon.MaxStrongsLookups), atomic.LoadInt32(&hits))
	require.Len(t, entries, 2)
	assert.Equal(t, "H1", entries[0].Number)
	assert.Equal(t, "H3", entries[1].Number)
	assert.NotNil(t, entries[0].Translations)
}
