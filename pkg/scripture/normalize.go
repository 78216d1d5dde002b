package scripture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xhad/versewise/internal/models"
	"github.com/xhad/versewise/pkg/extractor"
	"github.com/xhad/versewise/pkg/fetcher"
)

const unknownBook = "Unknown"

var errEmptyBody = errors.New("empty response body")

// looseInt accepts a JSON number or a numeric string.
type looseInt struct {
	n  int
	ok bool
}

func (l *looseInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Garbage in a numeric field is treated as missing.
		return nil
	}
	l.n, l.ok = n, true
	return nil
}

// looseBook accepts a book name or a 1-based book number.
type looseBook string

func (l *looseBook) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*l = looseBook(canonicalBook(s))
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return nil
	}
	if b, ok := extractor.BookByNumber(n); ok {
		*l = looseBook(b.Name)
	}
	return nil
}

type rawVerse struct {
	BookName string    `json:"book_name"`
	Book     looseBook `json:"book"`
	Chapter  looseInt  `json:"chapter"`
	Verse    looseInt  `json:"verse"`
	Text     string    `json:"text"`
}

// verseHint supplies the book and chapter a chapter-oriented provider was
// asked for, since those responses usually only carry verse numbers.
type verseHint struct {
	Book    string
	Chapter int
}

// decodeVerses maps any of the provider response shapes onto VerseResult:
// {"verses": [...]}, {"results": [...]}, a bare array, or one verse object.
func decodeVerses(body []byte, hint verseHint) ([]models.VerseResult, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errEmptyBody
	}

	var raws []rawVerse
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, fmt.Errorf("failed to decode verse list: %w", err)
		}
	case '{':
		var envelope struct {
			Verses  []rawVerse `json:"verses"`
			Results []rawVerse `json:"results"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to decode verse envelope: %w", err)
		}
		switch {
		case len(envelope.Verses) > 0:
			raws = envelope.Verses
		case len(envelope.Results) > 0:
			raws = envelope.Results
		default:
			var single rawVerse
			if err := json.Unmarshal(body, &single); err != nil {
				return nil, fmt.Errorf("failed to decode verse: %w", err)
			}
			if single.Text != "" {
				raws = []rawVerse{single}
			}
		}
	default:
		return nil, fmt.Errorf("unexpected response body starting with %q", body[0])
	}

	verses := make([]models.VerseResult, 0, len(raws))
	for _, raw := range raws {
		if v, ok := toVerseResult(raw, hint); ok {
			verses = append(verses, v)
		}
	}
	return verses, nil
}

// toVerseResult fills gaps with the hint first and then with the "Unknown",
// 1, 1 defaults, marking the result partial in the latter case. Entries
// without text carry nothing worth citing and are dropped.
func toVerseResult(raw rawVerse, hint verseHint) (models.VerseResult, bool) {
	text := fetcher.StripMarkup(raw.Text)
	if text == "" {
		return models.VerseResult{}, false
	}

	v := models.VerseResult{Text: text}

	switch {
	case raw.BookName != "":
		v.Book = canonicalBook(raw.BookName)
	case raw.Book != "":
		v.Book = string(raw.Book)
	case hint.Book != "":
		v.Book = hint.Book
	default:
		v.Book = unknownBook
		v.Partial = true
	}

	switch {
	case raw.Chapter.ok:
		v.Chapter = raw.Chapter.n
	case hint.Chapter > 0:
		v.Chapter = hint.Chapter
	default:
		v.Chapter = 1
		v.Partial = true
	}

	if raw.Verse.ok {
		v.Verse = raw.Verse.n
	} else {
		v.Verse = 1
		v.Partial = true
	}

	return v, true
}

func canonicalBook(name string) string {
	if b, ok := extractor.LookupBook(name); ok {
		return b.Name
	}
	return strings.TrimSpace(name)
}
