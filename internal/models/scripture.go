package models

import (
	"fmt"
	"strings"
	"time"
)

// ScriptureReference is a book/chapter/verse locator found in free text.
// Nil fields were not present in the text.
type ScriptureReference struct {
	RawText  string
	Book     *string
	Chapter  *int
	Verse    *int
	VerseEnd *int
}

// String renders the reference in canonical "Book C:V-E" form, falling back
// to the raw text when the book is unknown.
func (r ScriptureReference) String() string {
	if r.Book == nil {
		return r.RawText
	}

	var sb strings.Builder
	sb.WriteString(*r.Book)
	if r.Chapter != nil {
		fmt.Fprintf(&sb, " %d", *r.Chapter)
		if r.Verse != nil {
			fmt.Fprintf(&sb, ":%d", *r.Verse)
			if r.VerseEnd != nil {
				fmt.Fprintf(&sb, "-%d", *r.VerseEnd)
			}
		}
	}
	return sb.String()
}

// VerseResult is the normalized shape every scripture provider maps into.
// Partial is set when Book, Chapter or Verse had to be defaulted because the
// provider left them out.
type VerseResult struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Text    string `json:"text"`
	Partial bool   `json:"partial,omitempty"`
}

// Citation formats the verse locator. Partial results are flagged so the
// model does not quote defaulted numbers as fact.
func (v VerseResult) Citation() string {
	c := fmt.Sprintf("%s %d:%d", v.Book, v.Chapter, v.Verse)
	if v.Partial {
		c += " (approximate)"
	}
	return c
}

type Chapter struct {
	Book    string        `json:"book"`
	Chapter int           `json:"chapter"`
	Verses  []VerseResult `json:"verses"`
}

// StrongsEntry holds original-language word data for one Strong's number.
type StrongsEntry struct {
	Number          string   `json:"number"`
	OriginalWord    string   `json:"original_word"`
	Transliteration string   `json:"transliteration"`
	Pronunciation   string   `json:"pronunciation"`
	Definition      string   `json:"definition"`
	Translations    []string `json:"translations"`
}

type Extraction struct {
	ScriptureRefs []string `json:"scripture_refs"`
	StrongsIDs    []string `json:"strongs_ids"`
}

// Principal identifies the caller a chat message belongs to.
type Principal struct {
	UserID string
}

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}
