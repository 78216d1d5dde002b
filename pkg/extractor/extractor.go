// Package extractor finds scripture references and Strong's numbers in free
// text. It does no I/O and never fails: no match is the common case.
package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xhad/versewise/internal/models"
)

var (
	referencePattern = regexp.MustCompile(`(?i)\b(` + bookAlternation() + `)\.?\s*(\d{1,3})(?:\s*:\s*(\d{1,3})[ab]?(?:\s*[-–]\s*(\d{1,3})[ab]?)?)?\b`)

	// Strong's ids are usually written with 3-4 digits, but low numbers such
	// as G26 appear unpadded in most concordances.
	strongsPattern = regexp.MustCompile(`(?i)\b([GH])(\d{1,4})\b`)
)

// bookAlternation joins every book name into one regexp alternation, longest
// first so "Song of Solomon" wins over "Song" and "Philemon" over "Phil".
func bookAlternation() string {
	names := bookNames()
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, strings.ReplaceAll(regexp.QuoteMeta(n), " ", `\s*`))
	}
	return strings.Join(parts, "|")
}

// Extract returns the scripture references and Strong's ids mentioned in
// message, each de-duplicated in order of first appearance.
func Extract(message string) models.Extraction {
	out := models.Extraction{
		ScriptureRefs: []string{},
		StrongsIDs:    []string{},
	}

	seen := make(map[string]bool)
	for _, ref := range References(message) {
		key := ref.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out.ScriptureRefs = append(out.ScriptureRefs, ref.RawText)
	}

	seenIDs := make(map[string]bool)
	for _, m := range strongsPattern.FindAllStringSubmatch(message, -1) {
		id := strings.ToUpper(m[1]) + m[2]
		if seenIDs[id] {
			continue
		}
		seenIDs[id] = true
		out.StrongsIDs = append(out.StrongsIDs, id)
	}

	return out
}

// References returns every scripture reference in message, parsed.
func References(message string) []models.ScriptureReference {
	var refs []models.ScriptureReference
	for _, m := range referencePattern.FindAllStringSubmatch(message, -1) {
		if isCommonWord(m[1]) {
			continue
		}
		refs = append(refs, fromMatch(m))
	}
	return refs
}

// ParseReference parses a single reference such as "1 Cor 13:4-7" or
// "Psalm 23". The second result is false when no book could be recognised.
func ParseReference(raw string) (models.ScriptureReference, bool) {
	m := referencePattern.FindStringSubmatch(raw)
	if m != nil {
		return fromMatch(m), true
	}

	// A bare book name has no chapter to anchor the pattern on.
	if b, ok := LookupBook(raw); ok {
		name := b.Name
		return models.ScriptureReference{RawText: strings.TrimSpace(raw), Book: &name}, true
	}
	return models.ScriptureReference{RawText: raw}, false
}

// isCommonWord reports whether a matched book name is an ordinary lower-case
// word such as "job" or "act" rather than a citation.
func isCommonWord(name string) bool {
	if !commonWords[normalizeBookKey(name)] {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

func fromMatch(m []string) models.ScriptureReference {
	ref := models.ScriptureReference{RawText: strings.TrimSpace(m[0])}

	if b, ok := LookupBook(m[1]); ok {
		name := b.Name
		ref.Book = &name
	}
	ref.Chapter = atoiPtr(m[2])
	ref.Verse = atoiPtr(m[3])
	ref.VerseEnd = atoiPtr(m[4])
	return ref
}

func atoiPtr(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
