package processor

import (
	"strings"
	"unicode"
)

type ProcessorConfig struct {
	MinTokenLength  int
	RemoveStopwords bool
	CustomStopwords []string
}

// Processor normalizes user text into lower-case content tokens for term
// matching.
type Processor struct {
	config    ProcessorConfig
	stopwords map[string]bool
}

func NewWithConfig(config ProcessorConfig) Processor {
	if config.MinTokenLength == 0 {
		config.MinTokenLength = 3
	}

	stopwords := make(map[string]bool)
	if config.RemoveStopwords {
		for _, w := range getStopwords() {
			stopwords[w] = true
		}
		for _, w := range config.CustomStopwords {
			stopwords[strings.ToLower(w)] = true
		}
	}

	return Processor{
		config:    config,
		stopwords: stopwords,
	}
}

func New() Processor {
	return NewWithConfig(ProcessorConfig{RemoveStopwords: true})
}

// CleanText lower-cases text and collapses whitespace.
func (p *Processor) CleanText(text string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(strings.ToLower(text)), " "))
}

// Tokens splits text into distinct content words in order of appearance.
func (p *Processor) Tokens(text string) []string {
	words := strings.FieldsFunc(p.CleanText(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	seen := make(map[string]bool)
	var tokens []string
	for _, word := range words {
		word = strings.Trim(word, "'")
		if len([]rune(word)) < p.config.MinTokenLength || p.stopwords[word] || seen[word] {
			continue
		}
		seen[word] = true
		tokens = append(tokens, word)
	}
	return tokens
}

// Common English stopwords plus the question words users wrap around a
// topic ("what does the bible say about ...").
func getStopwords() []string {
	return []string{
		"a", "an", "and", "are", "as", "at", "be", "by", "for",
		"from", "has", "he", "in", "is", "it", "its", "of", "on",
		"that", "the", "to", "was", "were", "will", "with",
		"about", "does", "did", "how", "what", "when", "where", "which",
		"who", "why", "mean", "means", "say", "says", "tell", "explain",
		"this", "these", "those", "there", "can", "could", "should", "would",
		"you", "your", "me", "my", "our", "please", "bible", "verse",
	}
}
