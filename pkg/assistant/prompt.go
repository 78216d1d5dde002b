package assistant

import (
	"fmt"
	"strings"

	"github.com/xhad/versewise/internal/models"
)

// MaxContextVerses bounds the scripture citations placed in the context.
const MaxContextVerses = 3

// Persona is the fixed style and stance prefix of every prompt.
const Persona = `You are VerseWise, a warm and knowledgeable Bible study companion. You help people read scripture carefully, understand it in its historical and literary context, and apply it thoughtfully to their lives.

Guidelines:
- Ground every answer in the scripture and word studies provided below the question whenever they are present, and cite passages by book, chapter and verse.
- When the original Greek or Hebrew is supplied, explain what the word meant to its first readers before drawing application.
- Represent mainstream historic Christian interpretation fairly. Where faithful traditions disagree, say so briefly and describe the main views without taking sides.
- Do not invent verses, quotations or word meanings. If you are unsure, say that you are unsure.
- Be pastoral and encouraging, never preachy or condescending.
- Keep answers focused: a few short paragraphs unless the question calls for more.
- Write in plain text only. Do not use markdown, headings, bullet symbols, bold or italics.`

// BuildPrompt joins the persona, the user's question and, when present, the
// grounding context.
func BuildPrompt(message, context string) string {
	var sb strings.Builder
	sb.WriteString(Persona)
	sb.WriteString("\n\nUser Question: ")
	sb.WriteString(message)
	if context != "" {
		sb.WriteString("\n\n")
		sb.WriteString(context)
	}
	return sb.String()
}

// AssembleContext renders the resolved material under fixed section headers.
// It returns "" when there is nothing to report.
func AssembleContext(verses []models.VerseResult, terms []string, strongs []models.StrongsEntry) string {
	var sections []string

	if len(verses) > 0 {
		lines := []string{"Referenced Scripture:"}
		for i, v := range verses {
			if i == MaxContextVerses {
				break
			}
			lines = append(lines, fmt.Sprintf("%s - \"%s\"", v.Citation(), v.Text))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(terms) > 0 {
		sections = append(sections, "Related Biblical Terms: "+strings.Join(terms, ", "))
	}

	for _, entry := range strongs {
		sections = append(sections, strings.Join([]string{
			fmt.Sprintf("Strong's %s:", entry.Number),
			"Original Word: " + orNA(entry.OriginalWord),
			"Transliteration: " + orNA(entry.Transliteration),
			"Definition: " + orNA(entry.Definition),
			"KJV Translations: " + orNA(strings.Join(entry.Translations, ", ")),
		}, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
