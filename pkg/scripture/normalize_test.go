package scripture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/versewise/internal/models"
)

func TestDecodeVerses(t *testing.T) {
	tests := []struct {
		name string
		body string
		hint verseHint
		want []models.VerseResult
	}{
		{
			name: "verses envelope",
			body: `{"verses":[{"book_name":"John","chapter":3,"verse":16,"text":"For God so loved the world\n"}]}`,
			want: []models.VerseResult{{Book: "John", Chapter: 3, Verse: 16, Text: "For God so loved the world"}},
		},
		{
			name: "numeric book and string numbers",
			body: `[{"book":1,"chapter":"1","verse":"1","text":"In the beginning"}]`,
			want: []models.VerseResult{{Book: "Genesis", Chapter: 1, Verse: 1, Text: "In the beginning"}},
		},
		{
			name: "abbreviated book name",
			body: `{"book":"Rom","chapter":12,"verse":2,"text":"be ye transformed"}`,
			want: []models.VerseResult{{Book: "Romans", Chapter: 12, Verse: 2, Text: "be ye transformed"}},
		},
		{
			name: "hint fills chapter fields",
			body: `[{"pk":9,"verse":4,"text":"Rejoice in the Lord alway"}]`,
			hint: verseHint{Book: "Philippians", Chapter: 4},
			want: []models.VerseResult{{Book: "Philippians", Chapter: 4, Verse: 4, Text: "Rejoice in the Lord alway"}},
		},
		{
			name: "garbage numbers default and mark partial",
			body: `[{"book_name":"Mark","chapter":"one","text":"The beginning of the gospel"}]`,
			want: []models.VerseResult{{Book: "Mark", Chapter: 1, Verse: 1, Text: "The beginning of the gospel", Partial: true}},
		},
		{
			name: "entries without text are dropped",
			body: `[{"book":43,"chapter":1,"verse":1,"text":""},{"book":43,"chapter":1,"verse":2,"text":"<b>The same</b>"}]`,
			want: []models.VerseResult{{Book: "John", Chapter: 1, Verse: 2, Text: "The same"}},
		},
		{
			name: "empty envelope",
			body: `{"error":"not found"}`,
			want: []models.VerseResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeVerses([]byte(tt.body), tt.hint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeVersesMalformed(t *testing.T) {
	for _, body := range []string{"", "   ", "<html></html>", `{"verses":"nope"}`, `[1,2`} {
		_, err := decodeVerses([]byte(body), verseHint{})
		assert.Error(t, err, body)
	}
}
