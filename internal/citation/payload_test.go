package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaenox/chatlog-analytics/internal/models"
)

func TestParseCitations(t *testing.T) {
	p := Parse(`{"citations":[
		{"title":"Lost Property Office","content":"Open 9-5","url":"https://example.org/lost"},
		{"content":"untitled body"},
		{"title":"","content":"empty title kept"}
	]}`)

	require.False(t, p.IsOpaque())
	require.Len(t, p.Citations, 3)

	assert.Equal(t, "Lost Property Office", p.Citations[0].Title)
	assert.True(t, p.Citations[0].Clickable())
	assert.Equal(t, models.DefaultCitationTitle, p.Citations[1].Title)
	assert.False(t, p.Citations[1].Clickable())
	assert.Equal(t, "", p.Citations[2].Title)
	assert.Equal(t, p.Citations, p.Entries())
}

func TestParseCitationFieldTypes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Citation
	}{
		{
			name:    "numeric content",
			content: `{"citations":[{"title":"Lost Property Office","content":42}]}`,
			want:    models.Citation{Title: "Lost Property Office", Content: "42"},
		},
		{
			name:    "numeric title",
			content: `{"citations":[{"title":101,"content":"Non-emergency number"}]}`,
			want:    models.Citation{Title: "101", Content: "Non-emergency number"},
		},
		{
			name:    "null title falls back",
			content: `{"citations":[{"title":null,"url":"https://example.org/a"}]}`,
			want:    models.Citation{Title: models.DefaultCitationTitle, URL: "https://example.org/a"},
		},
		{
			name:    "structured content kept as json",
			content: `{"citations":[{"title":"x","content":{"page": 3},"url":false}]}`,
			want:    models.Citation{Title: "x", Content: `{"page":3}`, URL: "false"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.content)
			require.False(t, p.IsOpaque())
			assert.Equal(t, []models.Citation{tt.want}, p.Citations)
		})
	}
}

func TestParseOpaque(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: "{not json"},
		{name: "plain text", content: "searched the knowledge base"},
		{name: "array", content: `[{"title":"x"}]`},
		{name: "null", content: "null"},
		{name: "no citations key", content: `{"results":[]}`},
		{name: "empty citations", content: `{"citations":[]}`},
		{name: "citations not a list", content: `{"citations":"none"}`},
		{name: "element not an object", content: `{"citations":["x"]}`},
		{name: "null element", content: `{"citations":[null]}`},
		{name: "one bad element spoils the list", content: `{"citations":[{"title":"x"},7]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(tt.content)
			assert.True(t, p.IsOpaque())
			assert.Empty(t, p.Citations)

			entries := p.Entries()
			require.Len(t, entries, 1)
			assert.True(t, entries[0].Opaque)
			assert.Empty(t, entries[0].Title)
			assert.Equal(t, tt.content, entries[0].Content)
		})
	}
}
