package summarization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	req := BuildRequest("buy milk and call mom")

	assert.Equal(t, "buy milk and call mom", req.Transcript)
	assert.Contains(t, req.Instructions, "max 10 words")
	assert.Contains(t, req.Instructions, "2-4 sentences")
	assert.Contains(t, req.Instructions, "3-7 points")
	assert.Contains(t, req.Instructions, "2-5 tags, lowercase")
	assert.Contains(t, req.Instructions, "Ignore filler")
}

func TestParseResponse(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		summary, err := ParseResponse(`{"title":"Errands","summary":"Do the errands.","keyPoints":["buy milk","call mom"],"tags":["personal"]}`)
		require.NoError(t, err)
		assert.Equal(t, "Errands", summary.Title)
		assert.Equal(t, "Do the errands.", summary.Summary)
		assert.Equal(t, []string{"buy milk", "call mom"}, summary.KeyPoints)
		assert.Equal(t, []string{"personal"}, summary.Tags)
	})

	t.Run("strips json code fences", func(t *testing.T) {
		summary, err := ParseResponse("```json\n{\"title\":\"T\",\"summary\":\"S\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "T", summary.Title)
		assert.Equal(t, "S", summary.Summary)
		assert.Equal(t, []string{}, summary.KeyPoints)
		assert.Equal(t, []string{}, summary.Tags)
	})

	t.Run("strips bare code fences", func(t *testing.T) {
		summary, err := ParseResponse("```\n{\"title\":\"T\",\"summary\":\"S\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "T", summary.Title)
	})

	t.Run("missing title is a parse failure", func(t *testing.T) {
		_, err := ParseResponse(`{"summary":"S"}`)
		assert.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("missing summary is a parse failure", func(t *testing.T) {
		_, err := ParseResponse(`{"title":"T"}`)
		assert.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("malformed JSON is a parse failure", func(t *testing.T) {
		_, err := ParseResponse("not json at all")
		assert.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("empty response is a parse failure", func(t *testing.T) {
		_, err := ParseResponse("   ")
		assert.ErrorIs(t, err, ErrParseFailed)
	})

	t.Run("non-list keyPoints collapse to empty", func(t *testing.T) {
		summary, err := ParseResponse(`{"title":"T","summary":"S","keyPoints":"oops","tags":42}`)
		require.NoError(t, err)
		assert.Equal(t, []string{}, summary.KeyPoints)
		assert.Equal(t, []string{}, summary.Tags)
	})

	t.Run("whitespace-padded fenced response", func(t *testing.T) {
		raw := "  \n```json\n" + `{"title":"T","summary":"S"}` + "\n```  \n"
		summary, err := ParseResponse(raw)
		require.NoError(t, err)
		assert.Equal(t, "T", summary.Title)
	})
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fence without newline", "```{\"a\":1}```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stripCodeFences(tt.in)
			assert.Equal(t, tt.want, strings.TrimSpace(got))
		})
	}
}
