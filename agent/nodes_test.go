package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-agent/search"
)

func TestParseQueries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "json array",
			raw:  `["a", "b", "c"]`,
			want: []string{"a", "b", "c"},
		},
		{
			name: "wrapped object",
			raw:  `{"queries": ["x", "y"]}`,
			want: []string{"x", "y"},
		},
		{
			name: "object without queries field",
			raw:  `{"something": 1}`,
			want: nil,
		},
		{
			name: "fenced json",
			raw:  "```json\n[\"a\"]\n```",
			want: []string{"a"},
		},
		{
			name: "plain text lines",
			raw:  "first query\n\n  second query  \n",
			want: []string{"first query", "second query"},
		},
		{
			name: "array capped at five",
			raw:  `["1","2","3","4","5","6","7"]`,
			want: []string{"1", "2", "3", "4", "5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := parseQueries(tt.raw)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMergeDocumentsDedupAndCap(t *testing.T) {
	t.Parallel()

	lists := [][]search.Document{
		{
			{Content: "old", URL: "https://example.com/dup"},
			{Content: "a", URL: "https://example.com/a"},
		},
		{
			{Content: "new", URL: "https://example.com/dup"},
			{Content: "b", URL: "https://example.com/b"},
			{Content: "c", URL: "https://example.com/c"},
			{Content: "d", URL: "https://example.com/d"},
			{Content: "e", URL: "https://example.com/e"},
		},
	}

	merged := mergeDocuments(lists)

	assert.LessOrEqual(t, len(merged), maxDocuments)

	seen := map[string]bool{}
	for _, d := range merged {
		assert.False(t, seen[d.URL], "duplicate url %s", d.URL)
		seen[d.URL] = true
	}

	// Last write wins, at the first-seen position.
	require.Equal(t, "https://example.com/dup", merged[0].URL)
	assert.Equal(t, "new", merged[0].Content)
}

func TestTruncateBoundsReflectContext(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", maxContextChars+100)
	assert.Len(t, truncate(long, maxContextChars), maxContextChars)
	assert.Equal(t, "short", truncate("short", maxContextChars))
}

func TestStripRoleLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "answer", stripRoleLabels("Human: answer"))
	assert.Equal(t, "answer", stripRoleLabels("Assistant:  answer "))
	assert.Equal(t, "answer", stripRoleLabels("answer"))
	assert.Equal(t, "answer", stripRoleLabels("Assistant: Human: answer"))
}
