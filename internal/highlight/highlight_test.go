package highlight

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opt-report/internal/testutil"
	apperrors "github.com/opt-report/pkg/errors"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		markup  string
		want    []string
		wantErr bool
	}{
		{"two lines", MarkupPrefix + "a\nb\n" + MarkupSuffix + "\n", []string{"a", "b"}, false},
		{"no trailing newline", MarkupPrefix + "a" + MarkupSuffix, []string{"a"}, false},
		{"empty", MarkupPrefix + MarkupSuffix + "\n", nil, false},
		{"missing prefix", "<pre>a</pre></div>", nil, true},
		{"missing suffix", MarkupPrefix + "a</pre>", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitLines(tt.markup)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsUnexpectedMarkup(err))
				assert.True(t, apperrors.IsFatal(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlain(t *testing.T) {
	markup := Plain([]byte("if (a < b)\r\n  return;\n"))
	lines, err := SplitLines(markup)
	require.NoError(t, err)
	assert.Equal(t, []string{"if (a &lt; b)", "  return;"}, lines)
}

func TestChroma_Highlight(t *testing.T) {
	h, err := NewChroma("default", 4)
	require.NoError(t, err)

	markup, err := h.Highlight("src/sum.c", []byte(testutil.SampleSource))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(markup, MarkupPrefix))

	lines, err := SplitLines(markup)
	require.NoError(t, err)
	assert.Len(t, lines, strings.Count(testutil.SampleSource, "\n"))
	assert.Contains(t, lines[0], `<span class="kt">int</span>`)
	assert.Contains(t, lines[3], "&lt;")
}

func TestChroma_MultiLineComment(t *testing.T) {
	h, err := NewChroma("default", 0)
	require.NoError(t, err)

	src := "/* one\n   two */\nint x;"
	markup, err := h.Highlight("a.c", []byte(src))
	require.NoError(t, err)

	lines, err := SplitLines(markup)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "two */")
}

func TestChroma_Concurrent(t *testing.T) {
	h, err := NewChroma("monokai", 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, name := range []string{"a.c", "b.cc", "c.c", "d.h"} {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			_, err := h.Highlight(name, []byte(testutil.SampleSource))
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()
}

func TestChroma_StyleDefs(t *testing.T) {
	h, err := NewChroma("no-such-style", 0)
	require.NoError(t, err)

	css, err := h.StyleDefs()
	require.NoError(t, err)
	assert.Contains(t, css, ".chroma")
}
