// Package highlight turns source text into per-line HTML markup.
package highlight

import (
	"html"
	"strings"

	apperrors "github.com/opt-report/pkg/errors"
)

// Markup produced by a Highlighter is a single block wrapped in these
// delimiters, one source line per markup line.
const (
	MarkupPrefix = `<div class="highlight"><pre>`
	MarkupSuffix = `</pre></div>`
)

// Highlighter renders source files and the style sheet their markup needs.
type Highlighter interface {
	// Highlight renders src, named filename, as one markup block.
	Highlight(filename string, src []byte) (string, error)

	// StyleDefs returns the CSS used by the markup.
	StyleDefs() (string, error)
}

// SplitLines strips the markup delimiters and returns one string per
// source line. Markup without the expected delimiters is rejected.
func SplitLines(markup string) ([]string, error) {
	body := strings.TrimSuffix(markup, "\n")
	if !strings.HasPrefix(body, MarkupPrefix) {
		return nil, apperrors.Newf(apperrors.CodeUnexpectedMarkup, "markup does not start with %q", MarkupPrefix)
	}
	body = body[len(MarkupPrefix):]
	if !strings.HasSuffix(body, MarkupSuffix) {
		return nil, apperrors.Newf(apperrors.CodeUnexpectedMarkup, "markup does not end with %q", MarkupSuffix)
	}
	body = body[:len(body)-len(MarkupSuffix)]
	if body == "" {
		return nil, nil
	}
	return strings.Split(strings.TrimSuffix(body, "\n"), "\n"), nil
}

// Plain renders src as escaped text inside the markup delimiters. It is
// the fallback when highlighting fails.
func Plain(src []byte) string {
	var b strings.Builder
	b.WriteString(MarkupPrefix)
	for _, line := range sourceLines(string(src)) {
		b.WriteString(html.EscapeString(line))
		b.WriteString("\n")
	}
	b.WriteString(MarkupSuffix)
	b.WriteString("\n")
	return b.String()
}

func sourceLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if src == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(src, "\n"), "\n")
}
