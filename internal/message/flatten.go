// Package message renders record messages as HTML lines or plain text.
package message

import (
	"html"
	"strings"

	apperrors "github.com/opt-report/pkg/errors"
	"github.com/opt-report/pkg/model"
)

// Indent is prefixed to a child's lines once per nesting level.
const Indent = "  "

// Linker resolves the URL of a referenced location.
type Linker interface {
	URL(loc model.Location) string
}

// Flattener renders a record and its children into lines of HTML. It is
// stateless: the same record always yields the same lines.
type Flattener struct {
	linker Linker
}

// NewFlattener creates a Flattener that links references through linker.
func NewFlattener(linker Linker) *Flattener {
	return &Flattener{linker: linker}
}

// Lines returns the record's own message as one or more lines followed by
// the lines of each child, each child line indented by Indent.
func (f *Flattener) Lines(r *model.Record) ([]string, error) {
	own, err := f.itemsHTML(r.Message)
	if err != nil {
		return nil, err
	}
	lines := splitLines(own)
	for _, child := range r.Children {
		childLines, err := f.Lines(child)
		if err != nil {
			return nil, err
		}
		for _, l := range childLines {
			lines = append(lines, Indent+l)
		}
	}
	return lines, nil
}

// HTML returns Lines joined with newlines.
func (f *Flattener) HTML(r *model.Record) (string, error) {
	lines, err := f.Lines(r)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// Summary returns the text shown for a record in the index. A scope
// record with children is summarised by its last child.
func (f *Flattener) Summary(r *model.Record) (string, error) {
	for r.Kind == model.KindScope && len(r.Children) > 0 {
		r = r.Children[len(r.Children)-1]
	}
	return f.HTML(r)
}

func (f *Flattener) itemsHTML(items []model.MessageItem) (string, error) {
	var b strings.Builder
	for i, item := range items {
		switch item.Kind {
		case model.ItemText:
			b.WriteString(html.EscapeString(item.Text))
		case model.ItemExpr, model.ItemStmt, model.ItemSymtab:
			code := "<code>" + html.EscapeString(item.Text) + "</code>"
			if item.Location != nil && f.linker != nil {
				code = `<a href="` + html.EscapeString(f.linker.URL(*item.Location)) + `">` + code + "</a>"
			}
			b.WriteString(code)
		default:
			return "", malformed(i, item)
		}
	}
	return b.String(), nil
}

// PlainText renders items without markup; references render as their text.
func PlainText(items []model.MessageItem) (string, error) {
	var b strings.Builder
	for i, item := range items {
		if item.Kind != model.ItemText && !item.Kind.IsReference() {
			return "", malformed(i, item)
		}
		b.WriteString(item.Text)
	}
	return b.String(), nil
}

func malformed(i int, item model.MessageItem) error {
	return apperrors.Newf(apperrors.CodeMalformedMessage, "message item %d has unknown kind %q", i, string(item.Kind))
}

// splitLines splits on newlines. A trailing newline does not start an
// extra line, and an empty message is still one (empty) line.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
