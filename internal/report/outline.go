package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/opt-report/internal/message"
	"github.com/opt-report/pkg/model"
	"github.com/opt-report/pkg/writer"
)

// OutlineDocument is the file name of the plain-text outline.
const OutlineDocument = "outline.txt"

// OutlineAssembler renders every unit as an org-mode style tree.
type OutlineAssembler struct{}

// NewOutlineAssembler creates an OutlineAssembler.
func NewOutlineAssembler() *OutlineAssembler {
	return &OutlineAssembler{}
}

// Name implements Assembler.
func (a *OutlineAssembler) Name() string { return "outline" }

// Assemble implements Assembler.
func (a *OutlineAssembler) Assemble(_ context.Context, in *Input) ([]writer.Document, error) {
	var b strings.Builder
	if err := WriteOutline(&b, in.Units); err != nil {
		return nil, err
	}
	return []writer.Document{{Name: OutlineDocument, Content: []byte(b.String())}}, nil
}

// WriteOutline writes "* <unit>" headings followed by each record tree,
// top-level records at level 2.
func WriteOutline(w io.Writer, units []*model.TranslationUnit) error {
	for _, tu := range units {
		if _, err := fmt.Fprintf(w, "* %s\n", tu.Filename); err != nil {
			return err
		}
		for _, r := range tu.Records {
			if err := writeOutlineRecord(w, r, 2); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeOutlineRecord(w io.Writer, r *model.Record, level int) error {
	text, err := message.PlainText(r.Message)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("*", level))
	b.WriteString(" ")
	if r.Location != nil {
		b.WriteString(r.Location.String())
		b.WriteString(": ")
	}
	b.WriteString(text)
	if r.Pass != nil {
		fmt.Fprintf(&b, " [pass=%s]", r.Pass.Name)
	}
	if r.Count != nil {
		fmt.Fprintf(&b, " [count(%s)=%d]", r.Count.Quality, int64(r.Count.Value))
	}
	b.WriteString("\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	for _, child := range r.Children {
		if err := writeOutlineRecord(w, child, level+1); err != nil {
			return err
		}
	}
	return nil
}
