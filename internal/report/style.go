package report

import (
	"context"

	"github.com/opt-report/pkg/writer"
)

// StyleDocument is the file name of the highlighter style sheet.
const StyleDocument = "style.css"

// StyleAssembler emits the highlighter's style definitions verbatim.
type StyleAssembler struct {
	env *Env
}

// NewStyleAssembler creates a StyleAssembler.
func NewStyleAssembler(env *Env) *StyleAssembler {
	return &StyleAssembler{env: env}
}

// Name implements Assembler.
func (a *StyleAssembler) Name() string { return "style" }

// Assemble implements Assembler. Without a highlighter the sheet is empty.
func (a *StyleAssembler) Assemble(_ context.Context, _ *Input) ([]writer.Document, error) {
	css := ""
	if a.env.Highlighter != nil {
		var err error
		if css, err = a.env.Highlighter.StyleDefs(); err != nil {
			return nil, err
		}
	}
	return []writer.Document{{Name: StyleDocument, Content: []byte(css)}}, nil
}
