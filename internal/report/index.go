package report

import (
	"context"
	"html/template"

	"github.com/opt-report/pkg/writer"
)

// IndexDocument is the file name of the ranked index.
const IndexDocument = "index.html"

// IndexAssembler renders the table of every record, hottest first.
type IndexAssembler struct {
	env *Env
}

// NewIndexAssembler creates an IndexAssembler.
func NewIndexAssembler(env *Env) *IndexAssembler {
	return &IndexAssembler{env: env}
}

// Name implements Assembler.
func (a *IndexAssembler) Name() string { return "index" }

type indexRow struct {
	Summary     template.HTML
	Color       string
	Location    string
	LocationURL string
	Hotness     string
	Chain       []chainEntry
	Pass        passCell
}

type indexPage struct {
	page
	Rows []indexRow
}

// Assemble implements Assembler.
func (a *IndexAssembler) Assemble(ctx context.Context, in *Input) ([]writer.Document, error) {
	data := indexPage{
		page: page{Title: "Optimizations"},
		Rows: make([]indexRow, 0, len(in.Ranked)),
	}

	for _, r := range in.Ranked {
		summary, err := a.env.Flattener.Summary(r)
		if err != nil {
			return nil, err
		}
		row := indexRow{
			Summary: template.HTML(summary),
			Color:   a.env.color(r),
			Hotness: hotness(r, in.HighestCount),
			Chain:   a.env.chain(r),
			Pass:    a.env.passCell(r),
		}
		if r.Location != nil {
			row.Location = r.Location.String()
			row.LocationURL = a.env.Resolver.URL(*r.Location)
		}
		data.Rows = append(data.Rows, row)
	}

	content, err := render("index.html", data)
	if err != nil {
		return nil, err
	}
	return []writer.Document{{Name: IndexDocument, Content: content}}, nil
}
