package report

import (
	"context"
	"fmt"
	"html/template"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/opt-report/internal/highlight"
	"github.com/opt-report/internal/xref"
	apperrors "github.com/opt-report/pkg/errors"
	"github.com/opt-report/pkg/model"
	"github.com/opt-report/pkg/telemetry"
	"github.com/opt-report/pkg/writer"
)

// SourceAssembler renders one annotated listing per source file that has
// located records.
type SourceAssembler struct {
	env *Env
}

// NewSourceAssembler creates a SourceAssembler.
func NewSourceAssembler(env *Env) *SourceAssembler {
	return &SourceAssembler{env: env}
}

// Name implements Assembler.
func (a *SourceAssembler) Name() string { return "source" }

// SourceGroup is the records of one source file in discovery order.
type SourceGroup struct {
	File    string
	Records []*model.Record
}

// GroupBySourceFile groups located records by file, in the order files are
// first seen. Nested records that carry their own location are included
// after their parent, so they get a row at their own line as well as
// appearing in the parent's message block. Unlocated records are skipped.
func GroupBySourceFile(units []*model.TranslationUnit) []SourceGroup {
	var groups []SourceGroup
	index := make(map[string]int)
	add := func(r *model.Record, _ int) {
		if r.Location == nil {
			return
		}
		i, ok := index[r.Location.File]
		if !ok {
			i = len(groups)
			index[r.Location.File] = i
			groups = append(groups, SourceGroup{File: r.Location.File})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	for _, tu := range units {
		for _, r := range tu.Records {
			r.Walk(add)
		}
	}
	return groups
}

// Assemble implements Assembler. Files whose document name is already
// taken by an earlier file are skipped with a warning.
func (a *SourceAssembler) Assemble(ctx context.Context, in *Input) ([]writer.Document, error) {
	groups := GroupBySourceFile(in.Units)

	files := make([]string, 0, len(groups))
	for _, g := range groups {
		files = append(files, g.File)
	}
	collisions := a.env.Resolver.Collisions(files)
	for doc, owners := range collisions {
		a.env.Logger.Warn("Source files %v all map to %s; only %s is rendered", owners, doc, owners[0])
	}

	var kept []SourceGroup
	taken := make(map[string]bool)
	for _, g := range groups {
		name := a.env.Resolver.DocumentFile(g.File)
		if taken[name] {
			continue
		}
		taken[name] = true
		kept = append(kept, g)
	}

	docs := make([]writer.Document, len(kept))
	eg, egCtx := errgroup.WithContext(ctx)
	jobs := a.env.Jobs
	if jobs < 1 {
		jobs = 1
	}
	eg.SetLimit(jobs)
	for i, g := range kept {
		i, g := i, g
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			doc, err := a.renderFile(egCtx, g, in.HighestCount)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

type sourceRecordRow struct {
	Hotness string
	Pass    passCell
	Message template.HTML
	Chain   []chainEntry
}

type sourceLine struct {
	Number  int
	Anchor  string
	Markup  template.HTML
	Records []sourceRecordRow
}

type sourcePage struct {
	page
	Lines []sourceLine
}

// renderFile renders one listing. The collapse counter is local to the
// document, so ids run collapse-0, collapse-1, ... in every file.
func (a *SourceAssembler) renderFile(ctx context.Context, g SourceGroup, highest float64) (writer.Document, error) {
	_, span := telemetry.StartSpan(ctx, "report.source_file", attribute.String("file", g.File))
	doc, err := a.doRenderFile(g, highest)
	telemetry.EndSpan(span, err)
	return doc, err
}

func (a *SourceAssembler) doRenderFile(g SourceGroup, highest float64) (writer.Document, error) {
	logger := a.env.Logger.WithField("file", g.File)

	src, err := a.env.Sources.ReadSource(g.File)
	if err != nil {
		return writer.Document{}, err
	}

	markupLines, err := a.highlight(g.File, src)
	if err != nil {
		return writer.Document{}, err
	}

	byLine := make(map[int][]*model.Record)
	for _, r := range g.Records {
		byLine[r.Location.Line] = append(byLine[r.Location.Line], r)
	}

	nextID := 0
	data := sourcePage{
		page:  page{Title: g.File, Stylesheet: StyleDocument},
		Lines: make([]sourceLine, 0, len(markupLines)),
	}
	for i, markup := range markupLines {
		n := i + 1
		line := sourceLine{Number: n, Anchor: xref.Anchor(n), Markup: template.HTML(markup)}
		for _, r := range byLine[n] {
			row, err := a.recordRow(r, highest, &nextID)
			if err != nil {
				return writer.Document{}, err
			}
			line.Records = append(line.Records, row)
		}
		data.Lines = append(data.Lines, line)
	}

	if orphans := countOrphans(g.Records, len(markupLines)); orphans > 0 {
		logger.Warn("%d records point past the last line (%d)", orphans, len(markupLines))
	}

	content, err := render("source.html", data)
	if err != nil {
		return writer.Document{}, err
	}
	logger.Debug("Rendered %d lines, %d records", len(markupLines), len(g.Records))
	return writer.Document{Name: a.env.Resolver.DocumentFile(g.File), Content: content}, nil
}

// highlight returns one markup string per source line. A highlighter
// failure falls back to plain text; a markup contract violation is fatal.
func (a *SourceAssembler) highlight(file string, src []byte) ([]string, error) {
	markup := ""
	if a.env.Highlighter != nil {
		var err error
		markup, err = a.env.Highlighter.Highlight(file, src)
		if err != nil {
			if !apperrors.IsHighlightError(err) {
				return nil, err
			}
			a.env.Logger.Warn("Highlighting %s failed, rendering plain text: %v", file, err)
			markup = ""
		}
	}
	if markup == "" {
		markup = highlight.Plain(src)
	}

	lines, err := highlight.SplitLines(markup)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return lines, nil
}

func (a *SourceAssembler) recordRow(r *model.Record, highest float64, nextID *int) (sourceRecordRow, error) {
	lines, err := a.env.Flattener.Lines(r)
	if err != nil {
		return sourceRecordRow{}, err
	}

	block, numLines := messageBlock(lines, r.Location.Column)
	msg := template.HTML(block)
	if numLines > a.env.CollapseThreshold {
		msg = collapsible(block, *nextID, numLines)
		*nextID++
	}

	return sourceRecordRow{
		Hotness: hotness(r, highest),
		Pass:    a.env.passCell(r),
		Message: msg,
		Chain:   a.env.chain(r),
	}, nil
}

func countOrphans(records []*model.Record, lines int) int {
	n := 0
	for _, r := range records {
		if r.Location.Line < 1 || r.Location.Line > lines {
			n++
		}
	}
	return n
}
