package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/opt-report/internal/statistics"
	"github.com/opt-report/pkg/model"
)

// Background colours of summary and pass cells.
const (
	colorSuccess = "lightgreen"
	colorFailure = "lightcoral"
)

type passCell struct {
	Name  string
	URL   string
	Color string
}

type chainEntry struct {
	Function string
	Inlined  bool
	Site     string
	SiteURL  string
}

func (e *Env) color(r *model.Record) string {
	switch e.Classifier.Classify(r) {
	case model.OutcomeSuccess:
		return colorSuccess
	case model.OutcomeFailure:
		return colorFailure
	default:
		return ""
	}
}

func (e *Env) passCell(r *model.Record) passCell {
	cell := passCell{Name: r.PassName(), Color: e.color(r)}
	sb := e.SourceBrowser
	if impl := r.ImplLocation; impl != nil && sb.Prefix != "" && sb.URLFormat != "" && strings.HasPrefix(impl.File, sb.Prefix) {
		cell.URL = fmt.Sprintf(sb.URLFormat, strings.TrimPrefix(impl.File, sb.Prefix), impl.Line)
	}
	return cell
}

func (e *Env) chain(r *model.Record) []chainEntry {
	entries := make([]chainEntry, 0, len(r.InliningChain))
	for i, frame := range r.InliningChain {
		entry := chainEntry{Function: frame.Function, Inlined: i > 0}
		if frame.Site != nil {
			entry.Site = frame.Site.String()
			entry.SiteURL = e.Resolver.URL(*frame.Site)
		}
		entries = append(entries, entry)
	}
	return entries
}

func hotness(r *model.Record, highest float64) string {
	return statistics.FormatHotness(r, highest)
}

// messageBlock lays out flattened message lines under a caret at the
// record's column. It returns the block and its newline count.
func messageBlock(lines []string, column int) (string, int) {
	if column < 1 {
		column = 1
	}
	indent := strings.Repeat(" ", column-1)
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(`<span style="color:green;">^</span>`)
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
		b.WriteString(indent)
	}
	s := b.String()
	return s, strings.Count(s, "\n")
}

// collapsible wraps a block in a toggle button and a collapsed section.
func collapsible(block string, id, numLines int) template.HTML {
	return template.HTML(fmt.Sprintf(`<button class="btn btn-primary" type="button" data-toggle="collapse" data-target="#collapse-%d" aria-expanded="false" aria-controls="collapse-%d">
    Toggle messages <span class="badge badge-light">%d</span>
  </button>
<div class="collapse" id="collapse-%d">%s</div>`, id, id, numLines, id, block))
}
