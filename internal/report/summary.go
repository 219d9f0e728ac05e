package report

import (
	"context"
	"sort"

	"github.com/opt-report/pkg/model"
	"github.com/opt-report/pkg/writer"
)

// SummaryDocument is the file name of the machine-readable run summary.
const SummaryDocument = "summary.json"

// SummaryAssembler writes the run summary. Register it last: it lists the
// documents produced before it.
type SummaryAssembler struct{}

// NewSummaryAssembler creates a SummaryAssembler.
func NewSummaryAssembler() *SummaryAssembler {
	return &SummaryAssembler{}
}

// Name implements Assembler.
func (a *SummaryAssembler) Name() string { return "summary" }

// Assemble implements Assembler.
func (a *SummaryAssembler) Assemble(_ context.Context, in *Input) ([]writer.Document, error) {
	run := Summarize(in)
	run.Documents = append(run.Documents, SummaryDocument)
	sort.Strings(run.Documents)

	doc, err := writer.NewPrettyJSONWriter[*model.ReportRun]().Document(SummaryDocument, run)
	if err != nil {
		return nil, err
	}
	return []writer.Document{doc}, nil
}

// Summarize builds the run summary of an input. Documents lists
// in.Produced, sorted.
func Summarize(in *Input) *model.ReportRun {
	docs := make([]string, 0, len(in.Produced)+1)
	docs = append(docs, in.Produced...)
	sort.Strings(docs)

	passCounts := in.PassCounts
	if passCounts == nil {
		passCounts = []model.PassCount{}
	}

	return &model.ReportRun{
		RunID:        in.RunID,
		OutputDir:    in.OutputDir,
		Units:        len(in.Units),
		Records:      model.CountRecords(in.Units),
		Purged:       in.Purged,
		Filtered:     in.Filtered,
		HighestCount: in.HighestCount,
		Documents:    docs,
		PassCounts:   passCounts,
		CreatedAt:    in.CreatedAt,
	}
}
