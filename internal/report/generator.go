package report

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/opt-report/internal/statistics"
	"github.com/opt-report/pkg/model"
	"github.com/opt-report/pkg/telemetry"
	"github.com/opt-report/pkg/utils"
	"github.com/opt-report/pkg/writer"
)

// Generator runs the assemblers of a registry over one prepared input.
type Generator struct {
	registry *Registry
	logger   utils.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(registry *Registry, logger utils.Logger) *Generator {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	return &Generator{registry: registry, logger: logger}
}

// Prepare normalises counts, then ranks the surviving records. It runs
// once per report; the result is shared by every assembler.
func Prepare(units []*model.TranslationUnit) *Input {
	norm := statistics.NormalizeCounts(units)
	return &Input{
		CreatedAt:    time.Now(),
		Units:        norm.Units,
		Ranked:       statistics.Rank(norm.Units),
		HighestCount: statistics.HighestCount(norm.Units),
		Purged:       norm.Purged,
		PassCounts:   statistics.CountByPass(norm.Units),
	}
}

// Generate renders every document in memory. Nothing is returned unless
// every assembler succeeded.
func (g *Generator) Generate(ctx context.Context, in *Input) (*writer.DocumentSet, error) {
	set := writer.NewDocumentSet()
	in.Produced = nil

	for _, a := range g.registry.Assemblers() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		spanCtx, span := telemetry.StartSpan(ctx, "report.assemble", attribute.String("assembler", a.Name()))
		docs, err := a.Assemble(spanCtx, in)
		telemetry.EndSpan(span, err)
		if err != nil {
			return nil, fmt.Errorf("assembler %s: %w", a.Name(), err)
		}

		if err := set.Add(docs...); err != nil {
			return nil, fmt.Errorf("assembler %s: %w", a.Name(), err)
		}
		for _, d := range docs {
			in.Produced = append(in.Produced, d.Name)
		}
		g.logger.Debug("Assembler %s rendered %d documents", a.Name(), len(docs))
	}

	g.logger.Info("Rendered %d documents", set.Len())
	return set, nil
}
