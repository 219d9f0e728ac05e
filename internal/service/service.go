// Package service runs the report pipeline: load, filter, normalise, rank,
// render, write, and optionally publish and record the run.
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/opt-report/internal/highlight"
	"github.com/opt-report/internal/loader"
	"github.com/opt-report/internal/message"
	"github.com/opt-report/internal/remark"
	"github.com/opt-report/internal/report"
	"github.com/opt-report/internal/repository"
	"github.com/opt-report/internal/statistics"
	"github.com/opt-report/internal/storage"
	"github.com/opt-report/internal/xref"
	"github.com/opt-report/pkg/config"
	apperrors "github.com/opt-report/pkg/errors"
	"github.com/opt-report/pkg/filter"
	"github.com/opt-report/pkg/model"
	"github.com/opt-report/pkg/telemetry"
	"github.com/opt-report/pkg/utils"
	"github.com/opt-report/pkg/writer"
)

// Service is the main application service.
type Service struct {
	config  *config.Config
	logger  utils.Logger
	loader  *loader.Loader
	storage storage.Storage
	runs    repository.RunRepository
	sources report.SourceReader
	newID   func() string
	timer   *utils.Timer
}

// Option configures a Service.
type Option func(*Service)

// WithStorage sets the publishing backend.
func WithStorage(st storage.Storage) Option {
	return func(s *Service) { s.storage = st }
}

// WithRunRepository sets the run history store.
func WithRunRepository(r repository.RunRepository) Option {
	return func(s *Service) { s.runs = r }
}

// WithSourceReader replaces the build directory source reader.
func WithSourceReader(r report.SourceReader) Option {
	return func(s *Service) { s.sources = r }
}

// WithIDGenerator replaces the run id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// WithTimer records the duration of each Generate phase.
func WithTimer(t *utils.Timer) Option {
	return func(s *Service) { s.timer = t }
}

// New creates a new Service instance.
func New(cfg *config.Config, logger utils.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	s := &Service{
		config:  cfg,
		logger:  logger,
		loader:  loader.New(loader.WithLogger(logger)),
		sources: report.DirSourceReader{BuildDir: cfg.Report.BuildDir},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load decodes the given dump files, or every dump under the build
// directory when none are given.
func (s *Service) Load(ctx context.Context, inputs []string) ([]*model.TranslationUnit, error) {
	if len(inputs) > 0 {
		return s.loader.LoadFiles(ctx, inputs)
	}
	paths, err := s.loader.FindDumps(s.config.Report.BuildDir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIOError, fmt.Sprintf("scan %s", s.config.Report.BuildDir), err)
	}
	s.logger.Info("Found %d record dumps under %s", len(paths), s.config.Report.BuildDir)
	return s.loader.LoadFiles(ctx, paths)
}

// Prepare loads, filters and normalises the records and ranks them.
func (s *Service) Prepare(ctx context.Context, inputs []string) (*report.Input, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.prepare")
	in, err := s.prepare(ctx, inputs)
	telemetry.EndSpan(span, err)
	return in, err
}

func (s *Service) prepare(ctx context.Context, inputs []string) (*report.Input, error) {
	units, err := s.Load(ctx, inputs)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Loaded %d translation units, %d records", len(units), model.CountRecords(units))
	LogPassCounts(s.logger, statistics.CountByPass(units))

	dropped := 0
	f := filter.NewRecordFilter(s.config.Filter.ExcludePasses, s.config.Filter.ExcludeFiles)
	if !f.IsEmpty() {
		units, dropped = f.Apply(units)
		s.logger.Info("Filtered out %d records", dropped)
		LogPassCounts(s.logger, statistics.CountByPass(units))
	}

	in := report.Prepare(units)
	in.Filtered = dropped
	if in.Purged > 0 {
		s.logger.Info("Purged %d records with estimated counts", in.Purged)
	}
	return in, nil
}

// LogPassCounts logs the number of records per pass, most common first.
func LogPassCounts(logger utils.Logger, counts []model.PassCount) {
	logger.Info("Records by pass:")
	for _, pc := range counts {
		logger.Info(" %s: %d", pc.Pass, pc.Count)
	}
}

// Env builds the report environment from configuration.
func (s *Service) Env() (*report.Env, error) {
	mode, err := xref.ParseMode(s.config.Xref.SeparatorPolicy)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "xref", err)
	}

	env := report.NewEnv(s.sources).WithResolver(xref.NewResolver(xref.Policy{
		Mode:        mode,
		Replacement: s.config.Xref.Replacement,
	}))
	env.SourceBrowser = report.SourceBrowser{
		Prefix:    s.config.Report.SourceBrowser.Prefix,
		URLFormat: s.config.Report.SourceBrowser.URLFormat,
	}
	env.CollapseThreshold = s.config.Report.CollapseThreshold
	env.Jobs = s.config.Report.Jobs
	env.Logger = s.logger

	if s.config.Highlight.Enabled {
		h, err := highlight.NewChroma(s.config.Highlight.Style, s.config.Highlight.LexerCacheSize)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeConfigError, "highlighter", err)
		}
		env.Highlighter = h
	}
	return env, nil
}

// GenerateOptions selects the optional stages of Generate.
type GenerateOptions struct {
	Inputs    []string
	Publish   bool
	RecordRun bool
}

// Result describes a generated report.
type Result struct {
	Run       *model.ReportRun
	Published *storage.PublishResult
}

// Generate renders the report into the output directory. Nothing is
// written unless every document rendered. Publishing and run history
// happen afterwards; their failures are returned together with the
// result of the completed local report.
func (s *Service) Generate(ctx context.Context, opts GenerateOptions) (*Result, error) {
	runID := s.newID()
	ctx, span := telemetry.StartSpan(ctx, "service.generate", attribute.String("run_id", runID))
	res, err := s.generate(ctx, runID, opts)
	telemetry.EndSpan(span, err)
	return res, err
}

func (s *Service) generate(ctx context.Context, runID string, opts GenerateOptions) (*Result, error) {
	logger := s.logger.WithField("run", runID)

	pt := s.timer.Start("prepare")
	in, err := s.Prepare(ctx, opts.Inputs)
	pt.Stop()
	if err != nil {
		return nil, err
	}
	in.RunID = runID
	in.OutputDir = s.config.Report.OutputDir

	env, err := s.Env()
	if err != nil {
		return nil, err
	}

	registry := report.DefaultRegistry(env, s.config.Report.Summary)
	var set *writer.DocumentSet
	if err := s.timer.Time("render", func() error {
		set, err = report.NewGenerator(registry, logger).Generate(ctx, in)
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.timer.Time("write", func() error {
		return storage.WriteDir(ctx, in.OutputDir, set.Documents())
	}); err != nil {
		return nil, err
	}
	logger.Info("Wrote %d documents to %s", set.Len(), in.OutputDir)

	res := &Result{Run: report.Summarize(in)}

	if opts.Publish {
		if s.storage == nil {
			return res, apperrors.New(apperrors.CodeConfigError, "publishing requested but no storage is configured")
		}
		var pub *storage.PublishResult
		if err := s.timer.Time("publish", func() error {
			pub, err = storage.Publish(ctx, s.storage, s.config.Storage.Prefix, runID, set.Documents(), s.config.Report.Jobs)
			return err
		}); err != nil {
			return res, err
		}
		res.Published = pub
		res.Run.IndexURL = pub.IndexURL
		logger.Info("Published %d documents, index at %s", len(pub.Keys), pub.IndexURL)
	}

	if opts.RecordRun {
		if s.runs == nil {
			return res, apperrors.New(apperrors.CodeConfigError, "run history requested but no database is configured")
		}
		if err := s.timer.Time("record", func() error {
			return s.runs.SaveRun(ctx, res.Run)
		}); err != nil {
			return res, err
		}
		logger.Info("Recorded run history")
	}

	return res, nil
}

// WriteOutline writes the outline of the prepared records to w.
func (s *Service) WriteOutline(ctx context.Context, inputs []string, w io.Writer) error {
	in, err := s.Prepare(ctx, inputs)
	if err != nil {
		return err
	}
	return report.WriteOutline(w, in.Units)
}

// PrintRemarks prints every top-level record as a compiler remark and
// returns the number printed.
func (s *Service) PrintRemarks(ctx context.Context, inputs []string, w io.Writer, mode remark.ColorMode) (int, error) {
	in, err := s.Prepare(ctx, inputs)
	if err != nil {
		return 0, err
	}
	return remark.NewPrinter(w, mode).PrintUnits(in.Units)
}

// HotRecord is one line of the hottest-records table.
type HotRecord struct {
	Location string
	Hotness  string
	Pass     string
	Summary  string
}

// Hottest returns the n hottest records with their plain-text summaries
// cut to width cells.
func (s *Service) Hottest(ctx context.Context, inputs []string, n, width int) ([]HotRecord, *report.Input, error) {
	in, err := s.Prepare(ctx, inputs)
	if err != nil {
		return nil, nil, err
	}

	top := statistics.Top(in.Ranked, n)
	out := make([]HotRecord, 0, len(top))
	for _, r := range top {
		text, err := summaryText(r)
		if err != nil {
			return nil, nil, err
		}
		hr := HotRecord{
			Hotness: statistics.FormatHotness(r, in.HighestCount),
			Pass:    r.PassName(),
			Summary: remark.Truncate(text, width),
		}
		if r.Location != nil {
			hr.Location = r.Location.String()
		}
		out = append(out, hr)
	}
	return out, in, nil
}

func summaryText(r *model.Record) (string, error) {
	for r.Kind == model.KindScope && len(r.Children) > 0 {
		r = r.Children[len(r.Children)-1]
	}
	return message.PlainText(r.Message)
}
