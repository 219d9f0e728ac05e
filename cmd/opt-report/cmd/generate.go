package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opt-report/internal/repository"
	"github.com/opt-report/internal/service"
	"github.com/opt-report/internal/storage"
	"github.com/opt-report/pkg/utils"
)

var (
	// Generate command flags
	outputDir   string
	jobs        int
	noHighlight bool
	publish     bool
	recordRun   bool
	timing      bool
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate [dumps...]",
	Short: "Render record dumps as an HTML report",
	Long: `Render optimization record dumps as a static HTML report.

With no arguments every *.opt-record.json[.gz|.zst] (and .yaml, .msgpack)
under the build directory is loaded. The output directory receives:
  - index.html   : records ranked by hotness
  - <file>.html  : one page per source file with records inline
  - style.css    : page and highlighting styles
  - outline.txt  : the record tree as text
  - summary.json : run summary with record counts per pass

Nothing is written when any page fails to render. Publishing to object
storage and recording the run happen after the local report is complete.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	binName := BinName()
	generateCmd.Example = `  # Render a build tree
  ` + binName + ` generate --build-dir ./build -o ./report

  # Skip SLP records and system headers
  ` + binName + ` generate -b ./build --exclude-pass slp --exclude-file /usr/include/

  # Publish to the configured bucket and record the run
  ` + binName + ` generate -b ./build -c opt-report.yaml --publish --record-run`

	addInputFlags(generateCmd)
	addNamingFlags(generateCmd)
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for the report (default from config)")
	generateCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of pages rendered in parallel (default from config)")
	generateCmd.Flags().BoolVar(&noHighlight, "no-highlight", false, "Render sources as plain text")
	generateCmd.Flags().BoolVar(&publish, "publish", false, "Upload the report to the configured storage")
	generateCmd.Flags().BoolVar(&recordRun, "record-run", false, "Save the run in the history database")
	generateCmd.Flags().BoolVar(&timing, "timing", false, "Log the duration of each phase")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := GetLogger()
	ctx := cmd.Context()

	if cmd.Flags().Changed("output") {
		cfg.Report.OutputDir = outputDir
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Report.Jobs = jobs
	}
	if noHighlight {
		cfg.Highlight.Enabled = false
	}
	if err := applyInputFlags(cmd); err != nil {
		return err
	}

	timer := utils.NewTimer("opt-report", utils.WithEnabled(timing))
	opts := []service.Option{service.WithTimer(timer)}

	if publish {
		st, err := storage.NewStorage(&cfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithStorage(st))
	}

	record := recordRun || cfg.Database.Enabled
	if record {
		repo, closeDB, err := repository.Open(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeDB(); err != nil {
				log.Warn("Failed to close database: %v", err)
			}
		}()
		opts = append(opts, service.WithRunRepository(repo))
	}

	log.Info("=== opt-report ===")
	log.Info("Build dir:  %s", cfg.Report.BuildDir)
	log.Info("Output dir: %s", cfg.Report.OutputDir)
	log.Info("Jobs:       %d", cfg.Report.Jobs)
	log.Debug("Naming:     %s", cfg.Xref.SeparatorPolicy)

	res, err := newService(opts...).Generate(ctx, service.GenerateOptions{
		Inputs:    args,
		Publish:   publish,
		RecordRun: record,
	})
	timer.Log(log)
	if res != nil {
		printRun(cmd, res)
	}
	return err
}

func printRun(cmd *cobra.Command, res *service.Result) {
	out := cmd.OutOrStdout()
	run := res.Run
	fmt.Fprintf(out, "Run:       %s\n", run.RunID)
	fmt.Fprintf(out, "Records:   %d (%d filtered, %d purged)\n", run.Records, run.Filtered, run.Purged)
	fmt.Fprintf(out, "Documents: %d in %s\n", len(run.Documents), run.OutputDir)
	if res.Published != nil {
		fmt.Fprintf(out, "Published: %s\n", res.Published.IndexURL)
	}
}
