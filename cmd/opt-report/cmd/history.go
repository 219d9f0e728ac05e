package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/opt-report/internal/repository"
	"github.com/opt-report/pkg/model"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List recorded report runs",
	Long: `List the most recent runs saved with generate --record-run, or show the
details of one run when its id is given. Uses the database section of the
configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, closeDB, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(); err != nil {
			GetLogger().Warn("Failed to close database: %v", err)
		}
	}()

	if len(args) == 1 {
		run, err := repo.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		printRunDetail(cmd, run)
		return nil
	}

	runs, err := repo.ListRuns(ctx, historyLimit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tRECORDS\tDOCUMENTS\tINDEX")
	for _, run := range runs {
		index := run.IndexURL
		if index == "" {
			index = run.OutputDir
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", run.RunID, run.CreatedAt.Format(time.RFC3339), run.Records, len(run.Documents), index)
	}
	return tw.Flush()
}

func printRunDetail(cmd *cobra.Command, run *model.ReportRun) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:        %s\n", run.RunID)
	fmt.Fprintf(out, "Created:    %s\n", run.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Output dir: %s\n", run.OutputDir)
	if run.IndexURL != "" {
		fmt.Fprintf(out, "Index:      %s\n", run.IndexURL)
	}
	fmt.Fprintf(out, "Units:      %d\n", run.Units)
	fmt.Fprintf(out, "Records:    %d (%d filtered, %d purged)\n", run.Records, run.Filtered, run.Purged)
	fmt.Fprintln(out, "Records by pass:")
	for _, pc := range run.PassCounts {
		fmt.Fprintf(out, "  %-20s %d\n", pc.Pass, pc.Count)
	}
}
