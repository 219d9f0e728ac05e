package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opt-report/internal/service"
)

var (
	topN         int
	summaryWidth int
)

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary [dumps...]",
	Short: "Show records by pass and the hottest records",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	addInputFlags(summaryCmd)
	summaryCmd.Flags().IntVarP(&topN, "top", "n", 10, "Number of hottest records to show")
	summaryCmd.Flags().IntVarP(&summaryWidth, "width", "w", 60, "Maximum width of a record summary, 0 for no limit")
}

func runSummary(cmd *cobra.Command, args []string) error {
	if err := applyInputFlags(cmd); err != nil {
		return err
	}

	hot, in, err := newService().Hottest(cmd.Context(), args, topN, summaryWidth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Translation units: %d\n", len(in.Units))
	fmt.Fprintf(out, "Records:           %d\n", len(in.Ranked))
	if in.Purged > 0 {
		fmt.Fprintf(out, "Purged:            %d\n", in.Purged)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Records by pass:")
	for _, pc := range in.PassCounts {
		fmt.Fprintf(out, "  %-20s %d\n", pc.Pass, pc.Count)
	}
	fmt.Fprintln(out)

	return printHottest(cmd, hot)
}

func printHottest(cmd *cobra.Command, hot []service.HotRecord) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOCATION\tHOTNESS\tPASS\tSUMMARY")
	for _, h := range hot {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.Location, h.Hotness, h.Pass, h.Summary)
	}
	return tw.Flush()
}
