package cmd

import (
	"github.com/spf13/cobra"
)

// outlineCmd represents the outline command
var outlineCmd = &cobra.Command{
	Use:   "outline [dumps...]",
	Short: "Print the record tree as text",
	Long: `Print the outline of every translation unit to stdout: one line per
record with its location, pass and counts, nested records indented.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyInputFlags(cmd); err != nil {
			return err
		}
		return newService().WriteOutline(cmd.Context(), args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	addInputFlags(outlineCmd)
}
