package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opt-report/internal/remark"
)

var colorMode string

// remarksCmd represents the remarks command
var remarksCmd = &cobra.Command{
	Use:   "remarks [dumps...]",
	Short: "Print records as compiler remarks",
	Long: `Print every top-level record in the style of a compiler diagnostic:

  sum.c:4:3: remark: loop vectorized [pass=vect] [count(precise)=1000]

Colour follows --color: auto colours only when stdout is a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := remark.ParseColorMode(colorMode)
		if err != nil {
			return err
		}
		if err := applyInputFlags(cmd); err != nil {
			return err
		}
		n, err := newService().PrintRemarks(cmd.Context(), args, cmd.OutOrStdout(), mode)
		if err != nil {
			return err
		}
		GetLogger().Debug("Printed %d remarks", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remarksCmd)
	addInputFlags(remarksCmd)
	remarksCmd.Flags().StringVar(&colorMode, "color", "auto", "Colour output: auto, on or off")
}
