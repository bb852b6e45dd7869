package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileInput inputFlags

var profileCmd = &cobra.Command{
	Use:   "profile [file]",
	Short: "Report rows the tables leave out or reinterpret",
	Long: `Loads the input like 'tables' does and prints a summary of data-quality
issues: missing or non-integer bedroom counts, empty unit counts, rows
without a borough and tenures outside the tenure table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, d, err := profileInput.load(cmd, args)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), d.Markdown())
		return nil
	},
}

func init() {
	profileInput.register(profileCmd)
	rootCmd.AddCommand(profileCmd)
}
