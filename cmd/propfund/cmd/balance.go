package cmd

import (
	"fmt"

	"github.com/rustyeddy/propfund/label"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <label>...",
	Short: "Read the account size from account labels",
	Long: `Extract the nominal account size from each label.

Examples:
  propfund balance "FTMO Challenge 100k"
  propfund balance "HS1-7.5K Jane Doe" '$25,000 Swing'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, l := range args {
		if v, ok := label.ParseBalance(l); ok {
			fmt.Fprintf(out, "%s\t%.2f\n", l, v)
		} else {
			fmt.Fprintf(out, "%s\t-\n", l)
		}
	}
	return nil
}
