package cmd

import (
	"fmt"

	"github.com/rustyeddy/propfund/domain"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <label>",
	Short: "Classify an account label into a program and phase",
	Long: `Resolve an account label against a fund's name format and patterns.

With --server the fund is found from the trading server name and an
unclassified label falls back to the fund's default program and phase.

Examples:
  propfund classify --fund The5ers "FHS-7.5K Jane Doe"
  propfund classify --server FTMO-Server3 "FTMO Challenge 100k"`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

var (
	classifyFund   string
	classifyServer string
)

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyFund, "fund", "", "fund name")
	classifyCmd.Flags().StringVar(&classifyServer, "server", "", "trading server name")
	classifyCmd.MarkFlagsOneRequired("fund", "server")
	classifyCmd.MarkFlagsMutuallyExclusive("fund", "server")
}

func runClassify(cmd *cobra.Command, args []string) error {
	c, _, err := loadCatalog("")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	accountLabel := args[0]

	if classifyServer != "" {
		e, ok := c.Enroll(classifyServer, accountLabel)
		if !ok {
			return domain.NewDataUnavailableError("no fund matches server %q", classifyServer)
		}
		note := ""
		if !e.Classified {
			note = " (default)"
		}
		fmt.Fprintf(out, "%s\t%s / %s%s\tprogram_id=%d\n", e.Fund, e.Program, e.Phase, note, e.ProgramID)
		return nil
	}

	if _, ok := c.Fund(classifyFund); !ok {
		return domain.NewConfigurationError("unknown fund %q", classifyFund)
	}
	cls, ok := c.Classify(classifyFund, accountLabel)
	if !ok {
		fmt.Fprintf(out, "%s\tunclassified\n", classifyFund)
		return nil
	}
	fmt.Fprintf(out, "%s\t%s\n", classifyFund, cls)
	return nil
}
