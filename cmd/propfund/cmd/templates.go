package cmd

import (
	"fmt"

	"github.com/rustyeddy/propfund/catalog"
	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List or export the built-in fund templates",
	Long: `List the built-in fund templates, or write them as a catalog file to
start a custom catalog from.

Examples:
  propfund templates
  propfund templates --output funds.yaml`,
	Args: cobra.NoArgs,
	RunE: runTemplates,
}

var templatesOutput string

func init() {
	rootCmd.AddCommand(templatesCmd)

	templatesCmd.Flags().StringVarP(&templatesOutput, "output", "o", "", "write the templates to this catalog file (.yaml or .json)")
}

func runTemplates(cmd *cobra.Command, args []string) error {
	c := catalog.Builtin()
	if templatesOutput != "" {
		if err := c.SaveToFile(templatesOutput); err != nil {
			return fmt.Errorf("save catalog: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d fund templates: %s\n", len(c.Funds), templatesOutput)
		return nil
	}

	printCatalog(cmd, c)
	return nil
}

func printCatalog(cmd *cobra.Command, c *catalog.Catalog) {
	out := cmd.OutOrStdout()
	for _, f := range c.Funds {
		fmt.Fprintf(out, "%s (server %q)\n", f.Name, f.ServerPattern)
		for _, p := range f.Programs {
			fmt.Fprintf(out, "  [%d] %s\n", p.ID, p.Name)
			for _, r := range p.Phases {
				target := "-"
				if r.ProfitTarget != nil {
					target = fmt.Sprintf("%g%%", *r.ProfitTarget)
				}
				fmt.Fprintf(out, "      %d. %-8s target %-4s daily %g%%  max %g%% %s\n",
					r.Order, r.Name, target, r.DailyDrawdown, r.MaxDrawdown, r.DrawdownType)
			}
		}
	}
}
