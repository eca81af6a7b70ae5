package cmd

import (
	"fmt"

	"github.com/rustyeddy/propfund/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate run files",
	Long: `Manage run files: the accounts to evaluate and the orders to size.

Subcommands:
  init     - Generate a sample run file
  validate - Validate an existing run file

Examples:
  propfund config init -o run.yaml
  propfund config validate run.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a sample run file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <run-file>",
	Short: "Validate a run file",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var configInitOutput string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "run.yaml", "output run file path")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Created sample run file: %s\n", configInitOutput)
	fmt.Fprintln(out, "\nEdit the file and run with:")
	fmt.Fprintf(out, "  propfund evaluate %s\n", configInitOutput)
	fmt.Fprintf(out, "  propfund size %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Run file valid: %s\n", args[0])
	fmt.Fprintf(out, "  Accounts: %d  Orders: %d\n", len(cfg.Accounts), len(cfg.Orders))
	fmt.Fprintf(out, "  Policy: max risk %g%%, min R:R %g\n", cfg.Policy.MaxRiskPct, cfg.Policy.MinRR)
	if cfg.Catalog != "" {
		fmt.Fprintf(out, "  Catalog: %s\n", cfg.Catalog)
	}
	return nil
}
