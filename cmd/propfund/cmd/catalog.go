package cmd

import (
	"fmt"

	"github.com/rustyeddy/propfund/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and validate fund catalog files",
	Long: `Manage fund catalog files.

Subcommands:
  validate - Check a catalog file and list its programs
  show     - List the active catalog (--catalog or built-in)

Examples:
  propfund catalog validate funds.yaml
  propfund catalog show --catalog funds.yaml`,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a catalog file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogValidate,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List the active catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogShow,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	c, err := catalog.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Catalog valid: %s (%d funds)\n", args[0], len(c.Funds))
	printCatalog(cmd, c)
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	c, _, err := loadCatalog("")
	if err != nil {
		return err
	}
	printCatalog(cmd, c)
	return nil
}
