package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rustyeddy/propfund/batch"
	"github.com/rustyeddy/propfund/catalog"
	"github.com/rustyeddy/propfund/internal/logger"
	"github.com/rustyeddy/propfund/risk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "propfund",
	Short: "Prop-fund rule evaluation and position sizing",
	Long: `Propfund checks trading accounts against the rules of their prop-fund
program and sizes orders to a fixed risk.

It provides tools for:
  - Reading account sizes from account labels
  - Classifying accounts into fund programs and phases
  - Evaluating daily drawdown, max drawdown and margin limits
  - Risk-based position sizing with pre-trade checks
  - Journaling evaluation runs to SQLite

Settings come from flags, a settings file (--config) or PROPFUND_* environment
variables, in that order of precedence.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var (
	settingsFile string
	settings     = viper.New()
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&settingsFile, "config", "", "settings file (YAML)")
	pf.String("catalog", "", "fund catalog file (default: built-in templates)")
	pf.String("db", "./propfund.sqlite", "path to SQLite journal DB")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.Int("workers", 0, "batch worker count (default: number of CPUs)")

	for _, name := range []string{"catalog", "db", "log-level", "workers"} {
		_ = settings.BindPFlag(strings.ReplaceAll(name, "-", "_"), pf.Lookup(name))
	}
	settings.SetEnvPrefix("propfund")
	settings.AutomaticEnv()
}

func setup(cmd *cobra.Command, args []string) error {
	if settingsFile != "" {
		settings.SetConfigFile(settingsFile)
		if err := settings.ReadInConfig(); err != nil {
			return fmt.Errorf("read settings: %w", err)
		}
	}

	if !logger.SetLevel(settings.GetString("log_level")) {
		logger.Logger().Warn("unknown log level, using info", "level", settings.GetString("log_level"))
	}
	logger.SetOutput(cmd.ErrOrStderr())
	return nil
}

// loadCatalog opens path, then the --catalog setting, then the built-ins.
func loadCatalog(path string) (*catalog.Catalog, string, error) {
	if path == "" {
		path = settings.GetString("catalog")
	}
	if path == "" {
		return catalog.Builtin(), "builtin", nil
	}
	c, err := catalog.LoadFromFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("load catalog: %w", err)
	}
	logger.Logger().Debug("loaded catalog", "path", path, "funds", len(c.Funds))
	return c, path, nil
}

func newEvaluator(c *catalog.Catalog, p risk.Policy) *batch.Evaluator {
	return batch.NewEvaluator(c,
		batch.WithWorkers(settings.GetInt("workers")),
		batch.WithLogger(logger.Logger()),
		batch.WithPolicy(p),
	)
}

var errFailedItems = errors.New("some items failed")

// evaluationFailed reports outcomes that produced no compliance verdict. A
// phase fallback is annotated in Err but still evaluated.
func evaluationFailed(o batch.Outcome) bool {
	return o.Err != nil && o.Report.Compliance.Phase == ""
}
