package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rustyeddy/propfund/batch"
	"github.com/rustyeddy/propfund/config"
	"github.com/rustyeddy/propfund/internal/logger"
	"github.com/rustyeddy/propfund/journal"
	"github.com/rustyeddy/propfund/pkg/id"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate <run-file>",
	Short: "Check every account in a run file against its fund rules",
	Long: `Evaluate daily drawdown, max drawdown, margin usage and profit progress
for each account in a run file. Accounts without a program id are enrolled
from their server and label.

One account failing does not stop the others; the command exits non-zero
when any account could not be evaluated.

Examples:
  propfund evaluate accounts.yaml
  propfund evaluate accounts.yaml --record --db ./runs.sqlite -o json`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

var (
	evaluateOutput string
	evaluateRecord bool
)

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateOutput, "output", "o", outputText, "output format: text or json")
	evaluateCmd.Flags().BoolVar(&evaluateRecord, "record", false, "record the run in the journal")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if err := checkOutput(evaluateOutput); err != nil {
		return err
	}
	cfg, err := config.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c, source, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	outcomes := newEvaluator(c, cfg.Policy).Evaluate(ctx, cfg.Accounts)

	if evaluateRecord || cfg.Journal.Enabled {
		if err := recordEvaluations(ctx, journalPath(cfg), source, outcomes); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if evaluateOutput == outputJSON {
		if err := writeJSON(out, evaluationsJSON(outcomes)); err != nil {
			return err
		}
	} else {
		printEvaluations(out, outcomes)
	}

	for _, o := range outcomes {
		if evaluationFailed(o) {
			return errFailedItems
		}
	}
	return nil
}

func journalPath(cfg *config.Config) string {
	if cfg.Journal.DBPath != "" && !rootCmd.PersistentFlags().Changed("db") {
		return cfg.Journal.DBPath
	}
	return settings.GetString("db")
}

func recordEvaluations(ctx context.Context, path, source string, outcomes []batch.Outcome) error {
	j, err := journal.NewSQLite(path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	run := journal.Run{RunID: id.New(), Created: time.Now(), Kind: journal.KindEvaluate, Catalog: source}
	evals := make([]journal.EvaluationRecord, len(outcomes))
	for i, o := range outcomes {
		evals[i] = journal.EvaluationFromOutcome(run.RunID, o)
	}
	run.Summarize(evals)

	if err := j.RecordEvaluationRun(ctx, run, evals); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	logger.Logger().Info("recorded run", "run_id", run.RunID, "db", path)
	return nil
}

type evaluationJSON struct {
	batch.Outcome
	Error string `json:"error,omitempty"`
}

func evaluationsJSON(outcomes []batch.Outcome) []evaluationJSON {
	out := make([]evaluationJSON, len(outcomes))
	for i, o := range outcomes {
		out[i] = evaluationJSON{Outcome: o}
		if o.Err != nil {
			out[i].Error = o.Err.Error()
		}
	}
	return out
}

func printEvaluations(w io.Writer, outcomes []batch.Outcome) {
	for _, o := range outcomes {
		c := o.Report.Compliance
		state := "OK"
		switch {
		case evaluationFailed(o):
			state = "ERROR"
		case c.Locked:
			state = "LOCKED"
		}

		where := "unenrolled"
		if c.Phase != "" {
			where = c.Phase
			if o.Enrollment != nil {
				where = fmt.Sprintf("%s / %s / %s", o.Enrollment.Fund, o.Enrollment.Program, c.Phase)
			}
		}
		fmt.Fprintf(w, "%-7s %-20s %s\n", state, o.AccountID, where)
		if c.Phase != "" {
			fmt.Fprintf(w, "        daily %.2f%% of %g%% (%s)  max %.2f%% of %g%% (%s)",
				c.DailyLossPct, o.Report.DailyDrawdownLimit, o.Report.DailyStatus,
				c.MaxLossPct, o.Report.MaxDrawdownLimit, o.Report.MaxDrawdownStatus)
			if p := o.Report.Profit; p.Target != nil {
				fmt.Fprintf(w, "  profit %.2f%% of %g%%", p.Current, *p.Target)
			}
			fmt.Fprintln(w)
		}
		for _, m := range c.Messages {
			fmt.Fprintf(w, "        - %s\n", m)
		}
		if len(c.NotEvaluated) > 0 {
			fmt.Fprintf(w, "        not evaluated: %s\n", strings.Join(c.NotEvaluated, ", "))
		}
		if o.Err != nil {
			fmt.Fprintf(w, "        error: %v\n", o.Err)
		}
	}
}
