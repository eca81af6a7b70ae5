package cmd

import (
	"fmt"

	"github.com/rustyeddy/propfund/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded runs",
	Long: `Query evaluation and sizing runs recorded in the SQLite journal.

Subcommands:
  runs - List recent runs
  run  - Show one run as an Org block, or as CSV

Examples:
  propfund journal runs --limit 5
  propfund journal run 01HZX3K9Q8ABCDEFGH
  propfund journal run 01HZX3K9Q8ABCDEFGH --csv > run.csv`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var (
	journalLimit int
	journalCSV   bool
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalRunCmd)

	journalRunsCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of runs to list (0 for all)")
	journalRunCmd.Flags().BoolVar(&journalCSV, "csv", false, "write the run's rows as CSV")
}

func openJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(settings.GetString("db"))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), journalLimit)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %-8s items=%d locked=%d rejected=%d failed=%d  %s\n",
			r.RunID, r.Created.Local().Format("2006-01-02 15:04"), r.Kind,
			r.Items, r.Locked, r.Rejected, r.Failed, r.Catalog)
	}
	return nil
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	ctx := cmd.Context()
	run, err := j.GetRun(ctx, args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	evals, err := j.ListEvaluations(ctx, run.RunID)
	if err != nil {
		return fmt.Errorf("query evaluations: %w", err)
	}
	sizings, err := j.ListSizings(ctx, run.RunID)
	if err != nil {
		return fmt.Errorf("query sizings: %w", err)
	}

	out := cmd.OutOrStdout()
	if journalCSV {
		if run.Kind == journal.KindSize {
			return journal.WriteSizingsCSV(out, sizings)
		}
		return journal.WriteEvaluationsCSV(out, evals)
	}
	fmt.Fprint(out, journal.FormatRunOrg(run, evals, sizings))
	return nil
}
