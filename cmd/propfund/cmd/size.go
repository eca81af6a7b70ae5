package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/propfund/batch"
	"github.com/rustyeddy/propfund/config"
	"github.com/rustyeddy/propfund/internal/logger"
	"github.com/rustyeddy/propfund/journal"
	"github.com/rustyeddy/propfund/pkg/id"
	"github.com/spf13/cobra"
)

var sizeCmd = &cobra.Command{
	Use:   "size <run-file>",
	Short: "Size the orders in a run file and apply the pre-trade policy",
	Long: `Compute the lot size for each order so that hitting the stop loses the
requested risk, then check the run file's policy (max risk, min R:R) and
the reported margin.

Examples:
  propfund size orders.yaml
  propfund size orders.yaml -o json --record`,
	Args: cobra.ExactArgs(1),
	RunE: runSize,
}

var (
	sizeOutput string
	sizeRecord bool
)

func init() {
	rootCmd.AddCommand(sizeCmd)

	sizeCmd.Flags().StringVarP(&sizeOutput, "output", "o", outputText, "output format: text or json")
	sizeCmd.Flags().BoolVar(&sizeRecord, "record", false, "record the run in the journal")
}

func runSize(cmd *cobra.Command, args []string) error {
	if err := checkOutput(sizeOutput); err != nil {
		return err
	}
	cfg, err := config.LoadFromFile(args[0])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := cmd.Context()
	// Sizing never consults fund definitions.
	outcomes := newEvaluator(nil, cfg.Policy).Size(ctx, cfg.Jobs())

	if sizeRecord || cfg.Journal.Enabled {
		if err := recordSizings(ctx, journalPath(cfg), outcomes); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if sizeOutput == outputJSON {
		if err := writeJSON(out, sizingsJSON(outcomes)); err != nil {
			return err
		}
	} else {
		printSizings(out, outcomes)
	}

	for _, o := range outcomes {
		if o.Err != nil {
			return errFailedItems
		}
	}
	return nil
}

func recordSizings(ctx context.Context, path string, outcomes []batch.SizingOutcome) error {
	j, err := journal.NewSQLite(path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	run := journal.Run{RunID: id.New(), Created: time.Now(), Kind: journal.KindSize, Catalog: "-"}
	recs := make([]journal.SizingRecord, len(outcomes))
	for i, o := range outcomes {
		recs[i] = journal.SizingFromOutcome(run.RunID, o)
	}
	run.SummarizeSizings(recs)

	if err := j.RecordSizingRun(ctx, run, recs); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	logger.Logger().Info("recorded run", "run_id", run.RunID, "db", path)
	return nil
}

type sizingJSON struct {
	batch.SizingOutcome
	Error string `json:"error,omitempty"`
}

func sizingsJSON(outcomes []batch.SizingOutcome) []sizingJSON {
	out := make([]sizingJSON, len(outcomes))
	for i, o := range outcomes {
		out[i] = sizingJSON{SizingOutcome: o}
		if o.Err != nil {
			out[i].Error = o.Err.Error()
		}
	}
	return out
}

func printSizings(w io.Writer, outcomes []batch.SizingOutcome) {
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%-8s %-20s %v\n", "ERROR", o.AccountID, o.Err)
			continue
		}
		s := o.Sizing
		state := "ALLOWED"
		if !o.Decision.Allowed {
			state = "REJECTED"
		}
		clamped := ""
		if s.Clamped {
			clamped = " (clamped)"
		}
		fmt.Fprintf(w, "%-8s %-20s %s %.2f lots%s @ %g  SL %g (%.1f pips)  TP %g\n",
			state, o.AccountID, s.Direction, s.LotSize, clamped, s.EntryPrice, s.StopLoss, s.SLPips, s.TakeProfit)
		fmt.Fprintf(w, "         risk %.2f (%.2f%%)  reward %.2f  R:R %.2f\n",
			s.ActualRiskAmount, s.ActualRiskPct, s.RewardAmount, s.RRRatio)
		for _, v := range o.Decision.Violations {
			fmt.Fprintf(w, "         - %s: %s\n", v.Code, v.Msg)
		}
	}
}
