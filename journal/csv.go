package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

var evaluationHeader = []string{
	"run_id", "account_id", "fund", "program", "phase",
	"balance", "equity", "daily_loss_pct", "max_loss_pct",
	"locked", "violations", "profit_pct", "error",
}

var sizingHeader = []string{
	"run_id", "account_id", "direction", "entry_price", "stop_loss", "take_profit",
	"lot_size", "clamped", "risk_amount", "actual_risk_amount", "rr_ratio",
	"allowed", "violations", "error",
}

// WriteEvaluationsCSV writes evals with a header row.
func WriteEvaluationsCSV(w io.Writer, evals []EvaluationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(evaluationHeader); err != nil {
		return err
	}
	for _, e := range evals {
		err := cw.Write([]string{
			e.RunID,
			e.AccountID,
			e.Fund,
			e.Program,
			e.Phase,
			f(e.Balance),
			f(e.Equity),
			f(e.DailyLossPct),
			f(e.MaxLossPct),
			strconv.FormatBool(e.Locked),
			strings.Join(e.Violations, ";"),
			f(e.ProfitPct),
			e.Error,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSizingsCSV writes sizings with a header row.
func WriteSizingsCSV(w io.Writer, sizings []SizingRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sizingHeader); err != nil {
		return err
	}
	for _, s := range sizings {
		err := cw.Write([]string{
			s.RunID,
			s.AccountID,
			s.Direction,
			f(s.EntryPrice),
			f(s.StopLoss),
			f(s.TakeProfit),
			f(s.LotSize),
			strconv.FormatBool(s.Clamped),
			f(s.RiskAmount),
			f(s.ActualRiskAmount),
			f(s.RRRatio),
			strconv.FormatBool(s.Allowed),
			strings.Join(s.Violations, ";"),
			s.Error,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
