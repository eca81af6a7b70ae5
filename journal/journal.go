// Package journal keeps a record of evaluation and sizing runs. It sits
// outside the rule engine: the CLI records batch outcomes here after the
// fact, nothing in the core reads it back.
package journal

import (
	"context"
	"time"

	"github.com/rustyeddy/propfund/batch"
)

const (
	KindEvaluate = "evaluate"
	KindSize     = "size"
)

// Run is one invocation of the batch driver.
type Run struct {
	RunID    string
	Created  time.Time
	Kind     string // evaluate | size
	Catalog  string // where the fund definitions came from
	Items    int
	Locked   int
	Rejected int
	Failed   int
}

// EvaluationRecord is one account's compliance outcome within a run.
type EvaluationRecord struct {
	RunID     string
	AccountID string
	Fund      string
	Program   string
	ProgramID *int64
	Phase     string

	Balance             float64
	Equity              float64
	StartingBalance     float64
	DailyStartingEquity float64
	MarginUsedPct       float64

	Locked       bool
	Violations   []string
	Messages     []string
	DailyLossPct float64
	MaxLossPct   float64

	ProfitPct      float64
	ProfitTarget   *float64
	TargetAchieved bool

	Error string
}

// SizingRecord is one sized order within a run.
type SizingRecord struct {
	RunID     string
	AccountID string
	Direction string

	EntryPrice float64
	StopLoss   float64
	TakeProfit float64
	LotSize    float64
	Clamped    bool

	RiskAmount       float64
	ActualRiskAmount float64
	RRRatio          float64

	Allowed    bool
	Violations []string // decision codes

	Error string
}

type Journal interface {
	RecordRun(ctx context.Context, r Run) error
	RecordEvaluation(ctx context.Context, e EvaluationRecord) error
	RecordSizing(ctx context.Context, s SizingRecord) error
	Close() error
}

// EvaluationFromOutcome flattens a batch outcome into a journal row.
func EvaluationFromOutcome(runID string, o batch.Outcome) EvaluationRecord {
	c := o.Report.Compliance
	e := EvaluationRecord{
		RunID:               runID,
		AccountID:           o.AccountID,
		ProgramID:           o.Snapshot.ProgramID,
		Phase:               o.Snapshot.Phase,
		Balance:             o.Snapshot.Balance,
		Equity:              o.Snapshot.Equity,
		StartingBalance:     o.Snapshot.StartingBalance,
		DailyStartingEquity: o.Snapshot.DailyStartingEquity,
		MarginUsedPct:       o.Snapshot.MarginUsedPct,
		Locked:              c.Locked,
		Violations:          c.Violations,
		Messages:            c.Messages,
		DailyLossPct:        c.DailyLossPct,
		MaxLossPct:          c.MaxLossPct,
		ProfitPct:           o.Report.Profit.Current,
		ProfitTarget:        o.Report.Profit.Target,
		TargetAchieved:      o.Report.Profit.Achieved,
	}
	if o.Enrollment != nil {
		e.Fund = o.Enrollment.Fund
		e.Program = o.Enrollment.Program
	}
	if c.Phase != "" {
		e.Phase = c.Phase
	}
	if o.Err != nil {
		e.Error = o.Err.Error()
	}
	return e
}

// SizingFromOutcome flattens a sizing outcome into a journal row.
func SizingFromOutcome(runID string, o batch.SizingOutcome) SizingRecord {
	s := SizingRecord{
		RunID:            runID,
		AccountID:        o.AccountID,
		Direction:        string(o.Sizing.Direction),
		EntryPrice:       o.Sizing.EntryPrice,
		StopLoss:         o.Sizing.StopLoss,
		TakeProfit:       o.Sizing.TakeProfit,
		LotSize:          o.Sizing.LotSize,
		Clamped:          o.Sizing.Clamped,
		RiskAmount:       o.Sizing.RiskAmount,
		ActualRiskAmount: o.Sizing.ActualRiskAmount,
		RRRatio:          o.Sizing.RRRatio,
		Allowed:          o.Decision.Allowed,
	}
	for _, v := range o.Decision.Violations {
		s.Violations = append(s.Violations, v.Code)
	}
	if o.Err != nil {
		s.Error = o.Err.Error()
	}
	return s
}

// Summarize fills a run's counters from its evaluation rows.
func (r *Run) Summarize(evals []EvaluationRecord) {
	r.Items = len(evals)
	r.Locked, r.Failed = 0, 0
	for _, e := range evals {
		if e.Locked {
			r.Locked++
		}
		if e.Error != "" {
			r.Failed++
		}
	}
}

// SummarizeSizings fills a run's counters from its sizing rows.
func (r *Run) SummarizeSizings(sizings []SizingRecord) {
	r.Items = len(sizings)
	r.Rejected, r.Failed = 0, 0
	for _, s := range sizings {
		switch {
		case s.Error != "":
			r.Failed++
		case !s.Allowed:
			r.Rejected++
		}
	}
}
