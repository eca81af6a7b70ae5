package rules

import "github.com/rustyeddy/propfund/domain"

type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusViolated Status = "violated"
)

// WarningRatio is the share of a limit at which usage is flagged.
const WarningRatio = 0.8

// LimitStatus labels usage against a limit.
func LimitStatus(current, limit float64) Status {
	if current >= limit {
		return StatusViolated
	}
	if limit > 0 && current >= limit*WarningRatio {
		return StatusWarning
	}
	return StatusOK
}

// Report is the per-account view of a fund status board.
type Report struct {
	Compliance         domain.ComplianceResult `json:"compliance"`
	Profit             domain.ProfitResult     `json:"profit"`
	DailyDrawdownLimit float64                 `json:"daily_drawdown_limit"`
	MaxDrawdownLimit   float64                 `json:"max_drawdown_limit"`
	DailyStatus        Status                  `json:"daily_status"`
	MaxDrawdownStatus  Status                  `json:"max_dd_status"`
}

// BuildReport evaluates compliance and profit progress for one account.
func BuildReport(snap domain.AccountSnapshot, program *domain.Program) Report {
	r := Report{
		Compliance:        EvaluateCompliance(snap, program),
		DailyStatus:       StatusOK,
		MaxDrawdownStatus: StatusOK,
	}
	if snap.ProgramID == nil || program == nil {
		return r
	}

	if rule, ok := ResolvePhase(program, snap.Phase); ok {
		r.DailyDrawdownLimit = rule.DailyDrawdown
		r.MaxDrawdownLimit = rule.MaxDrawdown
		r.DailyStatus = LimitStatus(r.Compliance.DailyLossPct, rule.DailyDrawdown)
		r.MaxDrawdownStatus = LimitStatus(r.Compliance.MaxLossPct, rule.MaxDrawdown)
	}
	if snap.Phase != "" {
		r.Profit = EvaluateProfitTarget(snap.StartingBalance, snap.Equity, snap.Phase, program)
	}
	return r
}
