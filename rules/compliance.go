// Package rules checks an account snapshot against the drawdown, margin and
// profit rules of its prop-fund program. Every function is pure.
package rules

import (
	"fmt"

	"github.com/rustyeddy/propfund/domain"
)

// CheckTrailingPeak is reported as not evaluated for trailing-drawdown phases:
// the snapshot has no peak equity, so max drawdown is measured from the
// starting balance exactly like a static phase.
const CheckTrailingPeak = "trailing_peak"

// ResolvePhase prefers the named phase and falls back to the lowest phase order.
func ResolvePhase(program *domain.Program, phase string) (domain.PhaseRule, bool) {
	if r, ok := program.Phase(phase); ok {
		return r, true
	}
	return program.FirstPhase()
}

// EvaluateCompliance checks daily drawdown, max drawdown and margin usage for
// the account's current phase. program must be the one snap.ProgramID points
// to; nil means it could not be found.
func EvaluateCompliance(snap domain.AccountSnapshot, program *domain.Program) domain.ComplianceResult {
	res := domain.ComplianceResult{
		Violations: []string{},
		Messages:   []string{},
	}

	if snap.ProgramID == nil {
		return res
	}
	if program == nil {
		res.Err = domain.NewConfigurationError("program %d not found", *snap.ProgramID)
		res.Messages = append(res.Messages, "Program not found")
		return res
	}

	rule, ok := ResolvePhase(program, snap.Phase)
	if !ok {
		res.Messages = append(res.Messages, "No phase rules found")
		return res
	}
	if snap.Phase != "" && rule.Name != snap.Phase {
		res.Err = domain.NewConfigurationError("phase %q not in program %q, using %q", snap.Phase, program.Name, rule.Name)
	}

	dd := rule.DrawdownType
	if dd == "" {
		dd = domain.DrawdownStatic
	}
	res.DrawdownType = dd
	res.Phase = rule.Name

	dailyLossPct := lossPct(snap.DailyStartingEquity, snap.Equity)
	if dailyLossPct > rule.DailyDrawdown {
		res.Violations = append(res.Violations, domain.ViolationDailyDrawdown)
		res.Messages = append(res.Messages,
			fmt.Sprintf("Daily drawdown limit exceeded: %.2f%% > %g%%", dailyLossPct, rule.DailyDrawdown))
	}

	// TODO: measure trailing phases from peak equity once the adapter supplies it.
	maxLossPct := lossPct(snap.StartingBalance, snap.Equity)
	if maxLossPct > rule.MaxDrawdown {
		res.Violations = append(res.Violations, domain.ViolationMaxDrawdown)
		res.Messages = append(res.Messages,
			fmt.Sprintf("Max drawdown limit exceeded: %.2f%% > %g%% (%s)", maxLossPct, rule.MaxDrawdown, dd))
	}
	if dd == domain.DrawdownTrailing {
		res.NotEvaluated = append(res.NotEvaluated, CheckTrailingPeak)
	}

	// Needs per-day P&L history.
	if program.BestDayRulePct != nil {
		res.NotEvaluated = append(res.NotEvaluated, domain.CheckBestDay)
	}

	if program.MaxMarginPct != nil && snap.MarginUsedPct > *program.MaxMarginPct {
		res.Violations = append(res.Violations, domain.ViolationMaxMargin)
		res.Messages = append(res.Messages,
			fmt.Sprintf("Margin usage exceeded: %.2f%% > %g%%", snap.MarginUsedPct, *program.MaxMarginPct))
	}

	res.Locked = len(res.Violations) > 0
	res.DailyLossPct = domain.Round2(dailyLossPct)
	res.MaxLossPct = domain.Round2(maxLossPct)
	return res
}

// lossPct is the percentage drop from base to equity; 0 for a non-positive base.
func lossPct(base, equity float64) float64 {
	if base <= 0 {
		return 0
	}
	return (base - equity) / base * 100
}
