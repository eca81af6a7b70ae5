package rules

import "github.com/rustyeddy/propfund/domain"

// EvaluateProfitTarget reports progress toward the profit target of the named
// phase. Unlike EvaluateCompliance there is no fallback phase: an unknown
// phase has no target.
func EvaluateProfitTarget(startingBalance, currentEquity float64, phase string, program *domain.Program) domain.ProfitResult {
	rule, ok := program.Phase(phase)
	if !ok {
		return domain.ProfitResult{}
	}
	return ProfitTarget(startingBalance, currentEquity, rule)
}

// ProfitTarget is EvaluateProfitTarget for an already resolved rule.
func ProfitTarget(startingBalance, currentEquity float64, rule domain.PhaseRule) domain.ProfitResult {
	if rule.ProfitTarget == nil {
		return domain.ProfitResult{}
	}
	target := *rule.ProfitTarget

	profitPct := 0.0
	if startingBalance > 0 {
		profitPct = (currentEquity - startingBalance) / startingBalance * 100
	}

	progress := 0.0
	if target > 0 {
		progress = domain.Round2(profitPct / target * 100)
	}

	return domain.ProfitResult{
		Achieved: profitPct >= target,
		Target:   &target,
		Current:  domain.Round2(profitPct),
		Progress: progress,
	}
}
