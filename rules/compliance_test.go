package rules

import (
	"errors"
	"testing"

	"github.com/rustyeddy/propfund/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func twoPhase() *domain.Program {
	return &domain.Program{
		ID:   7,
		Name: "2 Phase",
		Phases: []domain.PhaseRule{
			{Name: "Funded", Order: 3, DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
			{Name: "Phase 1", Order: 1, ProfitTarget: f64(8), DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
			{Name: "Phase 2", Order: 2, ProfitTarget: f64(5), DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
		},
	}
}

func snapshot(equity float64) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		Balance:             10000,
		Equity:              equity,
		StartingBalance:     10000,
		DailyStartingEquity: 10000,
		ProgramID:           i64(7),
		Phase:               "Phase 1",
	}
}

func TestEvaluateComplianceDailyDrawdown(t *testing.T) {
	t.Parallel()

	res := EvaluateCompliance(snapshot(9400), twoPhase())

	assert.Equal(t, 6.0, res.DailyLossPct)
	assert.Equal(t, 6.0, res.MaxLossPct)
	assert.True(t, res.Violated(domain.ViolationDailyDrawdown))
	assert.False(t, res.Violated(domain.ViolationMaxDrawdown))
	assert.True(t, res.Locked)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "Daily drawdown limit exceeded: 6.00% > 5%", res.Messages[0])
	assert.Equal(t, "Phase 1", res.Phase)
	assert.Equal(t, domain.DrawdownStatic, res.DrawdownType)
	assert.NoError(t, res.Err)
}

func TestEvaluateComplianceFlat(t *testing.T) {
	t.Parallel()

	res := EvaluateCompliance(snapshot(10000), twoPhase())

	assert.False(t, res.Locked)
	assert.Empty(t, res.Violations)
	assert.Empty(t, res.Messages)
	assert.Zero(t, res.DailyLossPct)
	assert.Zero(t, res.MaxLossPct)
}

func TestEvaluateComplianceMaxDrawdown(t *testing.T) {
	t.Parallel()

	snap := snapshot(8900)
	snap.DailyStartingEquity = 9000 // day loss 1.11%

	res := EvaluateCompliance(snap, twoPhase())

	assert.Equal(t, []string{domain.ViolationMaxDrawdown}, res.Violations)
	assert.Equal(t, 1.11, res.DailyLossPct)
	assert.Equal(t, 11.0, res.MaxLossPct)
	assert.True(t, res.Locked)
	assert.Contains(t, res.Messages[0], "(static)")
}

func TestEvaluateComplianceMargin(t *testing.T) {
	t.Parallel()

	prog := twoPhase()
	prog.MaxMarginPct = f64(40)

	snap := snapshot(10000)
	snap.MarginUsedPct = 40
	assert.False(t, EvaluateCompliance(snap, prog).Locked, "at the limit is allowed")

	snap.MarginUsedPct = 41.5
	res := EvaluateCompliance(snap, prog)
	assert.Equal(t, []string{domain.ViolationMaxMargin}, res.Violations)
	assert.Equal(t, "Margin usage exceeded: 41.50% > 40%", res.Messages[0])
}

func TestEvaluateComplianceNotEnrolled(t *testing.T) {
	t.Parallel()

	snap := snapshot(5000)
	snap.ProgramID = nil

	res := EvaluateCompliance(snap, twoPhase())
	assert.False(t, res.Locked)
	assert.Empty(t, res.Violations)
	assert.Empty(t, res.Messages)
	assert.NoError(t, res.Err)
}

func TestEvaluateComplianceMissingProgram(t *testing.T) {
	t.Parallel()

	res := EvaluateCompliance(snapshot(5000), nil)
	assert.False(t, res.Locked)
	assert.Equal(t, []string{"Program not found"}, res.Messages)
	assert.True(t, errors.Is(res.Err, domain.ErrConfiguration))
}

func TestEvaluateComplianceNoPhaseRules(t *testing.T) {
	t.Parallel()

	prog := &domain.Program{ID: 7, Name: "Empty"}
	res := EvaluateCompliance(snapshot(5000), prog)
	assert.False(t, res.Locked)
	assert.Empty(t, res.Violations)
	assert.Equal(t, []string{"No phase rules found"}, res.Messages)
}

func TestEvaluateCompliancePhaseFallback(t *testing.T) {
	t.Parallel()

	prog := twoPhase()
	prog.Phases[1].DailyDrawdown = 3 // Phase 1, the lowest order

	snap := snapshot(9650)
	snap.Phase = ""
	res := EvaluateCompliance(snap, prog)
	assert.Equal(t, "Phase 1", res.Phase)
	assert.True(t, res.Violated(domain.ViolationDailyDrawdown))
	assert.NoError(t, res.Err)

	snap.Phase = "Phase 9"
	res = EvaluateCompliance(snap, prog)
	assert.Equal(t, "Phase 1", res.Phase)
	assert.True(t, errors.Is(res.Err, domain.ErrConfiguration))
}

func TestEvaluateComplianceZeroBaselines(t *testing.T) {
	t.Parallel()

	snap := snapshot(100)
	snap.StartingBalance = 0
	snap.DailyStartingEquity = 0

	res := EvaluateCompliance(snap, twoPhase())
	assert.Zero(t, res.DailyLossPct)
	assert.Zero(t, res.MaxLossPct)
	assert.False(t, res.Locked)
}

func TestEvaluateComplianceUnevaluatedChecks(t *testing.T) {
	t.Parallel()

	prog := twoPhase()
	prog.BestDayRulePct = f64(50)
	for i := range prog.Phases {
		prog.Phases[i].DrawdownType = domain.DrawdownTrailing
	}

	res := EvaluateCompliance(snapshot(9950), prog)
	assert.False(t, res.Locked)
	assert.Equal(t, domain.DrawdownTrailing, res.DrawdownType)
	assert.ElementsMatch(t, []string{CheckTrailingPeak, domain.CheckBestDay}, res.NotEvaluated)

	// Trailing uses the starting balance like static.
	res = EvaluateCompliance(snapshot(8950), prog)
	assert.Equal(t, 10.5, res.MaxLossPct)
	assert.True(t, res.Violated(domain.ViolationMaxDrawdown))
}

func TestEvaluateComplianceIdempotent(t *testing.T) {
	t.Parallel()

	prog := twoPhase()
	prog.MaxMarginPct = f64(10)
	snap := snapshot(9000)
	snap.MarginUsedPct = 20

	first := EvaluateCompliance(snap, prog)
	second := EvaluateCompliance(snap, prog)
	assert.Equal(t, first, second)
}
