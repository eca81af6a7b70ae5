package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/rustyeddy/propfund/catalog"
	"github.com/rustyeddy/propfund/domain"
	"github.com/rustyeddy/propfund/risk"
	"github.com/rustyeddy/propfund/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newEvaluator(opts ...Option) *Evaluator {
	return NewEvaluator(catalog.Builtin(), append([]Option{WithLogger(quiet()), WithWorkers(3)}, opts...)...)
}

func TestEvaluateEnrollsAndChecks(t *testing.T) {
	t.Parallel()

	missing := int64(9999)
	accounts := []Account{
		{
			ID:     "ftmo-ok",
			Server: "FTMO-Server",
			Label:  "FTMO Challenge 100k",
			Snapshot: domain.AccountSnapshot{
				Balance: 100500, Equity: 100800, DailyStartingEquity: 100500,
			},
		},
		{
			ID:     "the5ers-daily",
			Server: "FivePercentOnline-Real",
			Label:  "HS1-10K Jane Doe",
			Snapshot: domain.AccountSnapshot{
				Balance: 10000, Equity: 9400, StartingBalance: 10000, DailyStartingEquity: 10000,
			},
		},
		{
			ID:       "deleted-program",
			Server:   "FTMO-Server",
			Label:    "FTMO Challenge 10k",
			Snapshot: domain.AccountSnapshot{Balance: 10000, Equity: 10000, ProgramID: &missing, Phase: "Phase 1"},
		},
		{
			ID:       "personal",
			Server:   "ICMarkets-Live",
			Label:    "Main",
			Snapshot: domain.AccountSnapshot{Balance: 5000, Equity: 1000},
		},
	}

	out := newEvaluator().Evaluate(context.Background(), accounts)
	require.Len(t, out, len(accounts))
	for i, o := range out {
		assert.Equal(t, accounts[i].ID, o.AccountID, "input order kept")
	}

	ok := out[0]
	require.NoError(t, ok.Err)
	require.NotNil(t, ok.Enrollment)
	assert.Equal(t, "2 Phase", ok.Enrollment.Program)
	assert.Equal(t, "Phase 1", ok.Snapshot.Phase)
	assert.Equal(t, 100000.0, ok.Snapshot.StartingBalance, "parsed from the label")
	assert.False(t, ok.Report.Compliance.Locked)
	assert.Equal(t, 0.8, ok.Report.Profit.Current)

	daily := out[1]
	require.NoError(t, daily.Err)
	assert.True(t, daily.Report.Compliance.Locked)
	assert.Equal(t, []string{domain.ViolationDailyDrawdown}, daily.Report.Compliance.Violations)
	assert.Equal(t, rules.StatusViolated, daily.Report.DailyStatus)

	deleted := out[2]
	assert.True(t, errors.Is(deleted.Err, domain.ErrConfiguration))
	assert.Nil(t, deleted.Enrollment, "explicit program is not re-enrolled")
	assert.False(t, deleted.Report.Compliance.Locked)

	personal := out[3]
	assert.NoError(t, personal.Err)
	assert.Nil(t, personal.Enrollment)
	assert.False(t, personal.Report.Compliance.Locked)
	assert.Empty(t, personal.Report.Compliance.Violations)
}

func TestEvaluateIsOrderIndependent(t *testing.T) {
	t.Parallel()

	var accounts []Account
	for i := 0; i < 40; i++ {
		accounts = append(accounts, Account{
			ID:     fmt.Sprintf("acct-%02d", i),
			Server: "FTTrading-Server",
			Label:  "$6K - Fast - Phase 1",
			Snapshot: domain.AccountSnapshot{
				Balance: 6000, Equity: 6000 - float64(i*10), StartingBalance: 6000, DailyStartingEquity: 6000,
			},
		})
	}

	serial := NewEvaluator(catalog.Builtin(), WithLogger(quiet()), WithWorkers(1)).Evaluate(context.Background(), accounts)
	parallel := NewEvaluator(catalog.Builtin(), WithLogger(quiet()), WithWorkers(8)).Evaluate(context.Background(), accounts)
	assert.Equal(t, serial, parallel)

	// 3% daily limit on 6000 is 180.
	assert.False(t, serial[17].Report.Compliance.Locked)
	assert.True(t, serial[19].Report.Compliance.Locked)
	assert.Equal(t, rules.StatusWarning, serial[17].Report.DailyStatus)
}

func TestEvaluateCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := newEvaluator().Evaluate(ctx, []Account{{ID: "a"}, {ID: "b"}})
	require.Len(t, out, 2)
	for _, o := range out {
		assert.ErrorIs(t, o.Err, context.Canceled)
	}
}

func sizingJob(id string, sl float64) SizingJob {
	return SizingJob{
		AccountID: id,
		Request: risk.Request{
			Balance:   10000,
			Direction: risk.Buy,
			Instrument: &domain.Instrument{
				Symbol: "EURUSD", Point: 0.00001, Digits: 5, ContractSize: 100000,
				VolumeMin: 0.01, VolumeMax: 100, VolumeStep: 0.01,
			},
			Tick:       &domain.Tick{Bid: 1.0999, Ask: 1.1},
			Risk:       risk.RiskSpec{Kind: risk.RiskPercent, Value: 1},
			StopLoss:   sl,
			TakeProfit: 1.11,
		},
		Margin: risk.Margin{Required: 440, Free: 9000, Known: true},
	}
}

func TestSizeIsolatesFailures(t *testing.T) {
	t.Parallel()

	noTick := sizingJob("no-tick", 1.095)
	noTick.Request.Tick = nil
	locked := sizingJob("locked", 1.095)
	locked.Locked = true

	jobs := []SizingJob{
		sizingJob("ok", 1.095),
		sizingJob("wrong-side", 1.105),
		noTick,
		locked,
	}

	out := newEvaluator(WithPolicy(risk.Policy{MaxRiskPct: 2, MinRR: 1.5})).Size(context.Background(), jobs)
	require.Len(t, out, 4)

	assert.NoError(t, out[0].Err)
	assert.Equal(t, 0.2, out[0].Sizing.LotSize)
	assert.True(t, out[0].Decision.Allowed)

	assert.True(t, errors.Is(out[1].Err, domain.ErrValidation))
	assert.True(t, errors.Is(out[2].Err, domain.ErrDataUnavailable))

	assert.NoError(t, out[3].Err)
	assert.False(t, out[3].Decision.Allowed)
	require.Len(t, out[3].Decision.Violations, 1)
	assert.Equal(t, "ACCOUNT_LOCKED", out[3].Decision.Violations[0].Code)
}

func TestRunRecoversPanics(t *testing.T) {
	t.Parallel()

	out := run(context.Background(), 2, []int{1, 0, 3},
		func(n int) error {
			if n == 0 {
				panic("boom")
			}
			return nil
		},
		func(_ int, err error) error { return err })

	assert.NoError(t, out[0])
	assert.ErrorContains(t, out[1], "panic: boom")
	assert.NoError(t, out[2])
}
