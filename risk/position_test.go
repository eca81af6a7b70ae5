package risk

import (
	"errors"
	"testing"

	"github.com/rustyeddy/propfund/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eurusd() *domain.Instrument {
	return &domain.Instrument{
		Symbol:       "EURUSD",
		Point:        0.00001,
		Digits:       5,
		ContractSize: 100000,
		VolumeMin:    0.01,
		VolumeMax:    100,
		VolumeStep:   0.01,
	}
}

func request() Request {
	return Request{
		Balance:    10000,
		Direction:  Buy,
		Instrument: eurusd(),
		Tick:       &domain.Tick{Bid: 1.09990, Ask: 1.10000},
		Risk:       RiskSpec{Kind: RiskPercent, Value: 1},
		StopLoss:   1.09500,
	}
}

func TestPipSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		point float64
		want  float64
	}{
		{"five digit fx", 0.00001, 0.0001},
		{"three digit jpy", 0.001, 0.01},
		{"index", 0.1, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, PipSize(tt.point), 1e-12)
		})
	}
}

func TestSizePositionBuy(t *testing.T) {
	t.Parallel()

	got, err := SizePosition(request())
	require.NoError(t, err)

	assert.Equal(t, 1.1, got.EntryPrice)
	assert.Equal(t, 50.0, got.SLPips)
	assert.Equal(t, 10.0, got.PipValuePerLot)
	assert.Equal(t, 100.0, got.RiskAmount)
	assert.Equal(t, 1.0, got.RiskPct)
	assert.Equal(t, 0.2, got.LotSize)
	assert.False(t, got.Clamped)
	assert.Equal(t, 100.0, got.ActualRiskAmount)
	assert.Zero(t, got.TPPips)
	assert.Zero(t, got.RewardAmount)
	assert.Zero(t, got.RRRatio)
}

func TestSizePositionFloorsToStep(t *testing.T) {
	t.Parallel()

	req := request()
	req.Risk = RiskSpec{Kind: RiskFixed, Value: 123}
	req.TakeProfit = 1.11000

	got, err := SizePosition(req)
	require.NoError(t, err)

	// 123 / (50 * 10) = 0.246 -> 0.24, never 0.25
	assert.Equal(t, 0.246, got.RawLotSize)
	assert.Equal(t, 0.24, got.LotSize)
	assert.Equal(t, 123.0, got.RiskAmount)
	assert.Equal(t, 1.23, got.RiskPct)
	assert.Equal(t, 120.0, got.ActualRiskAmount)
	assert.Equal(t, 1.2, got.ActualRiskPct)
	assert.Equal(t, 100.0, got.TPPips)
	assert.Equal(t, 240.0, got.RewardAmount)
	assert.Equal(t, 2.0, got.RRRatio)
	assert.Equal(t, 1.11, got.TakeProfit)
}

func TestSizePositionClamps(t *testing.T) {
	t.Parallel()

	req := request()
	req.Risk = RiskSpec{Kind: RiskFixed, Value: 2}
	got, err := SizePosition(req)
	require.NoError(t, err)
	assert.Equal(t, 0.01, got.LotSize)
	assert.True(t, got.Clamped, "0.004 floors to 0 and is lifted to the minimum")

	req.Instrument.VolumeMin = 0.1
	got, err = SizePosition(req)
	require.NoError(t, err)
	assert.Equal(t, 0.1, got.LotSize)
	assert.True(t, got.Clamped)
	assert.Equal(t, 50.0, got.ActualRiskAmount, "minimum lot risks more than requested")

	req = request()
	req.Risk = RiskSpec{Kind: RiskPercent, Value: 50}
	req.Balance = 1_000_000
	req.Instrument.VolumeMax = 50
	got, err = SizePosition(req)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.LotSize)
	assert.True(t, got.Clamped)
	assert.Equal(t, 25000.0, got.ActualRiskAmount)
	assert.Equal(t, 2.5, got.ActualRiskPct)
}

func TestSizePositionSell(t *testing.T) {
	t.Parallel()

	req := request()
	req.Direction = Sell
	req.StopLoss = 1.10290
	req.TakeProfit = 1.09390

	got, err := SizePosition(req)
	require.NoError(t, err)
	assert.Equal(t, 1.0999, got.EntryPrice)
	assert.Equal(t, 30.0, got.SLPips)
	assert.Equal(t, 60.0, got.TPPips)
	assert.Equal(t, 0.33, got.LotSize)
	assert.Equal(t, 2.0, got.RRRatio)
}

func TestSizePositionWrongSideStop(t *testing.T) {
	t.Parallel()

	req := request()
	req.StopLoss = 1.10500
	_, err := SizePosition(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	req = request()
	req.Direction = Sell
	req.StopLoss = 1.09000
	_, err = SizePosition(req)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	req = request()
	req.StopLoss = req.Tick.Ask
	_, err = SizePosition(req)
	assert.True(t, errors.Is(err, domain.ErrValidation), "stop at entry")
}

func TestSizePositionValidation(t *testing.T) {
	t.Parallel()

	mutate := map[string]func(*Request){
		"no stop":        func(r *Request) { r.StopLoss = 0 },
		"zero risk":      func(r *Request) { r.Risk.Value = 0 },
		"negative fixed": func(r *Request) { r.Risk = RiskSpec{Kind: RiskFixed, Value: -5} },
		"unknown kind":   func(r *Request) { r.Risk.Kind = "lots" },
		"no direction":   func(r *Request) { r.Direction = "" },
		"zero balance":   func(r *Request) { r.Balance = 0 },
	}
	for name, fn := range mutate {
		req := request()
		fn(&req)
		_, err := SizePosition(req)
		assert.True(t, errors.Is(err, domain.ErrValidation), name)
	}
}

func TestSizePositionDataUnavailable(t *testing.T) {
	t.Parallel()

	mutate := map[string]func(*Request){
		"no instrument": func(r *Request) { r.Instrument = nil },
		"no tick":       func(r *Request) { r.Tick = nil },
		"no ask":        func(r *Request) { r.Tick.Ask = 0 },
		"no point":      func(r *Request) { r.Instrument.Point = 0 },
		"no contract":   func(r *Request) { r.Instrument.ContractSize = 0 },
		"no step":       func(r *Request) { r.Instrument.VolumeStep = 0 },
		"bad limits":    func(r *Request) { r.Instrument.VolumeMax = 0.001 },
	}
	for name, fn := range mutate {
		req := request()
		fn(&req)
		_, err := SizePosition(req)
		assert.True(t, errors.Is(err, domain.ErrDataUnavailable), name)
	}
}

func TestSizePositionIdempotent(t *testing.T) {
	t.Parallel()

	req := request()
	req.TakeProfit = 1.1075
	a, errA := SizePosition(req)
	b, errB := SizePosition(req)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, a, b)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	s := Sizing{ActualRiskPct: 1.5, RRRatio: 1.2}
	ok := Margin{Required: 100, Free: 500, Known: true}

	d := Check(Policy{}, s, false, ok)
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Violations)

	d = Check(Policy{MaxRiskPct: 1, MinRR: 1.5}, s, true, Margin{})
	assert.False(t, d.Allowed)
	codes := []string{}
	for _, v := range d.Violations {
		codes = append(codes, v.Code)
	}
	assert.Equal(t, []string{"ACCOUNT_LOCKED", "RISK_TOO_HIGH", "RR_TOO_LOW", "MARGIN_INSUFFICIENT"}, codes)
}

func TestMarginOK(t *testing.T) {
	t.Parallel()

	assert.True(t, MarginOK(Margin{Required: 100, Free: 100, Known: true}))
	assert.False(t, MarginOK(Margin{Required: 101, Free: 100, Known: true}))
	assert.False(t, MarginOK(Margin{Free: 100}))
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, err := ParseDirection(" buy ")
	require.NoError(t, err)
	assert.Equal(t, Buy, d)

	d, err = ParseDirection("SELL")
	require.NoError(t, err)
	assert.Equal(t, Sell, d)

	_, err = ParseDirection("hold")
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
