package risk

import (
	"strings"

	"github.com/rustyeddy/propfund/domain"
)

type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToUpper(strings.TrimSpace(s))) {
	case Buy:
		return Buy, nil
	case Sell:
		return Sell, nil
	}
	return "", domain.NewValidationError("direction", s, "direction must be BUY or SELL")
}

type RiskKind string

const (
	RiskPercent RiskKind = "percent"
	RiskFixed   RiskKind = "fixed"
)

// RiskSpec is how much to lose if the stop is hit: a percentage of balance
// (1 means 1%) or a fixed amount in account currency.
type RiskSpec struct {
	Kind  RiskKind `json:"kind" yaml:"kind"`
	Value float64  `json:"value" yaml:"value"`
}

// Request carries everything SizePosition needs. Instrument and Tick must be
// captured from the terminal before the call; nil means it was unavailable.
type Request struct {
	Balance    float64
	Direction  Direction
	Instrument *domain.Instrument
	Tick       *domain.Tick
	Risk       RiskSpec
	StopLoss   float64
	TakeProfit float64 // optional, 0 for none
}

// Sizing is the result of SizePosition. Prices are rounded to the instrument
// digits, lots to 2 decimals, money and percentages to 2 decimals.
type Sizing struct {
	Direction      Direction `json:"direction"`
	EntryPrice     float64   `json:"entry_price"`
	StopLoss       float64   `json:"sl_price"`
	TakeProfit     float64   `json:"tp_price"`
	SLPips         float64   `json:"sl_pips"`
	TPPips         float64   `json:"tp_pips"`
	PipValuePerLot float64   `json:"pip_value_per_lot"`

	RawLotSize float64 `json:"raw_lot_size"`
	LotSize    float64 `json:"lot_size"`
	Clamped    bool    `json:"clamped"` // min/max volume overrode the floored lot

	// Requested risk.
	RiskAmount float64 `json:"risk_amount"`
	RiskPct    float64 `json:"risk_pct"`
	// Risk at the rounded lot size; may differ from the request.
	ActualRiskAmount float64 `json:"actual_risk_amount"`
	ActualRiskPct    float64 `json:"actual_risk_pct"`

	RewardAmount float64 `json:"reward_amount"`
	RRRatio      float64 `json:"rr_ratio"`
}

// Policy holds optional pre-trade limits. Zero values disable a check.
type Policy struct {
	MaxRiskPct float64 `json:"max_risk_pct" yaml:"max_risk_pct"` // 2 means 2%
	MinRR      float64 `json:"min_rr" yaml:"min_rr"`
}

// Margin is the terminal's view of the order's margin. Known is false when
// the terminal could not compute the requirement.
type Margin struct {
	Required float64
	Free     float64
	Known    bool
}
