package domain

import (
	"fmt"
	"strings"
)

type DrawdownType string

const (
	DrawdownStatic   DrawdownType = "static"
	DrawdownTrailing DrawdownType = "trailing"
)

// ParseDrawdownType accepts the stored spellings, including the legacy
// "eod_trailing". An empty string means static.
func ParseDrawdownType(s string) (DrawdownType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "static":
		return DrawdownStatic, nil
	case "trailing", "eod_trailing":
		return DrawdownTrailing, nil
	}
	return "", NewValidationError("drawdown_type", s, "unknown drawdown type")
}

func (d *DrawdownType) UnmarshalText(b []byte) error {
	v, err := ParseDrawdownType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

type PayoutType string

const (
	PayoutFixed    PayoutType = "fixed"
	PayoutOnDemand PayoutType = "on_demand"
)

// AccountNamePattern maps a label substring to a program/phase pair.
// Patterns are evaluated in declared order and the first hit wins.
type AccountNamePattern struct {
	Contains string `json:"contains" yaml:"contains"`
	Program  string `json:"program" yaml:"program"`
	Phase    string `json:"phase" yaml:"phase"`
}

type PhaseRule struct {
	Name          string       `json:"phase_name" yaml:"phase_name"`
	Order         int          `json:"phase_order" yaml:"phase_order"`
	ProfitTarget  *float64     `json:"profit_target,omitempty" yaml:"profit_target,omitempty"` // nil: no target (funded)
	DailyDrawdown float64      `json:"daily_drawdown" yaml:"daily_drawdown"`
	MaxDrawdown   float64      `json:"max_drawdown" yaml:"max_drawdown"`
	DrawdownType  DrawdownType `json:"drawdown_type" yaml:"drawdown_type"`
}

type Program struct {
	ID                    int64       `json:"id,omitempty" yaml:"id,omitempty"`
	Name                  string      `json:"program_name" yaml:"program_name"`
	MinTradingDays        *int        `json:"min_trading_days,omitempty" yaml:"min_trading_days,omitempty"`
	MaxMarginPct          *float64    `json:"max_margin_pct,omitempty" yaml:"max_margin_pct,omitempty"`
	PayoutDays            *int        `json:"payout_days,omitempty" yaml:"payout_days,omitempty"`
	PayoutType            PayoutType  `json:"payout_type,omitempty" yaml:"payout_type,omitempty"`
	BestDayRulePct        *float64    `json:"best_day_rule_pct,omitempty" yaml:"best_day_rule_pct,omitempty"`
	MinProfitDays         *int        `json:"min_profit_days,omitempty" yaml:"min_profit_days,omitempty"`
	ProfitDayThresholdPct *float64    `json:"profit_day_threshold_pct,omitempty" yaml:"profit_day_threshold_pct,omitempty"`
	Phases                []PhaseRule `json:"phase_rules" yaml:"phase_rules"`
}

// Phase returns the rule with the given name.
func (p *Program) Phase(name string) (PhaseRule, bool) {
	if p == nil || name == "" {
		return PhaseRule{}, false
	}
	for _, r := range p.Phases {
		if r.Name == name {
			return r, true
		}
	}
	return PhaseRule{}, false
}

// FirstPhase returns the rule with the lowest phase order.
func (p *Program) FirstPhase() (PhaseRule, bool) {
	if p == nil || len(p.Phases) == 0 {
		return PhaseRule{}, false
	}
	first := p.Phases[0]
	for _, r := range p.Phases[1:] {
		if r.Order < first.Order {
			first = r
		}
	}
	return first, true
}

type Fund struct {
	Name          string               `json:"fund_name" yaml:"fund_name"`
	ServerPattern string               `json:"server_pattern" yaml:"server_pattern"`
	NameFormat    string               `json:"name_format,omitempty" yaml:"name_format,omitempty"`
	Patterns      []AccountNamePattern `json:"account_name_patterns" yaml:"account_name_patterns"`
	Programs      []Program            `json:"programs" yaml:"programs"`
}

func (f *Fund) Program(name string) (*Program, bool) {
	for i := range f.Programs {
		if f.Programs[i].Name == name {
			return &f.Programs[i], true
		}
	}
	return nil, false
}

// Classification is the program/phase pair resolved from an account label.
type Classification struct {
	Program string `json:"program_name" yaml:"program_name"`
	Phase   string `json:"phase_name" yaml:"phase_name"`
}

func (c Classification) String() string {
	return fmt.Sprintf("%s / %s", c.Program, c.Phase)
}

// AccountSnapshot is captured by the terminal adapter before any evaluation.
type AccountSnapshot struct {
	Balance             float64 `json:"balance" yaml:"balance"`
	Equity              float64 `json:"equity" yaml:"equity"`
	StartingBalance     float64 `json:"starting_balance" yaml:"starting_balance"`
	DailyStartingEquity float64 `json:"daily_starting_equity" yaml:"daily_starting_equity"`
	MarginUsedPct       float64 `json:"margin_used_pct" yaml:"margin_used_pct"`
	ProgramID           *int64  `json:"program_id,omitempty" yaml:"program_id,omitempty"`
	Phase               string  `json:"current_phase,omitempty" yaml:"current_phase,omitempty"`
}

// Instrument is the broker contract metadata needed for sizing.
type Instrument struct {
	Symbol       string  `json:"symbol" yaml:"symbol"`
	Point        float64 `json:"point" yaml:"point"`
	Digits       int     `json:"digits" yaml:"digits"`
	ContractSize float64 `json:"contract_size" yaml:"contract_size"`
	VolumeMin    float64 `json:"volume_min" yaml:"volume_min"`
	VolumeMax    float64 `json:"volume_max" yaml:"volume_max"`
	VolumeStep   float64 `json:"volume_step" yaml:"volume_step"`
}

type Tick struct {
	Bid float64 `json:"bid" yaml:"bid"`
	Ask float64 `json:"ask" yaml:"ask"`
}

const (
	ViolationDailyDrawdown = "daily_drawdown"
	ViolationMaxDrawdown   = "max_drawdown"
	ViolationMaxMargin     = "max_margin"

	CheckBestDay = "best_day"
)

type ComplianceResult struct {
	Locked       bool         `json:"locked"`
	Violations   []string     `json:"violations"`
	Messages     []string     `json:"messages"`
	NotEvaluated []string     `json:"not_evaluated,omitempty"`
	DailyLossPct float64      `json:"daily_loss_pct"`
	MaxLossPct   float64      `json:"max_loss_pct"`
	DrawdownType DrawdownType `json:"drawdown_type,omitempty"`
	Phase        string       `json:"phase,omitempty"`

	// Err annotates configuration problems; the result is still usable.
	Err error `json:"-"`
}

func (r ComplianceResult) Violated(code string) bool {
	for _, v := range r.Violations {
		if v == code {
			return true
		}
	}
	return false
}

type ProfitResult struct {
	Achieved bool     `json:"achieved"`
	Target   *float64 `json:"target"`
	Current  float64  `json:"current"`
	Progress float64  `json:"progress"`
}
