// Package config reads the run files fed to the propfund CLI: the accounts
// to evaluate, the orders to size and the pre-trade policy.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/propfund/batch"
	"github.com/rustyeddy/propfund/domain"
	"github.com/rustyeddy/propfund/risk"
	"gopkg.in/yaml.v3"
)

// Config is one run file.
type Config struct {
	// Catalog is a fund catalog file; empty means the built-in templates.
	Catalog  string          `json:"catalog,omitempty" yaml:"catalog,omitempty"`
	Policy   risk.Policy     `json:"policy" yaml:"policy"`
	Journal  JournalConfig   `json:"journal" yaml:"journal"`
	Accounts []batch.Account `json:"accounts,omitempty" yaml:"accounts,omitempty"`
	Orders   []OrderConfig   `json:"orders,omitempty" yaml:"orders,omitempty"`
}

// JournalConfig enables recording the run.
type JournalConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// OrderConfig is one order to size, with the terminal data captured for it.
type OrderConfig struct {
	AccountID  string             `json:"account_id" yaml:"account_id"`
	Locked     bool               `json:"locked,omitempty" yaml:"locked,omitempty"`
	Balance    float64            `json:"balance" yaml:"balance"`
	Direction  string             `json:"direction" yaml:"direction"`
	Instrument *domain.Instrument `json:"instrument,omitempty" yaml:"instrument,omitempty"`
	Tick       *domain.Tick       `json:"tick,omitempty" yaml:"tick,omitempty"`
	RiskPct    float64            `json:"risk_pct,omitempty" yaml:"risk_pct,omitempty"`
	RiskAmount float64            `json:"risk_amount,omitempty" yaml:"risk_amount,omitempty"`
	StopLoss   float64            `json:"sl_price" yaml:"sl_price"`
	TakeProfit float64            `json:"tp_price,omitempty" yaml:"tp_price,omitempty"`

	// Margin, when the terminal reported it.
	MarginRequired *float64 `json:"margin_required,omitempty" yaml:"margin_required,omitempty"`
	FreeMargin     float64  `json:"free_margin,omitempty" yaml:"free_margin,omitempty"`
}

// Job converts the order into a batch sizing job. A fixed risk amount wins
// over a percentage.
func (o OrderConfig) Job() batch.SizingJob {
	dir, _ := risk.ParseDirection(o.Direction)
	if dir == "" {
		dir = risk.Direction(o.Direction)
	}

	spec := risk.RiskSpec{Kind: risk.RiskPercent, Value: o.RiskPct}
	if o.RiskAmount > 0 {
		spec = risk.RiskSpec{Kind: risk.RiskFixed, Value: o.RiskAmount}
	}

	j := batch.SizingJob{
		AccountID: o.AccountID,
		Locked:    o.Locked,
		Request: risk.Request{
			Balance:    o.Balance,
			Direction:  dir,
			Instrument: o.Instrument,
			Tick:       o.Tick,
			Risk:       spec,
			StopLoss:   o.StopLoss,
			TakeProfit: o.TakeProfit,
		},
	}
	if o.MarginRequired != nil {
		j.Margin = risk.Margin{Required: *o.MarginRequired, Free: o.FreeMargin, Known: true}
	}
	return j
}

// Jobs converts every order.
func (c *Config) Jobs() []batch.SizingJob {
	jobs := make([]batch.SizingJob, len(c.Orders))
	for i, o := range c.Orders {
		jobs[i] = o.Job()
	}
	return jobs
}

// LoadFromFile loads a run file (YAML, falling back to JSON) and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the file's structure. Per-item data problems (a missing
// tick, a stop on the wrong side) are left to the engine so that one bad
// account does not reject the whole run.
func (c *Config) Validate() error {
	if c.Policy.MaxRiskPct < 0 || c.Policy.MaxRiskPct > 100 {
		return fmt.Errorf("policy.max_risk_pct must be between 0 and 100")
	}
	if c.Policy.MinRR < 0 {
		return fmt.Errorf("policy.min_rr must not be negative")
	}
	if c.Journal.Enabled && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path required when the journal is enabled")
	}
	if len(c.Accounts) == 0 && len(c.Orders) == 0 {
		return fmt.Errorf("config has no accounts or orders")
	}

	ids := map[string]bool{}
	for i, a := range c.Accounts {
		if a.ID == "" {
			return fmt.Errorf("accounts[%d].id is required", i)
		}
		if ids[a.ID] {
			return fmt.Errorf("accounts[%d]: duplicate id %q", i, a.ID)
		}
		ids[a.ID] = true
	}
	for i, o := range c.Orders {
		if o.AccountID == "" {
			return fmt.Errorf("orders[%d].account_id is required", i)
		}
		if o.RiskPct < 0 || o.RiskAmount < 0 {
			return fmt.Errorf("orders[%d]: risk must not be negative", i)
		}
	}
	return nil
}

// Default returns a sample run file covering each built-in fund.
func Default() *Config {
	required := 440.0
	return &Config{
		Policy:  risk.Policy{MaxRiskPct: 2, MinRR: 1.5},
		Journal: JournalConfig{DBPath: "./propfund.sqlite"},
		Accounts: []batch.Account{
			{
				ID:     "ftmo-100k",
				Server: "FTMO-Server3",
				Label:  "FTMO Challenge 100k",
				Snapshot: domain.AccountSnapshot{
					Balance: 101200, Equity: 100950, DailyStartingEquity: 101500,
				},
			},
			{
				ID:     "the5ers-10k",
				Server: "FivePercentOnline-Real",
				Label:  "HS1-10K Jane Doe",
				Snapshot: domain.AccountSnapshot{
					Balance: 10000, Equity: 9620, StartingBalance: 10000, DailyStartingEquity: 10050,
				},
			},
			{
				ID:     "fortrades-6k",
				Server: "FTTrading-Server",
				Label:  "$6K - Fast - Phase 1",
				Snapshot: domain.AccountSnapshot{
					Balance: 6200, Equity: 6180, DailyStartingEquity: 6200, MarginUsedPct: 12,
				},
			},
		},
		Orders: []OrderConfig{
			{
				AccountID: "ftmo-100k",
				Balance:   101200,
				Direction: "BUY",
				Instrument: &domain.Instrument{
					Symbol: "EURUSD", Point: 0.00001, Digits: 5, ContractSize: 100000,
					VolumeMin: 0.01, VolumeMax: 100, VolumeStep: 0.01,
				},
				Tick:           &domain.Tick{Bid: 1.08490, Ask: 1.08500},
				RiskPct:        0.5,
				StopLoss:       1.08300,
				TakeProfit:     1.08900,
				MarginRequired: &required,
				FreeMargin:     95000,
			},
		},
	}
}
