package catalog

import "github.com/rustyeddy/propfund/domain"

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

// Templates returns the built-in fund definitions keyed by fund name. Each
// call returns fresh values the caller may modify.
func Templates() map[string]domain.Fund {
	return map[string]domain.Fund{
		"FTMO":      ftmo(),
		"The5ers":   the5ers(),
		"Fortrades": fortrades(),
	}
}

// TemplateNames is the stable order used when listing templates.
var TemplateNames = []string{"FTMO", "The5ers", "Fortrades"}

func ftmo() domain.Fund {
	return domain.Fund{
		Name:          "FTMO",
		ServerPattern: "FTMO-Server",
		Patterns: []domain.AccountNamePattern{
			{Contains: "FTMO 1Step Challenge", Program: "1 Phase", Phase: "Phase 1"},
			{Contains: "FTMO 1Step Trader", Program: "1 Phase", Phase: "Funded"},
			{Contains: "Verification", Program: "2 Phase", Phase: "Phase 2"},
			{Contains: "Challenge", Program: "2 Phase", Phase: "Phase 1"},
			{Contains: "FTMO Trader", Program: "2 Phase", Phase: "Funded"},
			{Contains: "Trader", Program: "2 Phase", Phase: "Funded"},
		},
		Programs: []domain.Program{
			{
				Name:           "1 Phase",
				PayoutDays:     intp(14),
				PayoutType:     domain.PayoutFixed,
				BestDayRulePct: f64(50),
				Phases: []domain.PhaseRule{
					{Name: "Phase 1", Order: 1, ProfitTarget: f64(10), DailyDrawdown: 3, MaxDrawdown: 10, DrawdownType: domain.DrawdownTrailing},
					{Name: "Funded", Order: 2, DailyDrawdown: 3, MaxDrawdown: 10, DrawdownType: domain.DrawdownTrailing},
				},
			},
			{
				Name:           "2 Phase",
				MinTradingDays: intp(4),
				PayoutDays:     intp(14),
				PayoutType:     domain.PayoutFixed,
				Phases: []domain.PhaseRule{
					{Name: "Phase 1", Order: 1, ProfitTarget: f64(10), DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
					{Name: "Phase 2", Order: 2, ProfitTarget: f64(5), DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
					{Name: "Funded", Order: 3, DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
				},
			},
		},
	}
}

// The5ers names accounts "FHS-7.5K Holder Name"; the leading code is the phase.
func the5ers() domain.Fund {
	return domain.Fund{
		Name:          "The5ers",
		ServerPattern: "FivePercentOnline-Real",
		NameFormat:    "{phase}-{bal} {name}",
		Patterns: []domain.AccountNamePattern{
			{Contains: "FHS", Program: "2 Phase", Phase: "Funded"},
			{Contains: "HS2", Program: "2 Phase", Phase: "Phase 2"},
			{Contains: "HS1", Program: "2 Phase", Phase: "Phase 1"},
		},
		Programs: []domain.Program{
			{
				Name:                  "2 Phase",
				MinProfitDays:         intp(3),
				ProfitDayThresholdPct: f64(0.5),
				PayoutDays:            intp(14),
				PayoutType:            domain.PayoutOnDemand,
				Phases: []domain.PhaseRule{
					{Name: "Phase 1", Order: 1, ProfitTarget: f64(8), DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
					{Name: "Phase 2", Order: 2, ProfitTarget: f64(5), DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
					{Name: "Funded", Order: 3, DailyDrawdown: 5, MaxDrawdown: 10, DrawdownType: domain.DrawdownStatic},
				},
			},
		},
	}
}

// Fortrades names accounts "$6K - Fast - Phase 1".
func fortrades() domain.Fund {
	return domain.Fund{
		Name:          "Fortrades",
		ServerPattern: "FTTrading-Server",
		NameFormat:    "{bal} - {type} - {phase}",
		Patterns: []domain.AccountNamePattern{
			{Contains: "Funded", Program: "1 Phase", Phase: "Funded"},
			{Contains: "FT Trader", Program: "1 Phase", Phase: "Funded"},
			{Contains: "Phase 1", Program: "1 Phase", Phase: "Phase 1"},
			{Contains: "Challenge", Program: "1 Phase", Phase: "Phase 1"},
			{Contains: "Evaluation", Program: "1 Phase", Phase: "Phase 1"},
		},
		Programs: []domain.Program{
			{
				Name:           "1 Phase",
				MinTradingDays: intp(3),
				MaxMarginPct:   f64(40),
				PayoutDays:     intp(14),
				PayoutType:     domain.PayoutFixed,
				Phases: []domain.PhaseRule{
					{Name: "Phase 1", Order: 1, ProfitTarget: f64(9), DailyDrawdown: 3, MaxDrawdown: 6, DrawdownType: domain.DrawdownStatic},
					{Name: "Funded", Order: 2, DailyDrawdown: 3, MaxDrawdown: 6, DrawdownType: domain.DrawdownStatic},
				},
			},
		},
	}
}
