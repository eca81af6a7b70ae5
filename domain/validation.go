package domain

import (
	"errors"
	"fmt"
	"strings"
)

// TemplateCheck compiles a name format and reports its placeholder names.
// It is supplied by the label package so domain stays free of matching logic.
type TemplateCheck func(format string) (placeholders []string, err error)

// Validate checks a fund definition at load time. Problems are joined so a
// catalog author sees all of them at once.
func (f *Fund) Validate(check TemplateCheck) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, NewConfigurationError("fund %q: "+format, append([]any{f.Name}, args...)...))
	}

	if strings.TrimSpace(f.Name) == "" {
		add("fund_name is required")
	}
	if strings.TrimSpace(f.ServerPattern) == "" {
		add("server_pattern is required")
	}

	if f.NameFormat != "" && check != nil {
		names, err := check(f.NameFormat)
		if err != nil {
			add("name_format %q: %v", f.NameFormat, err)
		} else if !contains(names, "phase") {
			add("name_format %q has no {phase} placeholder", f.NameFormat)
		}
	}

	programs := map[string]*Program{}
	for i := range f.Programs {
		p := &f.Programs[i]
		if p.Name == "" {
			add("program #%d has no name", i+1)
			continue
		}
		if _, dup := programs[p.Name]; dup {
			add("duplicate program %q", p.Name)
		}
		programs[p.Name] = p
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("fund %q: %w", f.Name, err))
		}
	}

	for i, pat := range f.Patterns {
		if strings.TrimSpace(pat.Contains) == "" {
			add("pattern #%d has an empty substring", i+1)
			continue
		}
		p, ok := programs[pat.Program]
		if !ok {
			add("pattern %q references unknown program %q", pat.Contains, pat.Program)
			continue
		}
		if _, ok := p.Phase(pat.Phase); !ok {
			add("pattern %q references unknown phase %q in program %q", pat.Contains, pat.Phase, pat.Program)
		}
	}

	return errors.Join(errs...)
}

func (p *Program) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, NewConfigurationError("program %q: "+format, append([]any{p.Name}, args...)...))
	}

	switch p.PayoutType {
	case "", PayoutFixed, PayoutOnDemand:
	default:
		add("unknown payout_type %q", p.PayoutType)
	}
	if p.MaxMarginPct != nil && *p.MaxMarginPct <= 0 {
		add("max_margin_pct must be positive")
	}
	if p.BestDayRulePct != nil && (*p.BestDayRulePct <= 0 || *p.BestDayRulePct > 100) {
		add("best_day_rule_pct must be in (0, 100]")
	}
	if len(p.Phases) == 0 {
		add("no phase rules")
	}

	orders := map[int]string{}
	names := map[string]bool{}
	for _, r := range p.Phases {
		if r.Name == "" {
			add("phase with order %d has no name", r.Order)
		}
		if names[r.Name] {
			add("duplicate phase %q", r.Name)
		}
		names[r.Name] = true
		if other, dup := orders[r.Order]; dup {
			add("phases %q and %q share phase_order %d", other, r.Name, r.Order)
		}
		orders[r.Order] = r.Name
		if r.DailyDrawdown < 0 || r.MaxDrawdown < 0 {
			add("phase %q has a negative drawdown limit", r.Name)
		}
		if r.ProfitTarget != nil && *r.ProfitTarget < 0 {
			add("phase %q has a negative profit target", r.Name)
		}
		switch r.DrawdownType {
		case "", DrawdownStatic, DrawdownTrailing:
		default:
			add("phase %q has unknown drawdown_type %q", r.Name, r.DrawdownType)
		}
	}
	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
