package risk

import "fmt"

type Violation struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

type Decision struct {
	Allowed    bool        `json:"allowed"`
	Violations []Violation `json:"violations,omitempty"`
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Check gates a sized order before it is sent. A locked account never trades;
// clamping alone is not a violation.
func Check(p Policy, s Sizing, locked bool, m Margin) Decision {
	d := Decision{Allowed: true}

	if locked {
		d.add("ACCOUNT_LOCKED", "account is locked by its fund rules")
	}

	if p.MaxRiskPct > 0 && s.ActualRiskPct > p.MaxRiskPct {
		d.add("RISK_TOO_HIGH",
			fmt.Sprintf("risk %.2f%% exceeds max %.2f%%", s.ActualRiskPct, p.MaxRiskPct))
	}
	if p.MinRR > 0 && s.RRRatio < p.MinRR {
		d.add("RR_TOO_LOW",
			fmt.Sprintf("RR %.2f below minimum %.2f", s.RRRatio, p.MinRR))
	}

	if !MarginOK(m) {
		d.add("MARGIN_INSUFFICIENT",
			fmt.Sprintf("required margin %.2f exceeds free margin %.2f", m.Required, m.Free))
	}

	return d
}

// MarginOK reports whether free margin covers the requirement. An unknown
// requirement is treated as not covered.
func MarginOK(m Margin) bool {
	return m.Known && m.Free >= m.Required
}
