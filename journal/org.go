package journal

import (
	"fmt"
	"strings"
)

// FormatRunOrg renders a run as an Org-mode block: the run facts in a
// PROPERTIES drawer, then one subheading per evaluation and sizing.
func FormatRunOrg(r Run, evals []EvaluationRecord, sizings []SizingRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* RUN: %s %s\n", r.Kind, shortID(r.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", r.RunID)
	fmt.Fprintf(&b, ":CREATED: [%s]\n", r.Created.UTC().Format("2006-01-02 Mon 15:04"))
	fmt.Fprintf(&b, ":CATALOG: %s\n", r.Catalog)
	fmt.Fprintf(&b, ":ITEMS: %d\n", r.Items)
	fmt.Fprintf(&b, ":LOCKED: %d\n", r.Locked)
	fmt.Fprintf(&b, ":REJECTED: %d\n", r.Rejected)
	fmt.Fprintf(&b, ":FAILED: %d\n", r.Failed)
	b.WriteString(":END:\n")

	for _, e := range evals {
		b.WriteString("\n")
		b.WriteString(formatEvaluationOrg(e))
	}
	for _, s := range sizings {
		b.WriteString("\n")
		b.WriteString(formatSizingOrg(s))
	}
	return b.String()
}

func formatEvaluationOrg(e EvaluationRecord) string {
	state := "OK"
	switch {
	case e.Error != "":
		state = "ERROR"
	case e.Locked:
		state = "LOCKED"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "** %s %s", state, e.AccountID)
	if e.Fund != "" {
		fmt.Fprintf(&b, " (%s / %s)", e.Fund, e.Program)
	}
	b.WriteString("\n:PROPERTIES:\n")
	fmt.Fprintf(&b, ":PHASE: %s\n", e.Phase)
	fmt.Fprintf(&b, ":EQUITY: %.2f\n", e.Equity)
	fmt.Fprintf(&b, ":DAILY_LOSS_PCT: %.2f\n", e.DailyLossPct)
	fmt.Fprintf(&b, ":MAX_LOSS_PCT: %.2f\n", e.MaxLossPct)
	fmt.Fprintf(&b, ":PROFIT_PCT: %.2f\n", e.ProfitPct)
	if e.ProfitTarget != nil {
		fmt.Fprintf(&b, ":PROFIT_TARGET: %g\n", *e.ProfitTarget)
	}
	b.WriteString(":END:\n")
	for _, m := range e.Messages {
		fmt.Fprintf(&b, "- %s\n", m)
	}
	if e.Error != "" {
		fmt.Fprintf(&b, "- error: %s\n", e.Error)
	}
	return b.String()
}

func formatSizingOrg(s SizingRecord) string {
	var b strings.Builder
	if s.Error != "" {
		fmt.Fprintf(&b, "** ERROR %s\n- %s\n", s.AccountID, s.Error)
		return b.String()
	}

	state := "ALLOWED"
	if !s.Allowed {
		state = "REJECTED"
	}
	fmt.Fprintf(&b, "** %s %s %s %.2f lots\n", state, s.AccountID, s.Direction, s.LotSize)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":ENTRY: %g\n", s.EntryPrice)
	fmt.Fprintf(&b, ":SL: %g\n", s.StopLoss)
	fmt.Fprintf(&b, ":TP: %g\n", s.TakeProfit)
	fmt.Fprintf(&b, ":RISK: %.2f\n", s.ActualRiskAmount)
	fmt.Fprintf(&b, ":RR: %.2f\n", s.RRRatio)
	b.WriteString(":END:\n")
	for _, v := range s.Violations {
		fmt.Fprintf(&b, "- [ ] %s\n", v)
	}
	return b.String()
}

// shortID keeps the tail of a ULID, where same-millisecond ids differ.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

