package risk

// PipSize is ten points; 0.0001 on a 5-digit FX quote.
func PipSize(point float64) float64 {
	return point * 10
}

// PipValuePerLot is the account-currency value of one pip on one lot.
// Quote currency is assumed to be the account currency.
func PipValuePerLot(point, contractSize float64) float64 {
	return PipSize(point) * contractSize
}

// StopPips is the stop distance from entry in pips. It is negative when the
// stop sits on the wrong side of entry.
func StopPips(dir Direction, entry, stop, pip float64) float64 {
	if dir == Sell {
		return (stop - entry) / pip
	}
	return (entry - stop) / pip
}

// TargetPips is the take-profit distance from entry in pips.
func TargetPips(dir Direction, entry, target, pip float64) float64 {
	if dir == Sell {
		return (entry - target) / pip
	}
	return (target - entry) / pip
}

// RR is reward over risk in pips; 0 unless both are positive.
func RR(slPips, tpPips float64) float64 {
	if slPips <= 0 || tpPips <= 0 {
		return 0
	}
	return tpPips / slPips
}

// RiskPct is amount as a percentage of balance; 0 for a non-positive balance.
func RiskPct(amount, balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	return amount / balance * 100
}
