package risk

import (
	"fmt"

	"github.com/rustyeddy/propfund/domain"
)

// SizePosition computes the lot size that loses the requested risk when the
// stop is hit. The raw size is floored to the volume step, never rounded up,
// then clamped into [VolumeMin, VolumeMax]; the risk actually taken at that
// size is reported next to the requested one.
func SizePosition(req Request) (Sizing, error) {
	inst, tick := req.Instrument, req.Tick
	if inst == nil {
		return Sizing{}, domain.NewDataUnavailableError("instrument metadata unavailable")
	}
	if tick == nil {
		return Sizing{}, domain.NewDataUnavailableError("tick price unavailable for %s", inst.Symbol)
	}
	if err := checkInstrument(inst); err != nil {
		return Sizing{}, err
	}

	var entry float64
	switch req.Direction {
	case Buy:
		entry = tick.Ask
	case Sell:
		entry = tick.Bid
	default:
		return Sizing{}, domain.NewValidationError("direction", req.Direction, "direction must be BUY or SELL")
	}
	if entry <= 0 {
		return Sizing{}, domain.NewDataUnavailableError("no %s price for %s", req.Direction, inst.Symbol)
	}

	if req.StopLoss <= 0 {
		return Sizing{}, domain.NewValidationError("sl_price", req.StopLoss, "stop loss is required")
	}
	pip := PipSize(inst.Point)
	pipValue := PipValuePerLot(inst.Point, inst.ContractSize)

	slPips := StopPips(req.Direction, entry, req.StopLoss, pip)
	if slPips <= 0 {
		return Sizing{}, domain.NewValidationError("sl_price", req.StopLoss,
			fmt.Sprintf("stop loss on the wrong side of entry %v", entry))
	}

	var riskAmount float64
	switch req.Risk.Kind {
	case RiskPercent:
		riskAmount = req.Balance * req.Risk.Value / 100
	case RiskFixed:
		riskAmount = req.Risk.Value
	default:
		return Sizing{}, domain.NewValidationError("risk.kind", req.Risk.Kind, "risk kind must be percent or fixed")
	}
	if riskAmount <= 0 {
		return Sizing{}, domain.NewValidationError("risk_amount", riskAmount, "risk amount must be positive")
	}

	raw := riskAmount / (slPips * pipValue)
	floored := domain.FloorToStep(raw, inst.VolumeStep)
	lot := floored
	if lot < inst.VolumeMin {
		lot = inst.VolumeMin
	}
	if lot > inst.VolumeMax {
		lot = inst.VolumeMax
	}

	actual := lot * slPips * pipValue

	var tpPips, reward float64
	if req.TakeProfit > 0 {
		tpPips = TargetPips(req.Direction, entry, req.TakeProfit, pip)
		reward = lot * tpPips * pipValue
	}

	return Sizing{
		Direction:        req.Direction,
		EntryPrice:       domain.Round(entry, inst.Digits),
		StopLoss:         domain.Round(req.StopLoss, inst.Digits),
		TakeProfit:       domain.Round(req.TakeProfit, inst.Digits),
		SLPips:           domain.Round2(slPips),
		TPPips:           domain.Round2(tpPips),
		PipValuePerLot:   domain.Round2(pipValue),
		RawLotSize:       domain.Round(raw, 4),
		LotSize:          domain.Round2(lot),
		Clamped:          lot != floored,
		RiskAmount:       domain.Round2(riskAmount),
		RiskPct:          domain.Round2(RiskPct(riskAmount, req.Balance)),
		ActualRiskAmount: domain.Round2(actual),
		ActualRiskPct:    domain.Round2(RiskPct(actual, req.Balance)),
		RewardAmount:     domain.Round2(reward),
		RRRatio:          domain.Round2(RR(slPips, tpPips)),
	}, nil
}

func checkInstrument(inst *domain.Instrument) error {
	switch {
	case inst.Point <= 0:
		return domain.NewDataUnavailableError("%s: point size missing", inst.Symbol)
	case inst.ContractSize <= 0:
		return domain.NewDataUnavailableError("%s: contract size missing", inst.Symbol)
	case inst.VolumeStep <= 0:
		return domain.NewDataUnavailableError("%s: volume step missing", inst.Symbol)
	case inst.VolumeMin <= 0 || inst.VolumeMax < inst.VolumeMin:
		return domain.NewDataUnavailableError("%s: volume limits %v..%v invalid", inst.Symbol, inst.VolumeMin, inst.VolumeMax)
	}
	return nil
}
