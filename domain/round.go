package domain

import "github.com/shopspring/decimal"

// Round rounds half away from zero to the given number of decimal places.
// Going through decimal keeps 1.005 -> 1.01 instead of the binary 1.00.
func Round(v float64, places int) float64 {
	f, _ := decimal.NewFromFloat(v).Round(int32(places)).Float64()
	return f
}

// Round2 is used for money and percentages.
func Round2(v float64) float64 {
	return Round(v, 2)
}

// FloorToStep floors v to a multiple of step. A value within tol of the next
// multiple is treated as that multiple so 0.3/0.1 does not drop a step.
func FloorToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	d := decimal.NewFromFloat(v)
	s := decimal.NewFromFloat(step)
	q := d.Div(s)
	n := q.Round(0)
	if q.Sub(n).Abs().LessThan(decimal.New(1, -9)) {
		f, _ := n.Mul(s).Float64()
		return f
	}
	f, _ := q.Floor().Mul(s).Float64()
	return f
}
