package finance

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

type Summary struct {
	Revenues      decimal.Decimal `json:"revenues"`
	Expenses      decimal.Decimal `json:"expenses"`
	NetBalance    decimal.Decimal `json:"net_balance"`
	HealthPercent float64         `json:"health_percent"`
}

// Summarize suma entradas y salidas. HealthPercent es net/revenues*100
// limitado a [0, 100], y 0 cuando no hay entradas.
func Summarize(txs []Transaction) Summary {
	s := Summary{
		Revenues: decimal.Zero,
		Expenses: decimal.Zero,
	}
	for _, t := range txs {
		switch t.Type {
		case TypeIn:
			s.Revenues = s.Revenues.Add(t.Amount)
		case TypeOut:
			s.Expenses = s.Expenses.Add(t.Amount)
		}
	}
	s.NetBalance = s.Revenues.Sub(s.Expenses)

	if s.Revenues.IsPositive() {
		p := s.NetBalance.Div(s.Revenues).Mul(hundred)
		switch {
		case p.GreaterThan(hundred):
			p = hundred
		case p.IsNegative():
			p = decimal.Zero
		}
		s.HealthPercent = p.Round(2).InexactFloat64()
	}
	return s
}
