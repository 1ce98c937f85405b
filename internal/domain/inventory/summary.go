package inventory

import "github.com/shopspring/decimal"

type Summary struct {
	TotalProducts int             `json:"total_products"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStockCount int             `json:"low_stock_count"`
	BestSeller    string          `json:"best_seller"`
}

// Summarize espera la colección ordenada por nombre: BestSeller es el
// primer item (placeholder, no es un ranking de ventas) o "N/A".
func Summarize(items []Item) Summary {
	s := Summary{
		TotalProducts: len(items),
		TotalValue:    decimal.Zero,
		BestSeller:    "N/A",
	}
	for _, it := range items {
		s.TotalValue = s.TotalValue.Add(it.UnitPrice().Mul(decimal.NewFromInt(int64(it.Qty()))))
		if it.LowStock() {
			s.LowStockCount++
		}
	}
	if len(items) > 0 {
		s.BestSeller = items[0].Name
	}
	return s
}
