package inventory

import (
	"encoding/json"
	"net/http"

	"vetclinic-dashboard/internal/loader"
	"vetclinic-dashboard/internal/platform/format"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, l *loader.Loader[Item]) {
	r.Get("/inventory", listInventoryHandler(l))
}

type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    *string         `json:"category"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	Unit        *string         `json:"unit"`
	Price       decimal.Decimal `json:"price"`
	PriceLabel  string          `json:"price_label"`
	ImageURL    *string         `json:"image_url"`
	LowStock    bool            `json:"low_stock"`
	StockBar    float64         `json:"stock_bar"`
}

type summaryResponse struct {
	Summary
	TotalValueLabel string `json:"total_value_label"`
}

type listInventoryResponse struct {
	State   loader.State    `json:"state"`
	Status  loader.Status   `json:"status"`
	Summary summaryResponse `json:"summary"`
	Items   []ItemResponse  `json:"items"`
}

// listInventoryHandler godoc
// @Summary Estoque
// @Description Items ordenados por nombre con flag de stock bajo (quantity <= min_quantity) y resumen.
// @Tags inventory
// @Produce json
// @Success 200 {object} listInventoryResponse
// @Router /inventory [get]
func listInventoryHandler(l *loader.Loader[Item]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := l.Load(r.Context())
		sum := Summarize(res.Items)

		writeJSON(w, http.StatusOK, listInventoryResponse{
			State:  res.State,
			Status: res.Status,
			Summary: summaryResponse{
				Summary:         sum,
				TotalValueLabel: format.BRL(sum.TotalValue),
			},
			Items: ToResponses(res.Items),
		})
	}
}

// ToResponses también lo usa el dashboard para las alertas de stock.
func ToResponses(items []Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, ItemResponse{
			ID:          it.ID,
			Name:        it.Name,
			Category:    it.Category,
			Quantity:    it.Qty(),
			MinQuantity: it.MinQty(),
			Unit:        it.Unit,
			Price:       it.UnitPrice(),
			PriceLabel:  format.BRL(it.UnitPrice()),
			ImageURL:    it.ImageURL,
			LowStock:    it.LowStock(),
			StockBar:    it.StockBar(),
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
