package finance

import (
	"encoding/json"
	"net/http"

	"vetclinic-dashboard/internal/loader"
	"vetclinic-dashboard/internal/platform/format"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r chi.Router, l *loader.Loader[Transaction]) {
	r.Get("/finance", listTransactionsHandler(l))
}

type transactionResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	AmountLabel string          `json:"amount_label"`
	Date        string          `json:"date"`
}

type summaryResponse struct {
	Summary
	RevenuesLabel   string `json:"revenues_label"`
	ExpensesLabel   string `json:"expenses_label"`
	NetBalanceLabel string `json:"net_balance_label"`
	HealthLabel     string `json:"health_label"`
}

type listTransactionsResponse struct {
	State   loader.State          `json:"state"`
	Status  loader.Status         `json:"status"`
	Summary summaryResponse       `json:"summary"`
	Items   []transactionResponse `json:"items"`
}

// listTransactionsHandler godoc
// @Summary Financeiro
// @Description Movimientos (más recientes primero) con receitas, despesas, saldo y salud financiera.
// @Tags finance
// @Produce json
// @Success 200 {object} listTransactionsResponse
// @Router /finance [get]
func listTransactionsHandler(l *loader.Loader[Transaction]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := l.Load(r.Context())
		sum := Summarize(res.Items)

		items := make([]transactionResponse, 0, len(res.Items))
		for _, t := range res.Items {
			date := ""
			if t.Date != nil {
				date = format.DayMonthTime(*t.Date, nil)
			}
			items = append(items, transactionResponse{
				ID:          t.ID,
				Description: t.Description,
				Category:    t.CategoryOrDefault(),
				Type:        t.Type,
				Amount:      t.Amount,
				AmountLabel: t.Sign() + " " + format.BRL(t.Amount),
				Date:        date,
			})
		}

		writeJSON(w, http.StatusOK, listTransactionsResponse{
			State:  res.State,
			Status: res.Status,
			Summary: summaryResponse{
				Summary:         sum,
				RevenuesLabel:   format.BRL(sum.Revenues),
				ExpensesLabel:   format.BRL(sum.Expenses),
				NetBalanceLabel: format.BRL(sum.NetBalance),
				HealthLabel:     format.Percent(sum.HealthPercent),
			},
			Items: items,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
