package catalog

import (
	"encoding/json"
	"net/http"

	"vetclinic-dashboard/internal/loader"
	"vetclinic-dashboard/internal/platform/format"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, l *loader.Loader[Service]) {
	r.Get("/services", listServicesHandler(l))
}

type serviceResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	Duration      *string `json:"duration"`
	PriceLabel    string  `json:"price_label"`
	OldPriceLabel *string `json:"old_price_label"`
	Promo         bool    `json:"promo"`
	Icon          *string `json:"icon"`
}

type listServicesResponse struct {
	State  loader.State      `json:"state"`
	Status loader.Status     `json:"status"`
	Source string            `json:"source"` // backend | builtin
	Items  []serviceResponse `json:"items"`
}

// listServicesHandler godoc
// @Summary Catálogo de serviços
// @Description Servicios con precio y precio anterior en promociones. Si la lectura falla se devuelve el catálogo fijo.
// @Tags services
// @Produce json
// @Success 200 {object} listServicesResponse
// @Router /services [get]
func listServicesHandler(l *loader.Loader[Service]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := l.Load(r.Context())

		items, source := res.Items, "backend"
		if res.Status == loader.StatusFailed {
			items, source = Builtin(), "builtin"
		}

		out := make([]serviceResponse, 0, len(items))
		for _, s := range items {
			sr := serviceResponse{
				ID:          s.ID,
				Title:       s.Title,
				Description: s.Description,
				Category:    s.Category,
				Duration:    s.Duration,
				PriceLabel:  format.BRL(s.Price.Decimal),
				Promo:       s.Promo,
				Icon:        s.Icon,
			}
			if s.OldPrice.Valid {
				old := format.BRL(s.OldPrice.Decimal)
				sr.OldPriceLabel = &old
			}
			out = append(out, sr)
		}

		writeJSON(w, http.StatusOK, listServicesResponse{State: res.State, Status: res.Status, Source: source, Items: out})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
