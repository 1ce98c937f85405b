package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"vetclinic-dashboard/internal/domain/appointments"
	"vetclinic-dashboard/internal/domain/inventory"
	"vetclinic-dashboard/internal/loader"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/dashboard", dashboardHandler(svc))
}

type sectionState struct {
	State  loader.State  `json:"state"`
	Status loader.Status `json:"status"`
}

type dashboardResponse struct {
	Appointments      []appointments.Card      `json:"appointments"`
	AppointmentsState sectionState             `json:"appointments_state"`
	StockAlerts       []inventory.ItemResponse `json:"stock_alerts"`
	StockAlertsState  sectionState             `json:"stock_alerts_state"`
	OccupationPercent int                      `json:"occupation_percent"`
	GeneratedAt       time.Time                `json:"generated_at"`
}

// dashboardHandler godoc
// @Summary Dashboard
// @Description Próximas 3 citas (con paciente y tutor), hasta 3 alertas de estoque (quantity < 10) y ocupación.
// @Tags dashboard
// @Produce json
// @Success 200 {object} dashboardResponse
// @Router /dashboard [get]
func dashboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ov := svc.Load(r.Context())

		writeJSON(w, http.StatusOK, dashboardResponse{
			Appointments:      appointments.Cards(ov.Upcoming.Items, nil),
			AppointmentsState: sectionState{State: ov.Upcoming.State, Status: ov.Upcoming.Status},
			StockAlerts:       inventory.ToResponses(ov.Alerts.Items),
			StockAlertsState:  sectionState{State: ov.Alerts.State, Status: ov.Alerts.Status},
			OccupationPercent: ov.OccupationPercent,
			GeneratedAt:       ov.GeneratedAt,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
