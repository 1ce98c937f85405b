package appointments

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"vetclinic-dashboard/internal/loader"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, l *loader.Loader[Appointment], now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	r.Get("/agenda", agendaHandler(l, now))
}

type agendaResponse struct {
	State   loader.State  `json:"state"`
	Status  loader.Status `json:"status"`
	Year    int           `json:"year"`
	Month   int           `json:"month"`
	Leading int           `json:"leading"`
	Days    []Day         `json:"days"`
	Day     int           `json:"day"`
	Items   []Card        `json:"items"`
}

// agendaHandler godoc
// @Summary Agenda mensual
// @Description Grilla del mes con conteo de citas por día y las citas del día elegido (por defecto hoy). El año no se compara al agrupar por día.
// @Tags agenda
// @Produce json
// @Param year query int false "Año"
// @Param month query int false "Mes (1-12)"
// @Param day query int false "Día del mes"
// @Success 200 {object} agendaResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Router /agenda [get]
func agendaHandler(l *loader.Loader[Appointment], now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		today := now().In(time.Local)

		year, ok := intParam(r, "year", today.Year())
		if !ok {
			http.Error(w, "year must be a number", http.StatusBadRequest)
			return
		}
		month, ok := intParam(r, "month", int(today.Month()))
		if !ok || month < 1 || month > 12 {
			http.Error(w, "month must be 1-12", http.StatusBadRequest)
			return
		}

		ag := Agenda{Year: year, Month: time.Month(month)}

		defDay := today.Day()
		if defDay > ag.DaysIn() {
			defDay = ag.DaysIn()
		}
		day, ok := intParam(r, "day", defDay)
		if !ok || day < 1 || day > ag.DaysIn() {
			http.Error(w, "day out of range", http.StatusBadRequest)
			return
		}

		res := l.Load(r.Context())

		writeJSON(w, http.StatusOK, agendaResponse{
			State:   res.State,
			Status:  res.Status,
			Year:    year,
			Month:   month,
			Leading: ag.Leading(),
			Days:    ag.Days(res.Items, today),
			Day:     day,
			Items:   Cards(ag.DayAppointments(res.Items, day), nil),
		})
	}
}

func intParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
