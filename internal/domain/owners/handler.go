package owners

import (
	"encoding/json"
	"net/http"

	"vetclinic-dashboard/internal/loader"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, l *loader.Loader[Owner]) {
	r.Get("/owners", listOwnersHandler(l))
}

type ownerResponse struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Label    string  `json:"label"`
}

type listOwnersResponse struct {
	State  loader.State    `json:"state"`
	Status loader.Status   `json:"status"`
	Items  []ownerResponse `json:"items"`
}

// listOwnersHandler godoc
// @Summary Listar tutores
// @Description Lista los tutores ordenados por nombre (selector de "tutor existente" en el alta de paciente).
// @Tags owners
// @Produce json
// @Success 200 {object} listOwnersResponse
// @Failure 401 {object} map[string]string "sin sesión"
// @Router /owners [get]
func listOwnersHandler(l *loader.Loader[Owner]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := l.Load(r.Context())

		out := make([]ownerResponse, 0, len(res.Items))
		for _, o := range res.Items {
			out = append(out, ownerResponse{
				ID:       o.ID,
				FullName: o.FullName,
				Phone:    o.Phone,
				Email:    o.Email,
				Label:    o.Label(),
			})
		}

		writeJSON(w, http.StatusOK, listOwnersResponse{State: res.State, Status: res.Status, Items: out})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
