package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"vetclinic-dashboard/internal/loader"
	"vetclinic-dashboard/internal/ports/backend"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, l *loader.Loader[Patient], reg *Registrar) {
	r.Route("/patients", func(pr chi.Router) {
		pr.Get("/", listPatientsHandler(l))
		pr.Post("/", createPatientHandler(reg))
	})
}

type ownerResponse struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
}

type patientResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Species   *string        `json:"species"`
	Breed     *string        `json:"breed"`
	BirthDate *string        `json:"birth_date"`
	ImageURL  *string        `json:"image_url"`
	Status    Status         `json:"status"`
	Badge     string         `json:"badge"`
	Tutor     string         `json:"tutor"`
	Owner     *ownerResponse `json:"owner"`
}

type listPatientsResponse struct {
	State    loader.State      `json:"state"`
	Status   loader.Status     `json:"status"`
	Query    string            `json:"query"`
	Total    int               `json:"total"`
	Items    []patientResponse `json:"items"`
	Selected *patientResponse  `json:"selected"`
}

type newTutorRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

type createPatientRequest struct {
	Name      string           `json:"name"`
	Species   string           `json:"species"`
	Breed     string           `json:"breed"`
	BirthDate string           `json:"birth_date"` // YYYY-MM-DD opcional
	ImageURL  string           `json:"image_url"`
	NewTutor  *newTutorRequest `json:"new_tutor"`
	OwnerID   string           `json:"owner_id"`
}

// listPatientsHandler godoc
// @Summary Listar pacientes
// @Description Pacientes con su tutor. `q` filtra por nombre, tutor o raza; `selected` elige el detalle (por defecto el primero).
// @Tags patients
// @Produce json
// @Param q query string false "Texto de búsqueda"
// @Param selected query string false "ID del paciente seleccionado"
// @Success 200 {object} listPatientsResponse
// @Router /patients [get]
func listPatientsHandler(l *loader.Loader[Patient]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		res := l.Load(r.Context())

		filtered := Search(res.Items, q)
		out := make([]patientResponse, 0, len(filtered))
		for _, p := range filtered {
			out = append(out, toPatientResponse(p))
		}

		resp := listPatientsResponse{
			State:  res.State,
			Status: res.Status,
			Query:  q,
			Total:  len(res.Items),
			Items:  out,
		}
		if p, ok := Selected(res.Items, r.URL.Query().Get("selected")); ok {
			sel := toPatientResponse(p)
			resp.Selected = &sel
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// createPatientHandler godoc
// @Summary Cadastrar paciente
// @Description Crea (opcionalmente) el tutor y luego el paciente con status Healthy. Sin transacción: si falla el paciente, el tutor queda creado.
// @Tags patients
// @Accept json
// @Produce json
// @Param payload body createPatientRequest true "Paciente + tutor nuevo (new_tutor) o existente (owner_id)"
// @Success 201 {object} patientResponse
// @Failure 400 {string} string "validación o mensaje del backend"
// @Failure 502 {string} string "backend no disponible"
// @Router /patients [post]
func createPatientHandler(reg *Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := RegisterInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			BirthDate: req.BirthDate,
			ImageURL:  req.ImageURL,
			OwnerID:   req.OwnerID,
		}
		if req.NewTutor != nil {
			in.NewTutor = &NewTutor{
				FullName: req.NewTutor.FullName,
				Phone:    req.NewTutor.Phone,
				Email:    req.NewTutor.Email,
			}
		}

		p, err := reg.Register(r.Context(), in)
		if err != nil {
			var be *backend.Error
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrTutorNotSelected):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.As(err, &be):
				http.Error(w, be.Message, http.StatusBadRequest)
			default:
				http.Error(w, err.Error(), http.StatusBadGateway)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toPatientResponse(p))
	}
}

func toPatientResponse(p Patient) patientResponse {
	out := patientResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		BirthDate: p.BirthDate,
		ImageURL:  p.ImageURL,
		Status:    p.Status,
		Badge:     p.Badge(),
		Tutor:     p.Tutor(),
	}
	if p.Owner != nil {
		out.Owner = &ownerResponse{
			ID:       p.Owner.ID,
			FullName: p.Owner.FullName,
			Phone:    p.Owner.Phone,
			Email:    p.Owner.Email,
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
