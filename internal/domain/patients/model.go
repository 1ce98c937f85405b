package patients

import (
	"strings"
	"time"

	"vetclinic-dashboard/internal/domain/owners"
	"vetclinic-dashboard/internal/ports/backend"
)

// Status clínico del paciente.
// @Enum Healthy, Needs Vaccine, Follow-up
type Status string

const (
	StatusHealthy      Status = "Healthy"
	StatusNeedsVaccine Status = "Needs Vaccine"
	StatusFollowUp     Status = "Follow-up"
)

// Patient es la fila de patients con su tutor embebido (owners), que puede ser nil.
type Patient struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Species   *string    `json:"species"`
	Breed     *string    `json:"breed"`
	BirthDate *string    `json:"birth_date"` // YYYY-MM-DD
	ImageURL  *string    `json:"image_url"`
	Status    Status     `json:"status"`
	OwnerID   *string    `json:"owner_id"`
	CreatedAt *time.Time `json:"created_at"`

	Owner *owners.Owner `json:"owners"`
}

// Tutor devuelve el nombre del tutor o "" si no hay tutor embebido.
func (p Patient) Tutor() string {
	if p.Owner == nil {
		return ""
	}
	return p.Owner.FullName
}

// Badge es la variante visual: success para Healthy, warning para el resto.
func (p Patient) Badge() string {
	if p.Status == StatusHealthy {
		return "success"
	}
	return "warning"
}

// ListQuery trae pacientes con su tutor.
func ListQuery() backend.Query {
	return backend.Query{
		Collection: backend.Patients,
		Embed:      []backend.Embed{{Collection: backend.Owners}},
	}
}

// Search filtra por nombre, tutor o raza (contiene, sin distinguir mayúsculas).
func Search(ps []Patient, q string) []Patient {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]Patient, 0, len(ps))
	for _, p := range ps {
		if q == "" || matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p Patient, q string) bool {
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if p.Owner != nil && strings.Contains(strings.ToLower(p.Owner.FullName), q) {
		return true
	}
	return p.Breed != nil && strings.Contains(strings.ToLower(*p.Breed), q)
}

// Selected busca id en la colección completa (no en la filtrada).
// Sin id se selecciona el primer paciente cargado.
func Selected(all []Patient, id string) (Patient, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		if len(all) == 0 {
			return Patient{}, false
		}
		return all[0], true
	}
	for _, p := range all {
		if p.ID == id {
			return p, true
		}
	}
	return Patient{}, false
}
