package appointments

import (
	"time"

	"vetclinic-dashboard/internal/domain/patients"
	"vetclinic-dashboard/internal/ports/backend"
)

// Status de la cita.
// @Enum Aguardando, Confirmado, Cancelado, Agora
type Status string

const (
	StatusWaiting   Status = "Aguardando"
	StatusConfirmed Status = "Confirmado"
	StatusCancelled Status = "Cancelado"
	StatusNow       Status = "Agora"
)

// Appointment es la fila de appointments con el paciente (y su tutor) embebido.
// Patient es nil si la referencia falta o no resuelve.
type Appointment struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"start_time"`
	Type      string     `json:"type"`
	Status    Status     `json:"status"`
	Notes     *string    `json:"notes"`
	PatientID *string    `json:"patient_id"`
	CreatedAt *time.Time `json:"created_at"`

	Patient *patients.Patient `json:"patients"`
}

func embedPatientWithOwner() []backend.Embed {
	return []backend.Embed{{
		Collection: backend.Patients,
		Embed:      []backend.Embed{{Collection: backend.Owners}},
	}}
}

// ListQuery trae toda la agenda por hora de inicio.
func ListQuery() backend.Query {
	return backend.Query{
		Collection: backend.Appointments,
		Embed:      embedPatientWithOwner(),
	}.OrderBy("start_time", false)
}

// UpcomingQuery son las próximas citas del dashboard (las primeras 3 por hora).
func UpcomingQuery() backend.Query {
	return ListQuery().WithLimit(3)
}
