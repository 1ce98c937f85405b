package appointments

import (
	"time"

	"vetclinic-dashboard/internal/platform/format"
)

// Card es la proyección de una cita para listas (dashboard y lateral de agenda).
// Sin paciente, los campos de paciente/tutor quedan vacíos y HasPatient=false.
type Card struct {
	ID          string  `json:"id"`
	Time        string  `json:"time"`
	StartTime   string  `json:"start_time"`
	Service     string  `json:"service"`
	Status      Status  `json:"status"`
	Notes       *string `json:"notes"`
	HasPatient  bool    `json:"has_patient"`
	PatientID   string  `json:"patient_id,omitempty"`
	PatientName string  `json:"patient_name,omitempty"`
	Breed       string  `json:"breed,omitempty"`
	Tutor       string  `json:"tutor,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

func CardOf(a Appointment, loc *time.Location) Card {
	c := Card{
		ID:        a.ID,
		Time:      format.Clock(a.StartTime, loc),
		StartTime: format.DayMonthTime(a.StartTime, loc),
		Service:   a.Type,
		Status:    a.Status,
		Notes:     a.Notes,
	}

	p := a.Patient
	if p == nil {
		return c
	}
	c.HasPatient = true
	c.PatientID = p.ID
	c.PatientName = p.Name
	c.Tutor = p.Tutor()
	if p.Breed != nil {
		c.Breed = *p.Breed
	}
	if p.ImageURL != nil {
		c.ImageURL = *p.ImageURL
	}
	return c
}

func Cards(appts []Appointment, loc *time.Location) []Card {
	out := make([]Card, 0, len(appts))
	for _, a := range appts {
		out = append(out, CardOf(a, loc))
	}
	return out
}
