package appointments

import "time"

// Agenda es el mes seleccionado en la vista de calendario.
// Las comparaciones usan hora local de Loc (nil = time.Local).
type Agenda struct {
	Year  int
	Month time.Month
	Loc   *time.Location
}

func (a Agenda) loc() *time.Location {
	if a.Loc == nil {
		return time.Local
	}
	return a.Loc
}

// DayAppointments devuelve las citas cuyo día del mes es day y cuyo mes es
// el seleccionado. El año NO se compara: una cita del mismo día/mes en otro
// año también entra.
func (a Agenda) DayAppointments(appts []Appointment, day int) []Appointment {
	out := make([]Appointment, 0)
	for _, ap := range appts {
		t := ap.StartTime.In(a.loc())
		if t.Day() == day && t.Month() == a.Month {
			out = append(out, ap)
		}
	}
	return out
}

// Day es una celda del calendario mensual.
type Day struct {
	Day   int  `json:"day"`
	Count int  `json:"count"`
	Today bool `json:"today"`
}

// DaysIn es la cantidad de días del mes seleccionado.
func (a Agenda) DaysIn() int {
	return time.Date(a.Year, a.Month+1, 0, 0, 0, 0, 0, a.loc()).Day()
}

// Days arma la grilla del mes con la cantidad de citas por día
// (mismo criterio que DayAppointments).
func (a Agenda) Days(appts []Appointment, now time.Time) []Day {
	counts := map[int]int{}
	for _, ap := range appts {
		t := ap.StartTime.In(a.loc())
		if t.Month() == a.Month {
			counts[t.Day()]++
		}
	}

	now = now.In(a.loc())
	n := a.DaysIn()
	out := make([]Day, 0, n)
	for d := 1; d <= n; d++ {
		out = append(out, Day{
			Day:   d,
			Count: counts[d],
			Today: now.Year() == a.Year && now.Month() == a.Month && now.Day() == d,
		})
	}
	return out
}

// Leading es la cantidad de celdas vacías antes del día 1 (semana empieza en domingo).
func (a Agenda) Leading() int {
	return int(time.Date(a.Year, a.Month, 1, 0, 0, 0, 0, a.loc()).Weekday())
}
