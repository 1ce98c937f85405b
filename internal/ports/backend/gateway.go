package backend

import (
	"context"
	"errors"
)

// Collection es el nombre de una tabla expuesta por el backend.
type Collection string

const (
	Owners       Collection = "owners"
	Patients     Collection = "patients"
	Appointments Collection = "appointments"
	Inventory    Collection = "inventory"
	Transactions Collection = "transactions"
	Services     Collection = "services"
)

var (
	ErrNotConfigured = errors.New("backend not configured")
	ErrUnknownEmbed  = errors.New("unknown embed relation")
)

// Row es una fila tal como la devuelve el backend (JSON-like).
type Row map[string]any

// Gateway es el contrato de lectura/escritura que consume el core.
// No hay update/delete: el core nunca los usa.
type Gateway interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	Insert(ctx context.Context, c Collection, row Row) (Row, error)
}

// Error transporta el mensaje del backend tal cual, para mostrarlo al usuario.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Relations define los embeds to-one soportados: coleccion -> embed -> FK local.
var Relations = map[Collection]map[Collection]string{
	Patients:     {Owners: "owner_id"},
	Appointments: {Patients: "patient_id"},
}

// ForeignKey devuelve la columna FK de from hacia to.
func ForeignKey(from, to Collection) (string, error) {
	fk, ok := Relations[from][to]
	if !ok {
		return "", ErrUnknownEmbed
	}
	return fk, nil
}
