package finance

import (
	"time"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/shopspring/decimal"
)

// Type indica el sentido del movimiento; Amount siempre es no negativo.
// @Enum in, out
type Type string

const (
	TypeIn  Type = "in"
	TypeOut Type = "out"
)

const defaultCategory = "Geral"

type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Category    *string         `json:"category"`
	Type        Type            `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date"`
	CreatedAt   *time.Time      `json:"created_at"`
}

func (t Transaction) CategoryOrDefault() string {
	if t.Category == nil || *t.Category == "" {
		return defaultCategory
	}
	return *t.Category
}

// Sign es el prefijo de la lista: "+" para entradas, "-" para salidas.
func (t Transaction) Sign() string {
	if t.Type == TypeIn {
		return "+"
	}
	return "-"
}

// ListQuery trae el extracto del más reciente al más antiguo.
func ListQuery() backend.Query {
	return backend.Query{Collection: backend.Transactions}.OrderBy("date", true)
}
