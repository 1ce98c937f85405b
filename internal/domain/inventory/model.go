package inventory

import (
	"time"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/shopspring/decimal"
)

// barFull es la cantidad que llena la barra de stock de la tarjeta.
const barFull = 50

// AlertThreshold es el corte fijo de "stock bajo" del dashboard (quantity < 10).
const AlertThreshold = 10

type Item struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    *string             `json:"category"`
	Quantity    *int                `json:"quantity"`
	MinQuantity *int                `json:"min_quantity"`
	Unit        *string             `json:"unit"`
	Price       decimal.NullDecimal `json:"price"`
	ImageURL    *string             `json:"image_url"`
	CreatedAt   *time.Time          `json:"created_at"`
}

func (it Item) Qty() int {
	if it.Quantity == nil {
		return 0
	}
	return *it.Quantity
}

func (it Item) MinQty() int {
	if it.MinQuantity == nil {
		return 0
	}
	return *it.MinQuantity
}

// UnitPrice trata el precio ausente como cero.
func (it Item) UnitPrice() decimal.Decimal {
	if !it.Price.Valid {
		return decimal.Zero
	}
	return it.Price.Decimal
}

// LowStock se recalcula en cada llamada; nunca se guarda.
func (it Item) LowStock() bool {
	return it.Qty() <= it.MinQty()
}

// StockBar es el porcentaje de la barra de stock (tope 100).
func (it Item) StockBar() float64 {
	p := float64(it.Qty()) / barFull * 100
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}

// ListQuery trae todo el estoque ordenado por nombre.
func ListQuery() backend.Query {
	return backend.Query{Collection: backend.Inventory}.OrderBy("name", false)
}

// AlertsQuery son las alertas del dashboard: quantity < 10, máximo 3.
func AlertsQuery() backend.Query {
	return backend.Query{Collection: backend.Inventory}.
		Where("quantity", backend.OpLt, AlertThreshold).
		WithLimit(3)
}
