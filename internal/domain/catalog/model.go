package catalog

import (
	"vetclinic-dashboard/internal/ports/backend"

	"github.com/shopspring/decimal"
)

// Service es un item del catálogo de serviços veterinarios.
type Service struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Category    *string             `json:"category"`
	Duration    *string             `json:"duration"`
	Price       decimal.NullDecimal `json:"price"`
	OldPrice    decimal.NullDecimal `json:"old_price"`
	Promo       bool                `json:"promo"`
	Icon        *string             `json:"icon"`
}

func ListQuery() backend.Query {
	return backend.Query{Collection: backend.Services}
}

func str(s string) *string { return &s }

func money(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

// Builtin es el catálogo fijo que se sirve cuando el backend no tiene la
// tabla services (o la lectura falla).
func Builtin() []Service {
	return []Service{
		{ID: "builtin-consulta", Title: "Consulta Geral", Description: str("Avaliação clínica completa para check-up de rotina."), Category: str("Clínico"), Duration: str("30 min"), Price: money(150), Icon: str("medical_services")},
		{ID: "builtin-antirrabica", Title: "Vacina Antirrábica", Description: str("Imunização anual obrigatória para cães e gatos."), Category: str("Vacinação"), Duration: str("15 min"), Price: money(80), Icon: str("vaccines")},
		{ID: "builtin-kit", Title: "Kit Boas-vindas", Description: str("3 vacinas essenciais + 1 exame de fezes."), Category: str("PROMO"), Duration: str("Pacote"), Price: money(380), OldPrice: money(480), Promo: true, Icon: str("pets")},
		{ID: "builtin-banho", Title: "Banho e Tosa (P)", Description: str("Serviço completo de higiene para pequenos."), Category: str("Estética"), Duration: str("60 min"), Price: money(100), Icon: str("water_drop")},
	}
}
