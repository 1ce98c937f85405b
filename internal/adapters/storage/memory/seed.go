package memory

import (
	"context"
	"time"

	"vetclinic-dashboard/internal/ports/backend"
)

// Seed carga datos de demostración (tutores, pacientes, agenda, estoque,
// caixa y catálogo). Las fechas de agenda se calculan desde now.
func Seed(ctx context.Context, g *Gateway, now time.Time) error {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	owners := []backend.Row{
		{"id": "owner-ana", "full_name": "Ana Paula", "phone": "(11) 98888-1111", "email": "ana@exemplo.com"},
		{"id": "owner-marcos", "full_name": "Marcos Silva", "phone": "(11) 97777-2222", "email": nil},
		{"id": "owner-carla", "full_name": "Carla Dias", "phone": "(11) 96666-3333", "email": "carla@exemplo.com"},
	}
	patients := []backend.Row{
		{"id": "patient-rex", "name": "Rex", "species": "Canino", "breed": "Golden Retriever", "status": "Needs Vaccine", "owner_id": "owner-ana", "birth_date": "2019-03-10"},
		{"id": "patient-luna", "name": "Luna", "species": "Felino", "breed": "Siamês", "status": "Healthy", "owner_id": "owner-marcos", "birth_date": nil},
		{"id": "patient-thor", "name": "Thor", "species": "Canino", "breed": "Bulldog Francês", "status": "Follow-up", "owner_id": "owner-carla", "birth_date": "2021-07-22"},
	}
	appointments := []backend.Row{
		{"start_time": day.Add(14 * time.Hour).Format(time.RFC3339), "type": "Vacinação V10", "status": "Aguardando", "patient_id": "patient-rex"},
		{"start_time": day.Add(14*time.Hour + 45*time.Minute).Format(time.RFC3339), "type": "Consulta Dermatol.", "status": "Confirmado", "patient_id": "patient-luna"},
		{"start_time": day.Add(15*time.Hour + 30*time.Minute).Format(time.RFC3339), "type": "Retorno", "status": "Confirmado", "patient_id": "patient-thor"},
	}
	inventory := []backend.Row{
		{"name": "Vacina V10", "category": "Vacinas", "quantity": 4, "min_quantity": 10, "unit": "dose", "price": 45.0},
		{"name": "Antipulgas 10kg", "category": "Medicamentos", "quantity": 32, "min_quantity": 8, "unit": "un", "price": 89.9},
		{"name": "Ração Renal 2kg", "category": "Nutrição", "quantity": 6, "min_quantity": 6, "unit": "pct", "price": 120.0},
	}
	transactions := []backend.Row{
		{"description": "Consulta Geral - Rex", "category": "Consultas", "type": "in", "amount": 150.0, "date": day.Add(-24 * time.Hour).Format(time.RFC3339)},
		{"description": "Compra de vacinas", "category": "Fornecedores", "type": "out", "amount": 480.0, "date": day.Add(-48 * time.Hour).Format(time.RFC3339)},
		{"description": "Kit Boas-vindas - Luna", "category": "Pacotes", "type": "in", "amount": 380.0, "date": day.Add(-72 * time.Hour).Format(time.RFC3339)},
	}
	services := []backend.Row{
		{"title": "Consulta Geral", "description": "Avaliação clínica completa para check-up de rotina.", "category": "Clínico", "duration": "30 min", "price": 150.0, "promo": false, "icon": "medical_services"},
		{"title": "Vacina Antirrábica", "description": "Imunização anual obrigatória para cães e gatos.", "category": "Vacinação", "duration": "15 min", "price": 80.0, "promo": false, "icon": "vaccines"},
		{"title": "Kit Boas-vindas", "description": "3 vacinas essenciais + 1 exame de fezes.", "category": "PROMO", "duration": "Pacote", "price": 380.0, "old_price": 480.0, "promo": true, "icon": "pets"},
		{"title": "Banho e Tosa (P)", "description": "Serviço completo de higiene para pequenos.", "category": "Estética", "duration": "60 min", "price": 100.0, "promo": false, "icon": "water_drop"},
	}

	batches := []struct {
		c    backend.Collection
		rows []backend.Row
	}{
		{backend.Owners, owners},
		{backend.Patients, patients},
		{backend.Appointments, appointments},
		{backend.Inventory, inventory},
		{backend.Transactions, transactions},
		{backend.Services, services},
	}
	for _, b := range batches {
		for _, r := range b.rows {
			if _, err := g.Insert(ctx, b.c, r); err != nil {
				return err
			}
		}
	}
	return nil
}
