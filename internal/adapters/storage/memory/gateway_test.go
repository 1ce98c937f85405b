package memory_test

import (
	"context"
	"testing"
	"time"

	"vetclinic-dashboard/internal/adapters/storage/memory"
	"vetclinic-dashboard/internal/ports/backend"

	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) *memory.Gateway {
	t.Helper()
	g := memory.NewGateway()
	require.NoError(t, memory.Seed(context.Background(), g, time.Date(2025, 5, 12, 9, 0, 0, 0, time.Local)))
	return g
}

func TestSelect_EmbedsNestedOwners(t *testing.T) {
	g := seeded(t)

	rows, err := g.Select(context.Background(), backend.Query{
		Collection: backend.Appointments,
		Embed: []backend.Embed{{
			Collection: backend.Patients,
			Embed:      []backend.Embed{{Collection: backend.Owners}},
		}},
	}.OrderBy("start_time", false))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	patient, ok := rows[0]["patients"].(backend.Row)
	require.True(t, ok, "patients embed missing: %v", rows[0])
	require.Equal(t, "Rex", patient["name"])

	owner, ok := patient["owners"].(backend.Row)
	require.True(t, ok)
	require.Equal(t, "Ana Paula", owner["full_name"])
}

func TestSelect_MissingRelatedRowEmbedsNull(t *testing.T) {
	g := memory.NewGateway()
	ctx := context.Background()

	_, err := g.Insert(ctx, backend.Appointments, backend.Row{"start_time": "2025-05-12T10:00:00Z", "type": "Retorno"})
	require.NoError(t, err)

	rows, err := g.Select(ctx, backend.Query{
		Collection: backend.Appointments,
		Embed:      []backend.Embed{{Collection: backend.Patients}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	v, present := rows[0]["patients"]
	require.True(t, present)
	require.Nil(t, v)
}

func TestSelect_FilterOrderLimit(t *testing.T) {
	g := seeded(t)

	rows, err := g.Select(context.Background(), backend.Query{Collection: backend.Inventory}.
		Where("quantity", backend.OpLt, 10).
		OrderBy("name", false).
		WithLimit(3))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Ração Renal 2kg", rows[0]["name"])
	require.Equal(t, "Vacina V10", rows[1]["name"])
}

func TestSelect_EmptyCollectionReturnsEmptySlice(t *testing.T) {
	g := memory.NewGateway()

	rows, err := g.Select(context.Background(), backend.Query{Collection: backend.Services})
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestInsert_NotNullViolation(t *testing.T) {
	g := memory.NewGateway()

	_, err := g.Insert(context.Background(), backend.Owners, backend.Row{"phone": "123"})

	var be *backend.Error
	require.ErrorAs(t, err, &be)
	require.Equal(t, "23502", be.Code)
	require.Contains(t, be.Message, "full_name")
	require.Zero(t, g.Count(backend.Owners))
}

func TestInsert_ForeignKeyViolation(t *testing.T) {
	g := memory.NewGateway()

	_, err := g.Insert(context.Background(), backend.Patients, backend.Row{"name": "Mel", "owner_id": "nope"})

	var be *backend.Error
	require.ErrorAs(t, err, &be)
	require.Equal(t, "23503", be.Code)
}

func TestInsert_AssignsIDAndCreatedAt(t *testing.T) {
	g := memory.NewGateway()

	row, err := g.Insert(context.Background(), backend.Owners, backend.Row{"full_name": "Joana Prado"})
	require.NoError(t, err)
	require.NotEmpty(t, row["id"])
	require.NotEmpty(t, row["created_at"])
	require.Equal(t, 1, g.Count(backend.Owners))
}

func TestSelect_UnknownCollection(t *testing.T) {
	g := memory.NewGateway()

	_, err := g.Select(context.Background(), backend.Query{Collection: backend.Collection("pets")})

	var be *backend.Error
	require.ErrorAs(t, err, &be)
	require.Equal(t, "42P01", be.Code)
}
