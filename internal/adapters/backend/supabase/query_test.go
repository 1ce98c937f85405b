package supabase

import (
	"testing"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestEncodeQuery_DashboardAppointments(t *testing.T) {
	q := backend.Query{
		Collection: backend.Appointments,
		Embed: []backend.Embed{{
			Collection: backend.Patients,
			Embed:      []backend.Embed{{Collection: backend.Owners}},
		}},
	}.OrderBy("start_time", false).WithLimit(3)

	v := encodeQuery(q)

	require.Equal(t, "*,patients(*,owners(*))", v.Get("select"))
	require.Equal(t, "start_time.asc", v.Get("order"))
	require.Equal(t, "3", v.Get("limit"))
}

func TestEncodeQuery_FiltersAndDescOrder(t *testing.T) {
	q := backend.Query{Collection: backend.Inventory}.
		Where("quantity", backend.OpLt, 10).
		Where("price", backend.OpGte, decimal.RequireFromString("12.50")).
		OrderBy("name", false).
		OrderBy("created_at", true)

	v := encodeQuery(q)

	require.Equal(t, "*", v.Get("select"))
	require.Equal(t, "lt.10", v.Get("quantity"))
	require.Equal(t, "gte.12.5", v.Get("price"))
	require.Equal(t, "name.asc,created_at.desc", v.Get("order"))
	require.Empty(t, v.Get("limit"))
}

func TestEncodeQuery_NullFilters(t *testing.T) {
	q := backend.Query{Collection: backend.Patients}.
		Where("owner_id", backend.OpEq, nil).
		Where("breed", backend.OpNeq, nil)

	v := encodeQuery(q)

	require.Equal(t, "is.null", v.Get("owner_id"))
	require.Equal(t, "not.is.null", v.Get("breed"))
}
