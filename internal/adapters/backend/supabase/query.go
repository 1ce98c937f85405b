package supabase

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vetclinic-dashboard/internal/ports/backend"
)

// encodeQuery arma los parámetros PostgREST:
// select=*,patients(*,owners(*))&quantity=lt.10&order=name.asc&limit=3
func encodeQuery(q backend.Query) url.Values {
	v := url.Values{}
	v.Set("select", selectClause(q.Embed))

	for _, f := range q.Filters {
		v.Add(f.Column, filterValue(f))
	}

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			dir := "asc"
			if o.Desc {
				dir = "desc"
			}
			parts = append(parts, o.Column+"."+dir)
		}
		v.Set("order", strings.Join(parts, ","))
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

func selectClause(embeds []backend.Embed) string {
	parts := []string{"*"}
	for _, e := range embeds {
		parts = append(parts, string(e.Collection)+"("+selectClause(e.Embed)+")")
	}
	return strings.Join(parts, ",")
}

func filterValue(f backend.Filter) string {
	if f.Value == nil {
		switch f.Op {
		case backend.OpNeq:
			return "not.is.null"
		default:
			return "is.null"
		}
	}
	return string(f.Op) + "." + formatValue(f.Value)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
