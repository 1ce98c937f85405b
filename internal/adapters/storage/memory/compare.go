package memory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/shopspring/decimal"
)

func matches(r backend.Row, filters []backend.Filter) bool {
	for _, f := range filters {
		v := r[f.Column]
		// Igual que en SQL: comparar contra NULL nunca matchea.
		if v == nil || f.Value == nil {
			return false
		}
		c := compare(v, f.Value)
		ok := false
		switch f.Op {
		case backend.OpEq:
			ok = c == 0
		case backend.OpNeq:
			ok = c != 0
		case backend.OpLt:
			ok = c < 0
		case backend.OpLte:
			ok = c <= 0
		case backend.OpGt:
			ok = c > 0
		case backend.OpGte:
			ok = c >= 0
		}
		if !ok {
			return false
		}
	}
	return true
}

// compare ordena nulls al final; números y fechas por valor, el resto como texto.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	if da, ok := toDecimal(a); ok {
		if db, ok := toDecimal(b); ok {
			return da.Cmp(db)
		}
	}
	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(strings.ToLower(fmt.Sprint(a)), strings.ToLower(fmt.Sprint(b)))
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	case decimal.Decimal:
		return n, true
	case string:
		// Solo strings numéricos puros (no fechas).
		if _, err := strconv.ParseFloat(n, 64); err != nil {
			return decimal.Decimal{}, false
		}
		d, err := decimal.NewFromString(n)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}
