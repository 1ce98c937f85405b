package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

// Columnas NOT NULL por colección (mismo esquema que el backend hospedado).
var required = map[backend.Collection][]string{
	backend.Owners:       {"full_name"},
	backend.Patients:     {"name"},
	backend.Appointments: {"start_time", "type"},
	backend.Inventory:    {"name"},
	backend.Transactions: {"description", "type", "amount"},
	backend.Services:     {"title"},
}

// Gateway es un backend en memoria: mismas semánticas de lectura que el
// hospedado (filtros, orden, límite, embeds to-one) y errores de constraint
// en inserts. Sirve para modo dev y tests.
type Gateway struct {
	mu     sync.RWMutex
	tables map[backend.Collection][]backend.Row
	now    func() time.Time
}

func NewGateway() *Gateway {
	return &Gateway{
		tables: make(map[backend.Collection][]backend.Row),
		now:    time.Now,
	}
}

func (g *Gateway) Insert(ctx context.Context, c backend.Collection, row backend.Row) (backend.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := required[c]; !ok {
		return nil, &backend.Error{Status: 404, Code: "42P01", Message: fmt.Sprintf("relation %q does not exist", c)}
	}

	stored := backend.Row{}
	for k, v := range row {
		stored[k] = v
	}

	for _, col := range required[c] {
		v, ok := stored[col]
		if !ok || v == nil {
			return nil, &backend.Error{
				Status:  400,
				Code:    "23502",
				Message: fmt.Sprintf("null value in column %q of relation %q violates not-null constraint", col, c),
			}
		}
	}

	for target, fk := range backend.Relations[c] {
		v, ok := stored[fk]
		if !ok || v == nil {
			continue
		}
		if _, found := g.findByID(target, fmt.Sprint(v)); !found {
			return nil, &backend.Error{
				Status:  409,
				Code:    "23503",
				Message: fmt.Sprintf("insert or update on table %q violates foreign key constraint %q", c, fmt.Sprintf("%s_%s_fkey", c, fk)),
			}
		}
	}

	if id, _ := stored["id"].(string); strings.TrimSpace(id) == "" {
		stored["id"] = uuid.NewString()
	} else if _, exists := g.findByID(c, id); exists {
		return nil, &backend.Error{Status: 409, Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	if _, ok := stored["created_at"]; !ok {
		stored["created_at"] = g.now().UTC().Format(time.RFC3339Nano)
	}

	g.tables[c] = append(g.tables[c], stored)
	return copyRow(stored), nil
}

func (g *Gateway) Select(ctx context.Context, q backend.Query) ([]backend.Row, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := required[q.Collection]; !ok {
		return nil, &backend.Error{Status: 404, Code: "42P01", Message: fmt.Sprintf("relation %q does not exist", q.Collection)}
	}

	out := make([]backend.Row, 0)
	for _, r := range g.tables[q.Collection] {
		if !matches(r, q.Filters) {
			continue
		}
		out = append(out, copyRow(r))
	}

	if len(q.Order) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Order {
				c := compare(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}

	for _, r := range out {
		if err := g.embed(q.Collection, r, q.Embed); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (g *Gateway) embed(from backend.Collection, r backend.Row, embeds []backend.Embed) error {
	for _, e := range embeds {
		fk, err := backend.ForeignKey(from, e.Collection)
		if err != nil {
			return &backend.Error{Status: 400, Code: "PGRST200", Message: fmt.Sprintf("could not find a relationship between %q and %q", from, e.Collection)}
		}

		r[string(e.Collection)] = nil
		v, ok := r[fk]
		if !ok || v == nil {
			continue
		}
		related, found := g.findByID(e.Collection, fmt.Sprint(v))
		if !found {
			continue
		}
		child := copyRow(related)
		if err := g.embed(e.Collection, child, e.Embed); err != nil {
			return err
		}
		r[string(e.Collection)] = child
	}
	return nil
}

func (g *Gateway) findByID(c backend.Collection, id string) (backend.Row, bool) {
	for _, r := range g.tables[c] {
		if fmt.Sprint(r["id"]) == id {
			return r, true
		}
	}
	return nil, false
}

// Count devuelve cuántas filas hay en una colección (útil en tests).
func (g *Gateway) Count(c backend.Collection) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tables[c])
}

func copyRow(r backend.Row) backend.Row {
	out := make(backend.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
