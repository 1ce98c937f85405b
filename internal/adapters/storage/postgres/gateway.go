package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"vetclinic-dashboard/internal/ports/backend"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Gateway implementa backend.Gateway directo contra Postgres, con los
// mismos embeds to-one que expone el backend hospedado.
type Gateway struct {
	db *sqlx.DB
}

func NewGateway(db *sqlx.DB) *Gateway {
	return &Gateway{db: db}
}

func (g *Gateway) Select(ctx context.Context, q backend.Query) ([]backend.Row, error) {
	cols, ok := columns[q.Collection]
	if !ok {
		return nil, fmt.Errorf("postgres: unknown collection %q", q.Collection)
	}

	sb := strings.Builder{}
	sb.WriteString("SELECT " + strings.Join(cols, ", ") + " FROM " + string(q.Collection))

	args := []any{}
	argN := 1

	for i, f := range q.Filters {
		if !allowed(q.Collection, f.Column) {
			return nil, fmt.Errorf("postgres: unknown column %q", f.Column)
		}
		op, err := sqlOp(f.Op)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(fmt.Sprintf("%s %s $%d", f.Column, op, argN))
		args = append(args, f.Value)
		argN++
	}

	if len(q.Order) > 0 {
		parts := make([]string, 0, len(q.Order))
		for _, o := range q.Order {
			if !allowed(q.Collection, o.Column) {
				return nil, fmt.Errorf("postgres: unknown column %q", o.Column)
			}
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			parts = append(parts, o.Column+" "+dir+" NULLS LAST")
		}
		sb.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}

	if q.Limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
		args = append(args, q.Limit)
	}

	rows, err := g.queryRows(ctx, sb.String(), args...)
	if err != nil {
		return nil, toBackendError(err)
	}

	if err := g.embed(ctx, q.Collection, rows, q.Embed); err != nil {
		return nil, err
	}
	return rows, nil
}

func (g *Gateway) Insert(ctx context.Context, c backend.Collection, row backend.Row) (backend.Row, error) {
	if _, ok := columns[c]; !ok {
		return nil, fmt.Errorf("postgres: unknown collection %q", c)
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		if !allowed(c, k) {
			return nil, fmt.Errorf("postgres: unknown column %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	placeholders := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, row[k])
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		c, strings.Join(keys, ", "), strings.Join(placeholders, ", "), strings.Join(columns[c], ", "),
	)
	if len(keys) == 0 {
		query = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING %s", c, strings.Join(columns[c], ", "))
	}

	rows, err := g.queryRows(ctx, query, args...)
	if err != nil {
		return nil, toBackendError(err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// embed resuelve cada relación con un único SELECT ... WHERE id = ANY($1).
func (g *Gateway) embed(ctx context.Context, from backend.Collection, rows []backend.Row, embeds []backend.Embed) error {
	for _, e := range embeds {
		fk, err := backend.ForeignKey(from, e.Collection)
		if err != nil {
			return fmt.Errorf("postgres: embed %s->%s: %w", from, e.Collection, err)
		}

		ids := make([]string, 0, len(rows))
		seen := map[string]struct{}{}
		for _, r := range rows {
			r[string(e.Collection)] = nil
			id, _ := r[fk].(string)
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			continue
		}

		query := fmt.Sprintf("SELECT %s FROM %s WHERE id::text = ANY($1)", strings.Join(columns[e.Collection], ", "), e.Collection)
		related, err := g.queryRows(ctx, query, ids)
		if err != nil {
			return toBackendError(err)
		}
		if err := g.embed(ctx, e.Collection, related, e.Embed); err != nil {
			return err
		}

		byID := make(map[string]backend.Row, len(related))
		for _, r := range related {
			if id, ok := r["id"].(string); ok {
				byID[id] = r
			}
		}
		for _, r := range rows {
			id, _ := r[fk].(string)
			if child, ok := byID[id]; ok {
				r[string(e.Collection)] = child
			}
		}
	}
	return nil
}

func (g *Gateway) queryRows(ctx context.Context, query string, args ...any) ([]backend.Row, error) {
	rows, err := g.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]backend.Row, 0)
	for rows.Next() {
		m := map[string]any{}
		if err := rows.MapScan(m); err != nil {
			return nil, err
		}
		for k, v := range m {
			// algunos drivers devuelven texto como []byte
			if b, ok := v.([]byte); ok {
				m[k] = string(b)
			}
		}
		out = append(out, backend.Row(m))
	}
	return out, rows.Err()
}

func allowed(c backend.Collection, col string) bool {
	_, ok := writable[c][col]
	return ok
}

func sqlOp(op backend.Op) (string, error) {
	switch op {
	case backend.OpEq:
		return "=", nil
	case backend.OpNeq:
		return "<>", nil
	case backend.OpLt:
		return "<", nil
	case backend.OpLte:
		return "<=", nil
	case backend.OpGt:
		return ">", nil
	case backend.OpGte:
		return ">=", nil
	default:
		return "", fmt.Errorf("postgres: unsupported operator %q", op)
	}
}

// toBackendError conserva el mensaje del servidor para mostrarlo tal cual.
func toBackendError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &backend.Error{Status: 400, Code: pgErr.Code, Message: pgErr.Message}
	}
	return err
}
