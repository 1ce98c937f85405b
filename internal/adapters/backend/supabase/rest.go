package supabase

import (
	"context"
	"fmt"
	"net/http"

	"vetclinic-dashboard/internal/platform/httpclient"
	"vetclinic-dashboard/internal/ports/backend"
)

const restPrefix = "/rest/v1/"

func (c *Client) Select(ctx context.Context, q backend.Query) ([]backend.Row, error) {
	var rows []backend.Row
	err := c.do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   restPrefix + string(q.Collection),
		Query:  encodeQuery(q),
	}, &rows)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []backend.Row{}
	}
	return rows, nil
}

func (c *Client) Insert(ctx context.Context, coll backend.Collection, row backend.Row) (backend.Row, error) {
	var rows []backend.Row
	err := c.do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    restPrefix + string(coll),
		Headers: map[string]string{"Prefer": "return=representation"},
		Body:    row,
	}, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: insert into %s returned no representation", ErrUpstream, coll)
	}
	return rows[0], nil
}
