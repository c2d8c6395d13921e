package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"seulink/internal/store"
)

const restPrefix = "/rest/v1/"

// Query is a PostgREST request under construction. It implements store.Query.
type Query[T any] struct {
	client  *Client
	table   string
	filters url.Values
}

// Eq adds a column=eq.value filter; repeated filters are ANDed by PostgREST.
func (q *Query[T]) Eq(column string, value any) store.Query[T] {
	q.filters.Add(column, "eq."+fmt.Sprint(value))
	return q
}

func (q *Query[T]) selectQuery() url.Values {
	v := url.Values{"select": {"*"}}
	for k, vals := range q.filters {
		v[k] = append([]string(nil), vals...)
	}
	return v
}

// Execute returns every matching row.
func (q *Query[T]) Execute(ctx context.Context) ([]T, error) {
	var rows []T
	err := q.client.do(ctx, request{
		method: http.MethodGet,
		path:   restPrefix + q.table,
		query:  q.selectQuery(),
		token:  store.AccessToken(ctx),
	}, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Single asks PostgREST for exactly one object; it answers 406 with
// code PGRST116 otherwise.
func (q *Query[T]) Single(ctx context.Context) (T, error) {
	var row T
	err := q.client.do(ctx, request{
		method:  http.MethodGet,
		path:    restPrefix + q.table,
		query:   q.selectQuery(),
		token:   store.AccessToken(ctx),
		headers: map[string]string{"Accept": "application/vnd.pgrst.object+json"},
	}, &row)
	if err != nil {
		var zero T
		return zero, err
	}
	return row, nil
}

// Upsert inserts record or merges it into the row with the same primary key.
func (q *Query[T]) Upsert(ctx context.Context, record T) (T, error) {
	var zero T
	var rows []T
	err := q.client.do(ctx, request{
		method: http.MethodPost,
		path:   restPrefix + q.table,
		body:   record,
		token:  store.AccessToken(ctx),
		headers: map[string]string{
			"Prefer": "resolution=merge-duplicates,return=representation",
		},
	}, &rows)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return record, nil
	}
	return rows[0], nil
}
