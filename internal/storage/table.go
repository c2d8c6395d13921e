package storage

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"seulink/internal/store"
)

// Row is a record that can live in a Table.
// Column must return comparable values.
type Row interface {
	RowID() string
	Column(name string) (any, bool)
}

// MergeFunc combines the stored row with an incoming one during upsert.
type MergeFunc[T Row] func(existing, incoming T) T

// Table is one logical table, stored as an ordered JSON array under a single key.
type Table[T Row] struct {
	engine *Engine
	name   string
	merge  MergeFunc[T]
	log    logrus.FieldLogger
}

// NewTable binds a table name to the engine.
func NewTable[T Row](e *Engine, name string, merge MergeFunc[T]) *Table[T] {
	return &Table[T]{
		engine: e,
		name:   name,
		merge:  merge,
		log:    e.log.WithField("table", name),
	}
}

// Select returns a query handle over a snapshot of the table taken now.
func (t *Table[T]) Select() *Query[T] {
	q := &Query[T]{table: t}
	q.rows, q.err = t.load()
	if q.err != nil {
		t.log.WithError(q.err).Error("Failed to load table snapshot")
	}
	return q
}

func (t *Table[T]) load() ([]T, error) {
	var rows []T
	err := t.engine.db.View(func(txn *badger.Txn) error {
		_, err := getJSON(txn, tableKey(t.name), &rows)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load table %s: %w", t.name, err)
	}
	return rows, nil
}

// upsert rewrites the whole collection with record applied, in one transaction.
func (t *Table[T]) upsert(record T) (T, error) {
	var saved T
	err := t.engine.db.Update(func(txn *badger.Txn) error {
		var rows []T
		if _, err := getJSON(txn, tableKey(t.name), &rows); err != nil {
			return err
		}
		rows, saved = t.apply(rows, record)
		return setJSON(txn, tableKey(t.name), rows)
	})
	if err != nil {
		return saved, fmt.Errorf("failed to upsert into %s: %w", t.name, err)
	}
	return saved, nil
}

// apply merges record into rows by id, or appends it.
func (t *Table[T]) apply(rows []T, record T) ([]T, T) {
	for i, existing := range rows {
		if existing.RowID() == record.RowID() {
			merged := t.merge(existing, record)
			rows[i] = merged
			return rows, merged
		}
	}
	return append(rows, record), record
}

type predicate struct {
	column string
	value  any
}

// Query is a handle on a table snapshot. It implements store.Query.
type Query[T Row] struct {
	table   *Table[T]
	rows    []T
	filters []predicate
	err     error
}

// Eq adds an equality predicate; predicates are ANDed.
func (q *Query[T]) Eq(column string, value any) store.Query[T] {
	q.filters = append(q.filters, predicate{column: column, value: value})
	return q
}

func (q *Query[T]) matches(row T) bool {
	for _, f := range q.filters {
		v, ok := row.Column(f.column)
		if !ok || v != f.value {
			return false
		}
	}
	return true
}

// Execute returns the matching rows in table order.
func (q *Query[T]) Execute(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if q.err != nil {
		return nil, q.err
	}
	result := make([]T, 0, len(q.rows))
	for _, row := range q.rows {
		if q.matches(row) {
			result = append(result, row)
		}
	}
	return result, nil
}

// Single returns the one matching row.
func (q *Query[T]) Single(ctx context.Context) (T, error) {
	var zero T
	rows, err := q.Execute(ctx)
	if err != nil {
		return zero, err
	}
	switch len(rows) {
	case 0:
		return zero, store.ErrNoRows
	case 1:
		return rows[0], nil
	default:
		q.table.log.WithField("matches", len(rows)).Warn("Single matched more than one row")
		return zero, store.MultipleRows(len(rows))
	}
}

// Upsert writes record to durable storage and to this handle's snapshot.
func (q *Query[T]) Upsert(ctx context.Context, record T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if record.RowID() == "" {
		return zero, &store.Error{
			Code:    "23502",
			Message: `null value in column "id" violates not-null constraint`,
			Status:  400,
		}
	}

	log := q.table.log.WithField("id", record.RowID())
	saved, err := q.table.upsert(record)
	if err != nil {
		log.WithError(err).Error("Upsert failed")
		return zero, err
	}
	if q.err == nil {
		q.rows, _ = q.table.apply(q.rows, record)
	}
	log.Info("Row upserted")
	return saved, nil
}
