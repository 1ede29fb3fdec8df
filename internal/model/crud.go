package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ihavemadefire/tuskORM/internal/db"
	"github.com/ihavemadefire/tuskORM/internal/query"
	"github.com/ihavemadefire/tuskORM/internal/schema"
	"golang.org/x/sync/errgroup"
)

// Row is one fetched record, keyed by column name.
type Row map[string]any

// Create inserts one record and returns it as stored. When the caller omits
// the id, a UUID is generated client-side so the key is known before the
// round trip.
func (m *Model) Create(ctx context.Context, exec db.Executor, values map[string]any) (Row, error) {
	vals := make(map[string]any, len(values)+1)
	for k, v := range values {
		vals[k] = v
	}
	if _, ok := vals[primaryKey]; !ok {
		vals[primaryKey] = uuid.New()
	}

	sql, args := m.buildInsert(vals)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", m.table, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if cv, ok := db.AsConstraintViolation(err); ok {
			return nil, cv
		}
		return nil, fmt.Errorf("create %s: %w", m.table, err)
	}
	return Row(row), nil
}

// FetchOne returns the first record matching the conditions, or nil when
// nothing matches. The id column is always part of the projection.
func (m *Model) FetchOne(ctx context.Context, exec db.Executor, columns []string, where query.Cond) (Row, error) {
	opts := query.Options{Columns: columns, Limit: 1}
	plan, err := query.Compile(m.table, where, opts)
	if err != nil {
		return nil, err
	}
	rows, err := exec.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, fmt.Errorf("fetch one from %s: %w", m.table, err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch one from %s: %w", m.table, err)
	}
	return Row(row), nil
}

// FetchAll returns every record matching the conditions.
func (m *Model) FetchAll(ctx context.Context, exec db.Executor, columns []string, where query.Cond) ([]Row, error) {
	return m.Filter(ctx, exec, where, query.Options{Columns: columns})
}

// Filter runs a compiled query with one AND group of conditions.
func (m *Model) Filter(ctx context.Context, exec db.Executor, where query.Cond, opts query.Options) ([]Row, error) {
	plan, err := query.Compile(m.table, where, opts)
	if err != nil {
		return nil, err
	}
	return m.collect(ctx, exec, plan)
}

// FilterAny runs a compiled query matching any of the given AND groups.
func (m *Model) FilterAny(ctx context.Context, exec db.Executor, groups []query.Cond, opts query.Options) ([]Row, error) {
	plan, err := query.CompileOr(m.table, groups, opts)
	if err != nil {
		return nil, err
	}
	return m.collect(ctx, exec, plan)
}

func (m *Model) collect(ctx context.Context, exec db.Executor, plan query.Plan) ([]Row, error) {
	rows, err := exec.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", m.table, err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", m.table, err)
	}
	out := make([]Row, len(maps))
	for i, r := range maps {
		out[i] = Row(r)
	}
	return out, nil
}

// Update applies the given column updates to the record identified by id.
func (m *Model) Update(ctx context.Context, exec db.Executor, id any, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	sql, args := m.buildUpdate(id, updates)
	if _, err := exec.Exec(ctx, sql, args...); err != nil {
		if cv, ok := db.AsConstraintViolation(err); ok {
			return cv
		}
		return fmt.Errorf("update %s: %w", m.table, err)
	}
	return nil
}

// Delete removes the record identified by id.
func (m *Model) Delete(ctx context.Context, exec db.Executor, id any) error {
	if _, err := exec.Exec(ctx, m.buildDelete(), id); err != nil {
		return fmt.Errorf("delete from %s: %w", m.table, err)
	}
	return nil
}

// Sync reconciles the model's table with its declared fields.
func (m *Model) Sync(ctx context.Context, pool db.Beginner) error {
	s := schema.NewSynchronizer(pool, schema.NewCatalogReader(pool))
	return s.Sync(ctx, m.table, m.fields, m.meta.Renames)
}

// SyncAll synchronizes every model concurrently. Distinct tables are safe to
// migrate in parallel; two models sharing a table would race the database's
// DDL handling, so that is rejected up front.
func SyncAll(ctx context.Context, pool db.Beginner, models ...*Model) error {
	seen := make(map[string]string, len(models))
	for _, m := range models {
		if prev, ok := seen[m.table]; ok {
			return fmt.Errorf("models %s and %s share table %s", prev, m.name, m.table)
		}
		seen[m.table] = m.name
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, m := range models {
		g.Go(func() error { return m.Sync(ctx, pool) })
	}
	return g.Wait()
}
