package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ColumnReader reports the live column set of a table. Implementations must
// reflect committed DDL only; the synchronizer re-reads between its rename
// and main phases and depends on seeing renamed columns under their new
// names.
type ColumnReader interface {
	ListColumns(ctx context.Context, table string) ([]ColumnInfo, error)
}

// rowQuerier is the subset of pgxpool.Pool the catalog reader needs.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CatalogReader lists columns from information_schema.columns. The table name
// may be schema-qualified ("public.users"); an unqualified name defaults to
// the public schema.
type CatalogReader struct {
	db rowQuerier
}

// NewCatalogReader returns a ColumnReader over db, typically a *pgxpool.Pool.
func NewCatalogReader(db rowQuerier) *CatalogReader {
	return &CatalogReader{db: db}
}

const listColumnsSQL = `SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

// ListColumns implements ColumnReader. Results follow ordinal position so
// downstream iteration is deterministic.
func (r *CatalogReader) ListColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	tableSchema, name := splitTable(table)
	rows, err := r.db.Query(ctx, listColumnsSQL, tableSchema, name)
	if err != nil {
		return nil, fmt.Errorf("list columns for %s: %w", table, err)
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		if err := rows.Scan(&c.Name, &c.DataType); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list columns for %s: %w", table, err)
	}
	return cols, nil
}

func splitTable(table string) (tableSchema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return "public", table
}
