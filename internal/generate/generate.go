// Package generate reverse-engineers registered model shapes from a live
// database: it introspects information_schema, maps column types back to
// semantic field types, and renders one Go source file per table. Each file
// is stamped with the table's schema fingerprint so an unchanged table is
// skipped on regeneration.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ihavemadefire/tuskORM/internal/schema"
)

// Column is one introspected column, default expression included.
type Column struct {
	Name     string
	DataType string
	Nullable bool
	Default  string // raw column_default, "" when none
}

// Table is one introspected table with its columns in ordinal order.
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// Fingerprint returns the table's column-layout hash, comparable with the
// fingerprint the synchronizer computes for a declared shape.
func (t Table) Fingerprint() uint64 {
	cols := make([]schema.ColumnInfo, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = schema.ColumnInfo{Name: c.Name, DataType: c.DataType}
	}
	return schema.Fingerprint(cols)
}

// Querier is the subset of pgxpool.Pool introspection needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const introspectSQL = `SELECT table_schema, table_name, column_name, data_type, is_nullable, column_default
FROM information_schema.columns
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
  AND ($1::text[] IS NULL OR table_name = ANY($1))
ORDER BY table_schema, table_name, ordinal_position`

// Introspect lists user tables and their columns. An empty tables filter
// returns everything outside the system schemas.
func Introspect(ctx context.Context, q Querier, tables []string) ([]Table, error) {
	var filter []string
	if len(tables) > 0 {
		filter = tables
	}
	rows, err := q.Query(ctx, introspectSQL, filter)
	if err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	defer rows.Close()

	var out []Table
	for rows.Next() {
		var (
			tableSchema, tableName, colName, dataType, nullable string
			def                                                 *string
		)
		if err := rows.Scan(&tableSchema, &tableName, &colName, &dataType, &nullable, &def); err != nil {
			return nil, fmt.Errorf("introspect scan: %w", err)
		}
		col := Column{Name: colName, DataType: dataType, Nullable: nullable == "YES"}
		if def != nil {
			col.Default = *def
		}
		if n := len(out); n == 0 || out[n-1].Schema != tableSchema || out[n-1].Name != tableName {
			out = append(out, Table{Schema: tableSchema, Name: tableName})
		}
		out[len(out)-1].Columns = append(out[len(out)-1].Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("introspect: %w", err)
	}
	return out, nil
}

// semanticType maps an information_schema data_type back to its semantic
// field type, TEXT-family names and anything unrecognized landing on Text.
func semanticType(dataType string) schema.SemanticType {
	switch strings.ToLower(dataType) {
	case "integer", "smallint", "serial":
		return schema.Int
	case "bigint", "bigserial":
		return schema.BigInt
	case "uuid":
		return schema.UUID
	case "boolean":
		return schema.Bool
	case "real":
		return schema.Real
	case "double precision", "numeric":
		return schema.Double
	case "json", "jsonb":
		return schema.JSON
	case "date":
		return schema.Date
	default:
		switch {
		case strings.HasPrefix(strings.ToLower(dataType), "timestamp"):
			return schema.Timestamp
		case strings.HasPrefix(strings.ToLower(dataType), "time"):
			return schema.Time
		}
		return schema.Text
	}
}
