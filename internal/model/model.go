// Package model ties a registered record shape to its table: schema
// synchronization on one side, single-row CRUD and filtered reads on the
// other. A shape is declared once, as an explicit field list, and reused for
// every call; there is no struct reflection on the hot path.
package model

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ihavemadefire/tuskORM/internal/pg"
	"github.com/ihavemadefire/tuskORM/internal/schema"
)

// primaryKey is the conventional primary key column every shape carries.
const primaryKey = "id"

// Meta carries per-shape table properties.
type Meta struct {
	// Table is the target table name; empty derives it from the shape name
	// by lower-casing and naive pluralization ("User" -> "users").
	Table string

	// Renames maps old column names to new ones for the next Sync.
	Renames map[string]string
}

// Model is a registered record shape bound to one table.
type Model struct {
	name   string
	table  string
	meta   Meta
	fields []schema.FieldSpec
}

// New registers a shape. A field named "id" is guaranteed: when the caller
// does not declare one, a UUID primary key is prepended.
func New(name string, meta Meta, fields ...schema.FieldSpec) *Model {
	table := meta.Table
	if table == "" {
		table = strings.ToLower(name) + "s"
	}
	hasID := false
	for _, f := range fields {
		if f.Name == primaryKey {
			hasID = true
			break
		}
	}
	if !hasID {
		fields = append([]schema.FieldSpec{{Name: primaryKey, Type: schema.UUID}}, fields...)
	}
	return &Model{name: name, table: table, meta: meta, fields: fields}
}

// Name returns the shape name the model was registered under.
func (m *Model) Name() string { return m.name }

// Table returns the resolved table name.
func (m *Model) Table() string { return m.table }

// Fields returns the declared field list, id included.
func (m *Model) Fields() []schema.FieldSpec { return m.fields }

// buildInsert renders the INSERT for one row of values. Columns are sorted
// so the statement text is deterministic; args follow column order.
func (m *Model) buildInsert(values map[string]any) (string, []any) {
	cols := make([]string, 0, len(values))
	for c := range values {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		marks[i] = "$" + strconv.Itoa(i+1)
		args[i] = values[c]
	}
	sql := "INSERT INTO " + pg.FQN(m.table) +
		" (" + strings.Join(pg.Idents(cols), ", ") + ")" +
		" VALUES (" + strings.Join(marks, ", ") + ") RETURNING *"
	return sql, args
}

// buildUpdate renders the UPDATE for one record identified by id. The id
// travels as $1; SET values follow in sorted column order.
func (m *Model) buildUpdate(id any, updates map[string]any) (string, []any) {
	cols := make([]string, 0, len(updates))
	for c := range updates {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	args = append(args, id)
	for i, c := range cols {
		sets[i] = pg.Ident(c) + " = $" + strconv.Itoa(i+2)
		args = append(args, updates[c])
	}
	sql := "UPDATE " + pg.FQN(m.table) + " SET " + strings.Join(sets, ", ") +
		" WHERE " + pg.Ident(primaryKey) + " = $1"
	return sql, args
}

func (m *Model) buildDelete() string {
	return "DELETE FROM " + pg.FQN(m.table) + " WHERE " + pg.Ident(primaryKey) + " = $1"
}
