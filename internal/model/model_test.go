package model

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/ihavemadefire/tuskORM/internal/schema"
)

/*
Unit tests for shape registration and statement building.

We cover:
  - table name derivation and the implicit UUID id field
  - insert/update/delete statement generation with deterministic column order
  - SyncAll's rejection of two models sharing one table
*/

func TestNew_TableDerivation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		shape string
		meta  Meta
		want  string
	}{
		{"User", Meta{}, "users"},
		{"Order", Meta{}, "orders"},
		{"Person", Meta{Table: "people"}, "people"},
	}
	for _, c := range cases {
		m := New(c.shape, c.meta)
		if m.Table() != c.want {
			t.Fatalf("New(%q).Table() = %q; want %q", c.shape, m.Table(), c.want)
		}
	}
}

func TestNew_InjectsUUIDPrimaryKey(t *testing.T) {
	t.Parallel()

	m := New("User", Meta{}, schema.FieldSpec{Name: "name", Type: schema.Text})
	fields := m.Fields()
	if len(fields) != 2 || fields[0].Name != "id" || fields[0].Type != schema.UUID {
		t.Fatalf("fields = %+v; want implicit leading UUID id", fields)
	}

	// A caller-declared id is left alone.
	m = New("Event", Meta{}, schema.FieldSpec{Name: "id", Type: schema.BigInt})
	fields = m.Fields()
	if len(fields) != 1 || fields[0].Type != schema.BigInt {
		t.Fatalf("fields = %+v; want caller's id untouched", fields)
	}
}

func TestBuildInsert(t *testing.T) {
	t.Parallel()

	m := New("User", Meta{})
	sql, args := m.buildInsert(map[string]any{"name": "Alice", "age": 25})

	want := `INSERT INTO "users" ("age", "name") VALUES ($1, $2) RETURNING *`
	if sql != want {
		t.Fatalf("sql = %q; want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{25, "Alice"}) {
		t.Fatalf("args = %v; want [25 Alice]", args)
	}
}

func TestBuildUpdate(t *testing.T) {
	t.Parallel()

	m := New("User", Meta{})
	sql, args := m.buildUpdate("some-id", map[string]any{"name": "Bob", "age": 31})

	want := `UPDATE "users" SET "age" = $2, "name" = $3 WHERE "id" = $1`
	if sql != want {
		t.Fatalf("sql = %q; want %q", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"some-id", 31, "Bob"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestBuildDelete(t *testing.T) {
	t.Parallel()

	m := New("User", Meta{})
	if got, want := m.buildDelete(), `DELETE FROM "users" WHERE "id" = $1`; got != want {
		t.Fatalf("sql = %q; want %q", got, want)
	}
}

func TestSyncAll_RejectsSharedTable(t *testing.T) {
	t.Parallel()

	a := New("User", Meta{Table: "accounts"})
	b := New("Account", Meta{Table: "accounts"})

	err := SyncAll(context.Background(), nil, a, b)
	if err == nil || !strings.Contains(err.Error(), "accounts") {
		t.Fatalf("err = %v; want shared-table rejection naming the table", err)
	}
}
