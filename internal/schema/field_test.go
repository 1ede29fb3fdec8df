package schema

import "testing"

/*
Unit tests for the semantic type mapping and the layout fingerprint.

We cover:
  - every mapped semantic type and the TEXT fallback for novel types
  - fingerprint stability under column reordering and type-name casing
  - fingerprint sensitivity to actual layout changes
*/

func TestPgType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   SemanticType
		want string
	}{
		{Int, "INTEGER"},
		{BigInt, "BIGINT"},
		{Text, "TEXT"},
		{Bool, "BOOLEAN"},
		{Real, "REAL"},
		{Double, "DOUBLE PRECISION"},
		{UUID, "UUID"},
		{Timestamp, "TIMESTAMPTZ"},
		{Date, "DATE"},
		{Time, "TIME"},
		{JSON, "JSONB"},
		{SemanticType(97), "TEXT"}, // unmapped degrades to text
	}
	for _, c := range cases {
		if got := PgType(c.in); got != c.want {
			t.Fatalf("PgType(%v) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestPgType_ZeroValueIsText(t *testing.T) {
	t.Parallel()

	var st SemanticType
	if got := PgType(st); got != "TEXT" {
		t.Fatalf("PgType(zero) = %q; want TEXT", got)
	}
}

func TestFingerprint_OrderAndCaseInsensitive(t *testing.T) {
	t.Parallel()

	a := Fingerprint([]ColumnInfo{{"id", "uuid"}, {"name", "text"}})
	b := Fingerprint([]ColumnInfo{{"name", "TEXT"}, {"id", "UUID"}})
	if a != b {
		t.Fatalf("fingerprints differ for identical layouts: %x vs %x", a, b)
	}
}

func TestFingerprint_DetectsLayoutChange(t *testing.T) {
	t.Parallel()

	base := Fingerprint([]ColumnInfo{{"id", "uuid"}, {"age", "integer"}})
	cases := [][]ColumnInfo{
		{{"id", "uuid"}},                                       // column dropped
		{{"id", "uuid"}, {"age", "bigint"}},                    // type changed
		{{"id", "uuid"}, {"age", "integer"}, {"name", "text"}}, // column added
		{{"id", "uuid"}, {"age2", "integer"}},                  // column renamed
	}
	for i, cols := range cases {
		if Fingerprint(cols) == base {
			t.Fatalf("case %d: fingerprint did not change", i)
		}
	}
}

func TestFingerprint_MatchesDeclaredShape(t *testing.T) {
	t.Parallel()

	fields := []FieldSpec{{Name: "id", Type: UUID}, {Name: "name", Type: Text}, {Name: "age", Type: Int}}
	live := []ColumnInfo{{"id", "uuid"}, {"name", "text"}, {"age", "integer"}}
	if Fingerprint(shapeColumns(fields)) != Fingerprint(live) {
		t.Fatal("converged shape and live layout should fingerprint equal")
	}
}

func TestFingerprint_CatalogSpellings(t *testing.T) {
	t.Parallel()

	// information_schema reports the verbose names, DDL uses abbreviations.
	fields := []FieldSpec{{Name: "created_at", Type: Timestamp}, {Name: "opens_at", Type: Time}, {Name: "ratio", Type: Double}}
	live := []ColumnInfo{
		{"created_at", "timestamp with time zone"},
		{"opens_at", "time without time zone"},
		{"ratio", "double precision"},
	}
	if Fingerprint(shapeColumns(fields)) != Fingerprint(live) {
		t.Fatal("catalog type spellings should fingerprint equal to declared shape")
	}
}
