// Package schema declares record shapes and reconciles live Postgres tables
// against them. A shape is an explicit, statically-constructed list of
// FieldSpec values built once at registration time; nothing here inspects Go
// structs at call time.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zeebo/xxh3"
)

// SemanticType names a field's logical type, independent of the column type
// it maps to. The zero value is Text so an absent or novel type degrades to a
// textual column instead of failing a migration.
type SemanticType int

const (
	Text SemanticType = iota
	Int
	BigInt
	Bool
	Real
	Double
	UUID
	Timestamp
	Date
	Time
	JSON
)

var typeNames = map[SemanticType]string{
	Text:      "Text",
	Int:       "Int",
	BigInt:    "BigInt",
	Bool:      "Bool",
	Real:      "Real",
	Double:    "Double",
	UUID:      "Uuid",
	Timestamp: "Timestamp",
	Date:      "Date",
	Time:      "Time",
	JSON:      "Json",
}

func (t SemanticType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("SemanticType(%d)", int(t))
}

// PgType maps a semantic type to its Postgres column type. The mapping is
// total: anything unmapped falls back to TEXT.
func PgType(t SemanticType) string {
	switch t {
	case Int:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Bool:
		return "BOOLEAN"
	case Real:
		return "REAL"
	case Double:
		return "DOUBLE PRECISION"
	case UUID:
		return "UUID"
	case Timestamp:
		return "TIMESTAMPTZ"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case JSON:
		return "JSONB"
	default:
		return "TEXT"
	}
}

// textLike reports whether a semantic type's default literal must be quoted
// in DDL. Numeric and boolean defaults render bare.
func textLike(t SemanticType) bool {
	switch t {
	case Int, BigInt, Bool, Real, Double:
		return false
	default:
		return true
	}
}

// FieldSpec describes one column of a declared record shape. It is immutable
// for the duration of a sync call.
type FieldSpec struct {
	Name string
	Type SemanticType

	// HasDefault gates Default: a declared default makes an added column
	// NOT NULL with that default, while a defaultless addition stays nullable
	// because existing rows could not satisfy the constraint.
	HasDefault bool
	Default    any

	// RenamedFrom, when set, marks this field as the new name of an existing
	// column. It is merged into the rename map passed to Sync.
	RenamedFrom string
}

// ColumnInfo is one live column as reported by the database catalog.
type ColumnInfo struct {
	Name     string
	DataType string
}

// canonicalType folds a column type name to the spelling PgType emits. The
// catalog reports verbose lowercase names ("timestamp with time zone") where
// DDL uses the abbreviation, and the two must compare equal or a converged
// column would be retyped on every sync.
func canonicalType(dataType string) string {
	switch strings.ToLower(dataType) {
	case "timestamp with time zone", "timestamptz":
		return "TIMESTAMPTZ"
	case "time without time zone":
		return "TIME"
	default:
		return strings.ToUpper(dataType)
	}
}

// Fingerprint hashes a column layout into a stable 64-bit value. Name order,
// type case, and catalog-versus-DDL type spellings do not affect the result,
// so a declared shape can be compared against a catalog snapshot directly.
func Fingerprint(cols []ColumnInfo) uint64 {
	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = c.Name + ":" + canonicalType(c.DataType)
	}
	sort.Strings(lines)
	return xxh3.HashString(strings.Join(lines, "\n"))
}

// shapeColumns renders the declared fields as the column layout they
// synchronize to, for fingerprint comparison against the catalog.
func shapeColumns(fields []FieldSpec) []ColumnInfo {
	cols := make([]ColumnInfo, len(fields))
	for i, f := range fields {
		cols[i] = ColumnInfo{Name: f.Name, DataType: PgType(f.Type)}
	}
	return cols
}
