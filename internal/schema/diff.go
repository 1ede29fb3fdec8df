package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ihavemadefire/tuskORM/internal/pg"
)

// Phase labels one ordered stage of schema synchronization. The phase order
// is load-bearing: renames must commit before additions are considered, and
// drops must run last so a column about to be renamed is never dropped.
type Phase string

const (
	PhaseRename Phase = "rename"
	PhaseAdd    Phase = "add"
	PhaseRetype Phase = "retype"
	PhaseDrop   Phase = "drop"
)

// Rename is one (old, new) column rename pair due for execution.
type Rename struct {
	Old string
	New string
}

// TypeChange records a live column whose type no longer matches its declared
// field.
type TypeChange struct {
	Name    string
	OldType string
	NewType string
}

// Diff is the derived difference between a declared shape and one snapshot of
// live columns. It is computed fresh on every sync call and never cached.
type Diff struct {
	Renames     []Rename
	Additions   []FieldSpec
	TypeChanges []TypeChange
	Removals    []string
}

// Empty reports whether the diff requires no statements at all.
func (d Diff) Empty() bool {
	return len(d.Renames) == 0 && len(d.Additions) == 0 &&
		len(d.TypeChanges) == 0 && len(d.Removals) == 0
}

// ComputeDiff derives the full diff of fields against live columns.
//
// Ordering is deterministic: renames sort by old name (the rename map has no
// inherent order), additions and type changes follow declared-field order,
// and removals follow live-column order. Rename targets (the new side of any
// pair) are never removals, and a rename only fires while the old column
// still exists and the new one does not; a firing pair contributes neither an
// addition for its target nor a removal for its source.
func ComputeDiff(fields []FieldSpec, live []ColumnInfo, renames map[string]string) Diff {
	liveTypes := make(map[string]string, len(live))
	for _, c := range live {
		liveTypes[c.Name] = c.DataType
	}

	var d Diff

	olds := make([]string, 0, len(renames))
	for old := range renames {
		olds = append(olds, old)
	}
	sort.Strings(olds)
	targets := make(map[string]bool, len(renames))
	pending := make(map[string]bool, len(renames))
	for _, old := range olds {
		target := renames[old]
		targets[target] = true
		_, oldLive := liveTypes[old]
		_, targetLive := liveTypes[target]
		if oldLive && !targetLive {
			d.Renames = append(d.Renames, Rename{Old: old, New: target})
			pending[old] = true
			pending[target] = true
		}
	}

	declared := make(map[string]bool, len(fields))
	for _, f := range fields {
		declared[f.Name] = true
		current, exists := liveTypes[f.Name]
		if !exists {
			// A firing rename materializes its target; adding it here would
			// duplicate the column once the rename commits.
			if !pending[f.Name] {
				d.Additions = append(d.Additions, f)
			}
			continue
		}
		// The catalog reports verbose lowercase type names; compare through
		// the canonical spelling or a converged column would be retyped
		// forever.
		if want := PgType(f.Type); canonicalType(current) != want {
			d.TypeChanges = append(d.TypeChanges, TypeChange{Name: f.Name, OldType: current, NewType: want})
		}
	}

	// Rename targets are excluded from removal outright; so is the old side
	// of a rename that is about to fire, which would otherwise read as a
	// stale column on this pre-rename snapshot.
	for _, c := range live {
		if !declared[c.Name] && !targets[c.Name] && !pending[c.Name] {
			d.Removals = append(d.Removals, c.Name)
		}
	}
	return d
}

// Statement is one rendered DDL statement tagged with its phase.
type Statement struct {
	Phase Phase
	SQL   string
}

// Statements renders the diff as ordered ALTER TABLE statements for table,
// in phase order.
func (d Diff) Statements(table string) []Statement {
	prefix := "ALTER TABLE " + pg.FQN(table) + " "
	out := make([]Statement, 0, len(d.Renames)+len(d.Additions)+len(d.TypeChanges)+len(d.Removals))

	for _, r := range d.Renames {
		out = append(out, Statement{PhaseRename, prefix + "RENAME COLUMN " + pg.Ident(r.Old) + " TO " + pg.Ident(r.New)})
	}
	for _, f := range d.Additions {
		sql := prefix + "ADD COLUMN " + pg.Ident(f.Name) + " " + PgType(f.Type)
		if f.HasDefault {
			// A NOT NULL column without a default would fail against existing
			// rows; only defaulted additions carry the constraint.
			sql += " DEFAULT " + defaultLiteral(f) + " NOT NULL"
		}
		out = append(out, Statement{PhaseAdd, sql})
	}
	for _, tc := range d.TypeChanges {
		sql := prefix + "ALTER COLUMN " + pg.Ident(tc.Name) + " SET DATA TYPE " + tc.NewType
		if cast := castClause(tc); cast != "" {
			sql += " USING " + pg.Ident(tc.Name) + "::" + cast
		}
		out = append(out, Statement{PhaseRetype, sql})
	}
	for _, name := range d.Removals {
		out = append(out, Statement{PhaseDrop, prefix + "DROP COLUMN " + pg.Ident(name)})
	}
	return out
}

// castClause returns the explicit cast type for transitions where Postgres
// has no deterministic implicit conversion: textual values into boolean or
// integer columns. All other transitions rely on implicit conversion.
func castClause(tc TypeChange) string {
	if !strings.EqualFold(tc.OldType, "text") {
		return ""
	}
	switch strings.ToUpper(tc.NewType) {
	case "BOOLEAN", "INTEGER":
		return strings.ToUpper(tc.NewType)
	}
	return ""
}

// defaultLiteral renders a declared default for DDL. Text-like semantic
// types quote the value; numeric and boolean defaults render bare.
func defaultLiteral(f FieldSpec) string {
	if textLike(f.Type) {
		return pg.Literal(fmt.Sprint(f.Default))
	}
	return fmt.Sprint(f.Default)
}
