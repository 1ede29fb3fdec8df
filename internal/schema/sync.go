package schema

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. *pgxpool.Pool satisfies it; tests substitute
// a fake.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// MigrationError reports a DDL statement the database rejected, identifying
// the statement and its phase. Phases already committed stay in place; the
// caller fixes the cause and re-runs Sync, which is idempotent.
type MigrationError struct {
	Table     string
	Phase     Phase
	Statement string
	Err       error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration of %s failed in %s phase: %s: %v", e.Table, e.Phase, e.Statement, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

// Synchronizer reconciles live tables against declared shapes. It holds no
// mutable state between calls and is safe to use concurrently for different
// tables; concurrent calls against the same table are not coordinated.
type Synchronizer struct {
	db     Beginner
	reader ColumnReader
}

// NewSynchronizer builds a Synchronizer over a transaction source and a
// column reader, usually the same pool.
func NewSynchronizer(db Beginner, reader ColumnReader) *Synchronizer {
	return &Synchronizer{db: db, reader: reader}
}

// Sync brings table's column layout in line with fields.
//
// Renames execute first, in their own committed transaction, so the
// additions, type changes, and removals that follow observe renamed columns
// under their new names. Those three phases then run batched in a second
// transaction, drops last. A converged table opens no transaction at all.
//
// renames maps old column names to new ones and is merged with any
// RenamedFrom declarations on the fields; both sides must be unique within
// one call.
func (s *Synchronizer) Sync(ctx context.Context, table string, fields []FieldSpec, renames map[string]string) error {
	merged, err := mergeRenames(fields, renames)
	if err != nil {
		return err
	}

	live, err := s.reader.ListColumns(ctx, table)
	if err != nil {
		return err
	}
	if Fingerprint(live) == Fingerprint(shapeColumns(fields)) {
		return nil
	}

	diff := ComputeDiff(fields, live, merged)
	if renameStmts := (Diff{Renames: diff.Renames}).Statements(table); len(renameStmts) > 0 {
		if err := s.runBatch(ctx, table, renameStmts); err != nil {
			return err
		}
		// Later phases must see renamed columns as already existing, not as
		// removed-then-added.
		if live, err = s.reader.ListColumns(ctx, table); err != nil {
			return err
		}
		diff = ComputeDiff(fields, live, merged)
	}

	main := Diff{Additions: diff.Additions, TypeChanges: diff.TypeChanges, Removals: diff.Removals}
	if stmts := main.Statements(table); len(stmts) > 0 {
		return s.runBatch(ctx, table, stmts)
	}
	return nil
}

// runBatch executes stmts inside one transaction. The first rejected
// statement rolls the whole batch back and surfaces as a MigrationError.
func (s *Synchronizer) runBatch(ctx context.Context, table string, stmts []Statement) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration of %s: %w", table, err)
	}
	for _, st := range stmts {
		log.Printf("schema update: %s", st.SQL)
		if _, err := tx.Exec(ctx, st.SQL); err != nil {
			_ = tx.Rollback(ctx)
			return &MigrationError{Table: table, Phase: st.Phase, Statement: st.SQL, Err: err}
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration of %s: %w", table, err)
	}
	return nil
}

func mergeRenames(fields []FieldSpec, renames map[string]string) (map[string]string, error) {
	merged := make(map[string]string, len(renames))
	targets := make(map[string]string, len(renames))
	add := func(old, target string) error {
		if prev, ok := merged[old]; ok && prev != target {
			return fmt.Errorf("rename map: %q renamed to both %q and %q", old, prev, target)
		}
		if prev, ok := targets[target]; ok && prev != old {
			return fmt.Errorf("rename map: %q is the target of both %q and %q", target, prev, old)
		}
		merged[old] = target
		targets[target] = old
		return nil
	}
	for old, target := range renames {
		if err := add(old, target); err != nil {
			return nil, err
		}
	}
	for _, f := range fields {
		if f.RenamedFrom == "" {
			continue
		}
		if err := add(f.RenamedFrom, f.Name); err != nil {
			return nil, err
		}
	}
	return merged, nil
}
