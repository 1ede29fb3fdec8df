package generate

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Generator writes rendered model files under Dir, one subdirectory per
// database schema: models/<schema>/<table>.go.
type Generator struct {
	Dir string
}

var fingerprintRe = regexp.MustCompile(`(?m)^// Schema fingerprint: ([0-9a-f]{16})$`)

// Run introspects the given tables (all user tables when empty) and writes
// one model file per table. Tables whose stamped fingerprint already matches
// the live layout are left untouched, so repeated runs are cheap and do not
// churn timestamps.
func (g *Generator) Run(ctx context.Context, q Querier, tables []string) error {
	found, err := Introspect(ctx, q, tables)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return fmt.Errorf("no matching tables found")
	}

	for _, t := range found {
		path := filepath.Join(g.Dir, t.Schema, t.Name+".go")
		if unchanged(path, t.Fingerprint()) {
			log.Printf("unchanged: %s", path)
			continue
		}
		src, err := Render(t)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return fmt.Errorf("write model %s: %w", path, err)
		}
		log.Printf("generated: %s", path)
	}
	return nil
}

// unchanged reports whether the file at path carries the given fingerprint.
func unchanged(path string, fp uint64) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	m := fingerprintRe.FindSubmatch(b)
	if m == nil {
		return false
	}
	prev, err := strconv.ParseUint(string(m[1]), 16, 64)
	return err == nil && prev == fp
}
