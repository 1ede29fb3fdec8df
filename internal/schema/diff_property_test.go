package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestProperty_DiffIdempotence checks that for any declared field set, a live
// schema already converged to it yields an empty diff, no matter how the
// catalog cases or orders the columns.
func TestProperty_DiffIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("converged schema diffs empty", prop.ForAll(
		func(typeSeeds []int, reverse bool) bool {
			fields := make([]FieldSpec, len(typeSeeds))
			for i, seed := range typeSeeds {
				if seed < 0 {
					seed = -seed
				}
				fields[i] = FieldSpec{
					Name: fmt.Sprintf("col%02d", i),
					Type: SemanticType(seed % 11),
				}
			}

			// The catalog reports lowercase types, in whatever order.
			live := make([]ColumnInfo, len(fields))
			for i, f := range fields {
				j := i
				if reverse {
					j = len(fields) - 1 - i
				}
				live[j] = ColumnInfo{Name: f.Name, DataType: strings.ToLower(PgType(f.Type))}
			}

			d := ComputeDiff(fields, live, nil)
			return d.Empty() && len(d.Statements("t")) == 0 &&
				Fingerprint(shapeColumns(fields)) == Fingerprint(live)
		},
		gen.SliceOf(gen.IntRange(0, 10)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestProperty_RenamePairsNeverDropOldNames checks the rename-before-drop
// law at the diff level: an old column with a pending rename is renamed, not
// dropped, and its target never surfaces as an addition once applied.
func TestProperty_RenamePairsNeverDropOldNames(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("applied renames leave no additions or drops behind", prop.ForAll(
		func(n int) bool {
			n = n%5 + 1
			fields := make([]FieldSpec, n)
			renames := make(map[string]string, n)
			before := make([]ColumnInfo, n)
			after := make([]ColumnInfo, n)
			for i := 0; i < n; i++ {
				oldName := fmt.Sprintf("old%02d", i)
				newName := fmt.Sprintf("new%02d", i)
				fields[i] = FieldSpec{Name: newName, Type: Text}
				renames[oldName] = newName
				before[i] = ColumnInfo{Name: oldName, DataType: "text"}
				after[i] = ColumnInfo{Name: newName, DataType: "text"}
			}

			pre := ComputeDiff(fields, before, renames)
			if len(pre.Renames) != n || len(pre.Removals) != 0 {
				return false
			}
			post := ComputeDiff(fields, after, renames)
			return post.Empty()
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
