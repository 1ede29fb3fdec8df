package query

import (
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// TestProperty_PlaceholderContinuity checks the compiler's core invariant:
// for any predicate shape, the compiled SQL contains exactly len(Args)
// placeholders, numbered 1..N in order of first appearance, and the Kth
// placeholder corresponds to Args[K-1].
func TestProperty_PlaceholderContinuity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("placeholders are 1..N and match the argument list", prop.ForAll(
		func(groupSizes []int, listLen int, base int) bool {
			if listLen < 1 {
				listLen = 1
			}

			// Build OR-of-AND groups deterministically from the generated
			// shape: scalar comparisons plus one IN list per group, with
			// values derived from a running counter so every argument is
			// distinguishable.
			next := base
			var wantArgs []any
			groups := make([]Cond, 0, len(groupSizes))
			for gi, size := range groupSizes {
				if size < 0 {
					size = -size
				}
				size = size%3 + 1
				c := Cond{}
				// Field names are zero-padded so sorted key order matches
				// construction order and wantArgs stays aligned.
				for fi := 0; fi < size; fi++ {
					c[fmt.Sprintf("f%02d", fi)] = next
					wantArgs = append(wantArgs, next)
					next++
				}
				if gi%2 == 0 {
					list := make([]int, listLen%4+1)
					for i := range list {
						list[i] = next
						wantArgs = append(wantArgs, next)
						next++
					}
					c["f99__in"] = list
				}
				groups = append(groups, c)
			}
			if len(groups) == 0 {
				groups = []Cond{{"f00": next}}
				wantArgs = append(wantArgs, next)
			}

			plan, err := CompileOr("t", groups, Options{})
			if err != nil {
				return false
			}

			matches := placeholderRe.FindAllStringSubmatch(plan.SQL, -1)
			if len(matches) != len(plan.Args) {
				return false
			}
			for i, m := range matches {
				n, err := strconv.Atoi(m[1])
				if err != nil || n != i+1 {
					return false
				}
			}
			if len(plan.Args) != len(wantArgs) {
				return false
			}
			for i := range wantArgs {
				if plan.Args[i] != wantArgs[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-10, 10)),
		gen.IntRange(1, 8),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// TestProperty_NullOperatorsNeverConsumeArguments checks that IS NULL and
// IS NOT NULL leaves contribute no parameters no matter what value rides
// along.
func TestProperty_NullOperatorsNeverConsumeArguments(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("unary operators emit no placeholders", prop.ForAll(
		func(value string, notNull bool) bool {
			key := "email__isNull"
			if notNull {
				key = "email__isNotNull"
			}
			plan, err := Compile("t", Cond{key: value}, Options{})
			if err != nil {
				return false
			}
			return len(plan.Args) == 0 && !placeholderRe.MatchString(plan.SQL)
		},
		gen.AnyString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
