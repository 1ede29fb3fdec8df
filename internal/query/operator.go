// Package query compiles structured filter conditions into a single
// parameterized SQL statement plus its ordered argument list. The compiler is
// pure: it performs no I/O and is deterministic for identical inputs, which
// keeps it trivially testable and safe to call from concurrent code.
package query

import (
	"fmt"
	"strings"
)

// Condition keys take the form "field" or "field__operator". A bare field
// name means equality. The operator tokens and their SQL renderings:
//
//	equal     =          notEqual  !=
//	greater   >          greaterEq >=
//	less      <          lessEq    <=
//	like      LIKE       in        IN
//	notIn     NOT IN     isNull    IS NULL
//	isNotNull IS NOT NULL
//
// Note the comparison tokens map literally (less is strictly-less-than);
// the table below is the single source of truth.
type opInfo struct {
	sql   string
	list  bool // value must be a slice; one placeholder per element
	unary bool // no value, no placeholder
}

var operators = map[string]opInfo{
	"equal":     {sql: "="},
	"notEqual":  {sql: "!="},
	"greater":   {sql: ">"},
	"greaterEq": {sql: ">="},
	"less":      {sql: "<"},
	"lessEq":    {sql: "<="},
	"like":      {sql: "LIKE"},
	"in":        {sql: "IN", list: true},
	"notIn":     {sql: "NOT IN", list: true},
	"isNull":    {sql: "IS NULL", unary: true},
	"isNotNull": {sql: "IS NOT NULL", unary: true},
}

// splitKey separates a condition key into its field name and operator token.
// A key without the "__" marker is an equality test on the whole key.
func splitKey(key string) (field, op string) {
	if i := strings.LastIndex(key, "__"); i >= 0 {
		return key[:i], key[i+2:]
	}
	return key, "equal"
}

// InvalidFilterError reports a condition whose value does not fit its
// operator, e.g. a non-slice value supplied to "in". The compile call that
// encountered it returns no partial SQL.
type InvalidFilterError struct {
	Field  string
	Reason string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter on %q: %s", e.Field, e.Reason)
}

// UnknownOperatorError reports an unrecognized operator suffix. Rejecting the
// key loudly beats compiling a comparison against a column that does not
// exist.
type UnknownOperatorError struct {
	Field string
	Op    string
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator %q on field %q", e.Op, e.Field)
}
