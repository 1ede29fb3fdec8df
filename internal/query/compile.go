package query

import (
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ihavemadefire/tuskORM/internal/pg"
)

// primaryKey is the column every projection must carry so a returned row can
// be correlated back to its record.
const primaryKey = "id"

// Cond is one AND group: every key/value pair must hold. Keys follow the
// "field" / "field__operator" convention described in this package's doc.
type Cond map[string]any

// Options carries projection, ordering, and pagination for a compiled SELECT.
type Options struct {
	// Columns to select, in caller order. The primary key is appended when
	// absent; an empty list selects all columns.
	Columns []string

	// OrderBy entries are column names; a "-" prefix means descending.
	OrderBy []string

	// Limit and Offset are appended as literal integers when positive. They
	// are compiler-controlled ints, not user data crossing the SQL boundary,
	// so they do not consume placeholders.
	Limit  int
	Offset int

	// Distinct prefixes the column list with DISTINCT.
	Distinct bool
}

// Plan is the compiled statement: SQL text plus the ordered argument list.
// The Nth "$N" placeholder in SQL corresponds exactly to Args[N-1].
type Plan struct {
	SQL  string
	Args []any
}

// Compile builds a SELECT over table filtered by one AND group. An empty
// Cond compiles to an unfiltered SELECT.
func Compile(table string, where Cond, opts Options) (Plan, error) {
	b := &builder{}
	clause, err := b.group(where)
	if err != nil {
		return Plan{}, err
	}
	return assemble(table, clause, b.args, opts), nil
}

// CompileOr builds a SELECT filtered by an OR of AND groups: each group is
// parenthesized, the groups are joined with OR, and the whole disjunction is
// wrapped in one outer parenthesis pair so precedence survives any further
// conjuncts a caller may splice in.
func CompileOr(table string, groups []Cond, opts Options) (Plan, error) {
	b := &builder{}
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		clause, err := b.group(g)
		if err != nil {
			return Plan{}, err
		}
		if clause != "" {
			parts = append(parts, "("+clause+")")
		}
	}
	var where string
	if len(parts) > 0 {
		where = "(" + strings.Join(parts, " OR ") + ")"
	}
	return assemble(table, where, b.args, opts), nil
}

// builder tracks the single running placeholder counter shared by every
// branch of a predicate: all conditions feed one flat positional argument
// list.
type builder struct {
	n    int
	args []any
}

func (b *builder) placeholder(v any) string {
	b.n++
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(b.n)
}

// group renders one AND group. Map iteration order is randomized in Go, so
// keys are sorted first; the argument list follows the same order, keeping
// the placeholder↔argument correspondence deterministic.
func (b *builder) group(c Cond) (string, error) {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		leaf, err := b.leaf(k, c[k])
		if err != nil {
			return "", err
		}
		parts = append(parts, leaf)
	}
	return strings.Join(parts, " AND "), nil
}

func (b *builder) leaf(key string, value any) (string, error) {
	field, op := splitKey(key)
	info, ok := operators[op]
	if !ok {
		return "", &UnknownOperatorError{Field: field, Op: op}
	}

	col := pg.Ident(field)
	switch {
	case info.unary:
		// IS NULL / IS NOT NULL take no argument regardless of the value.
		return col + " " + info.sql, nil
	case info.list:
		elems, err := listValues(field, value)
		if err != nil {
			return "", err
		}
		marks := make([]string, len(elems))
		for i, e := range elems {
			marks[i] = b.placeholder(e)
		}
		return col + " " + info.sql + " (" + strings.Join(marks, ", ") + ")", nil
	default:
		return col + " " + info.sql + " " + b.placeholder(value), nil
	}
}

// listValues flattens the value of an in/notIn condition into a []any.
// Strings are sequences of runes but not lists of values here.
func listValues(field string, value any) ([]any, error) {
	rv := reflect.ValueOf(value)
	if value == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Type() == reflect.TypeOf([]byte(nil)) {
		return nil, &InvalidFilterError{Field: field, Reason: "operator requires a list value"}
	}
	if rv.Len() == 0 {
		return nil, &InvalidFilterError{Field: field, Reason: "operator requires a non-empty list"}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func assemble(table, where string, args []any, opts Options) Plan {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if opts.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(projection(opts.Columns), ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(pg.FQN(table))
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if len(opts.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderClause(opts.OrderBy))
	}
	if opts.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(opts.Offset))
	}
	return Plan{SQL: sb.String(), Args: args}
}

// projection keeps the caller's column order and appends the primary key only
// when missing. No requested columns means all columns, which trivially
// include the key.
func projection(cols []string) []string {
	if len(cols) == 0 {
		return []string{"*"}
	}
	out := make([]string, 0, len(cols)+1)
	seen := false
	for _, c := range cols {
		if c == primaryKey {
			seen = true
		}
		out = append(out, pg.Ident(c))
	}
	if !seen {
		out = append(out, pg.Ident(primaryKey))
	}
	return out
}

func orderClause(entries []string) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		dir := " ASC"
		if strings.HasPrefix(e, "-") {
			e = e[1:]
			dir = " DESC"
		}
		parts = append(parts, pg.Ident(e)+dir)
	}
	return strings.Join(parts, ", ")
}
