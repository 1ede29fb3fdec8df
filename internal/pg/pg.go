// Package pg holds the identifier and literal quoting helpers shared by the
// schema synchronizer and the query compiler. Keeping every escape path in
// one place makes injection-safety reviewable in a single file.
package pg

import "strings"

// Ident safely quotes a single identifier segment for Postgres.
func Ident(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// FQN quotes a possibly schema-qualified name like "public.users" to
// "public"."users". If no dot is present, returns a single quoted ident.
func FQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = Ident(p)
	}
	return strings.Join(parts, ".")
}

// Idents maps a list of column names to their quoted forms.
func Idents(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = Ident(c)
	}
	return out
}

// Literal quotes a string value as a SQL literal, doubling embedded quotes.
// Used only for DDL default clauses; data values always travel as parameters.
func Literal(v string) string { return "'" + strings.ReplaceAll(v, "'", "''") + "'" }
