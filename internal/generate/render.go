package generate

import (
	"fmt"
	"go/format"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ihavemadefire/tuskORM/internal/schema"
)

// Render produces the Go source for one table's model registration. The
// output is gofmt-formatted and carries the table's schema fingerprint in its
// header.
func Render(t Table) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by tusk generate. DO NOT EDIT.\n")
	fmt.Fprintf(&b, "// Schema fingerprint: %016x\n\n", t.Fingerprint())
	fmt.Fprintf(&b, "package %s\n\n", pkgName(t.Schema))
	fmt.Fprintf(&b, "import (\n")
	fmt.Fprintf(&b, "\t%q\n", "github.com/ihavemadefire/tuskORM/internal/model")
	fmt.Fprintf(&b, "\t%q\n", "github.com/ihavemadefire/tuskORM/internal/schema")
	fmt.Fprintf(&b, ")\n\n")

	name := TypeName(t.Name)
	fmt.Fprintf(&b, "// %s is the registered shape for table %q.\n", name, t.Name)
	fmt.Fprintf(&b, "var %s = model.New(%q, model.Meta{Table: %q},\n", name, name, t.Name)
	for _, c := range t.Columns {
		st := semanticType(c.DataType)
		fmt.Fprintf(&b, "\tschema.FieldSpec{Name: %q, Type: schema.%s", c.Name, goTypeConst(st))
		if lit, ok := defaultLiteral(c, st); ok {
			fmt.Fprintf(&b, ", HasDefault: true, Default: %s", lit)
		}
		fmt.Fprintf(&b, "},\n")
	}
	fmt.Fprintf(&b, ")\n")

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("format %s.%s: %w", t.Schema, t.Name, err)
	}
	return src, nil
}

// goTypeConst names the schema package constant for a semantic type.
func goTypeConst(t schema.SemanticType) string {
	switch t {
	case schema.UUID:
		return "UUID"
	case schema.JSON:
		return "JSON"
	default:
		return t.String()
	}
}

// defaultLiteral turns an information_schema column_default into a Go literal
// for the generated FieldSpec. Sequence-driven defaults (nextval) and
// anything unparseable are dropped; the column then syncs as nullable.
func defaultLiteral(c Column, st schema.SemanticType) (string, bool) {
	raw := strings.TrimSpace(c.Default)
	if raw == "" || strings.Contains(raw, "nextval") {
		return "", false
	}
	// '...'::text style: cut the cast, then the quotes.
	if i := strings.Index(raw, "::"); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	quoted := strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") && len(raw) >= 2
	if quoted {
		raw = strings.ReplaceAll(raw[1:len(raw)-1], "''", "'")
	}

	switch st {
	case schema.Int, schema.BigInt:
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return "", false
		}
		return raw, true
	case schema.Real, schema.Double:
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return "", false
		}
		return raw, true
	case schema.Bool:
		switch strings.ToLower(raw) {
		case "true", "false":
			return strings.ToLower(raw), true
		}
		return "", false
	case schema.Text:
		return strconv.Quote(raw), true
	default:
		// Timestamps, dates, UUIDs and the like default through expressions
		// (now(), gen_random_uuid()) that have no place in a declared shape.
		if quoted {
			return strconv.Quote(raw), true
		}
		return "", false
	}
}

// TypeName converts a table name to the generated Go type name:
// singularized, diacritic-folded, CamelCased ("order_items" -> "OrderItem").
func TypeName(table string) string {
	var b strings.Builder
	for _, part := range strings.Split(singularize(foldDiacritics(table)), "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	out := b.String()
	if out == "" || !validIdent(out) {
		return "Model" + strings.Map(keepAlnum, table)
	}
	return out
}

// singularize converts a table name to singular form (basic heuristic).
func singularize(table string) string {
	switch {
	case strings.HasSuffix(table, "ies"):
		return table[:len(table)-3] + "y"
	case strings.HasSuffix(table, "s") && !strings.HasSuffix(table, "ss"):
		return table[:len(table)-1]
	}
	return table
}

// pkgName derives a Go package name from a database schema name.
func pkgName(s string) string {
	out := strings.Map(keepAlnum, strings.ToLower(foldDiacritics(s)))
	if out == "" || unicode.IsDigit(rune(out[0])) {
		return "models"
	}
	return out
}

// foldDiacritics strips combining marks so accented catalog names become
// plain-ASCII Go identifiers ("časť" -> "cast").
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func keepAlnum(r rune) rune {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return r
	}
	return -1
}

func validIdent(s string) bool {
	for i, r := range s {
		if !unicode.IsLetter(r) && r != '_' && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return s != ""
}
