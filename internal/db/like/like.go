// Package like builds case-insensitive substring filters that match the search term literally.
package like

import (
	"strings"

	"gorm.io/gorm/clause"
)

// Escape is the LIKE escape character. A backslash would need doubling in MySQL string literals.
const Escape = "!"

var escaper = strings.NewReplacer(Escape, Escape+Escape, "%", Escape+"%", "_", Escape+"_")

// Pattern lowercases term, escapes the LIKE wildcards and wraps it in %.
func Pattern(term string) string {
	return "%" + escaper.Replace(strings.ToLower(term)) + "%"
}

// Contains matches rows where any of columns contains term, ignoring case. Pass it to Where.
// Column names are trusted input.
func Contains(term string, columns ...string) clause.Expression {
	if len(columns) == 0 {
		return clause.Expr{SQL: "1 = 1"}
	}

	pattern := Pattern(term)

	conds := make([]string, len(columns))
	vars := make([]any, len(columns))

	for i, col := range columns {
		conds[i] = "LOWER(" + col + ") LIKE ? ESCAPE '" + Escape + "'"
		vars[i] = pattern
	}

	return clause.Expr{SQL: "(" + strings.Join(conds, " OR ") + ")", Vars: vars}
}
