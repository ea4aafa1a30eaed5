package query

import (
	"fmt"
	"strings"
)

// Dialect controls placeholder syntax and identifier quoting for a target
// database.
type Dialect interface {
	// Placeholder returns the positional parameter marker for the given
	// 1-based index.
	Placeholder(index int) string

	// QuoteIdentifier wraps a table or column name in the dialect's
	// identifier quotes, escaping embedded quote characters.
	QuoteIdentifier(name string) string
}

// QuestionDialect emits "?" placeholders and double-quoted identifiers.
// It matches DuckDB and most database/sql drivers, and is the default.
type QuestionDialect struct{}

// Placeholder returns "?" regardless of index.
func (QuestionDialect) Placeholder(index int) string {
	return "?"
}

// QuoteIdentifier returns the name wrapped in double quotes with embedded
// double quotes doubled.
func (QuestionDialect) QuoteIdentifier(name string) string {
	return quoteDouble(name)
}

// PostgresDialect emits "$1", "$2", ... placeholders and double-quoted
// identifiers.
type PostgresDialect struct{}

// Placeholder returns $1, $2, etc.
func (PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

// QuoteIdentifier returns the name wrapped in double quotes with embedded
// double quotes doubled.
func (PostgresDialect) QuoteIdentifier(name string) string {
	return quoteDouble(name)
}

// DialectFor returns the dialect matching a database/sql driver name.
// Postgres drivers get numbered placeholders; everything else gets "?".
func DialectFor(driver string) Dialect {
	switch driver {
	case "pgx", "postgres", "pgx/v5":
		return PostgresDialect{}
	default:
		return QuestionDialect{}
	}
}

// quoteDouble implements standard SQL identifier quoting: wrap in double
// quotes and double every embedded double quote. Total over all inputs.
func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SanitizeIdentifier quotes a table or column name for safe inclusion in
// statement text. Embedded quote characters cannot terminate the quoted
// region early.
func SanitizeIdentifier(raw string) string {
	return quoteDouble(raw)
}
