package query

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which statement shape Build assembles.
type Kind string

const (
	Select Kind = "SELECT"
	Insert Kind = "INSERT"
	Update Kind = "UPDATE"
	Delete Kind = "DELETE"
)

var (
	// ErrEmptyData indicates an INSERT or UPDATE with no column values.
	ErrEmptyData = errors.New("statement requires at least one column value")

	// ErrNoConditions indicates a DELETE with no WHERE conditions. An
	// unconditioned DELETE would erase the whole table and is rejected.
	ErrNoConditions = errors.New("DELETE requires at least one condition")

	// ErrUnknownKind indicates a statement kind outside the supported set.
	ErrUnknownKind = errors.New("unrecognized statement kind")
)

// Field is one column/value pair.
type Field struct {
	Column string
	Value  any
}

// Row is an ordered sequence of column values. Order is significant: the
// column list and the argument list are emitted in the order the Row was
// written, which keeps placeholders and arguments aligned. A Go map would
// not guarantee that, so rows are written as literal pair sequences:
//
//	query.Row{{"name", "Ann"}, {"age", 30}}
type Row []Field

// Filters is an ordered sequence of equality conditions joined with AND.
type Filters []Field

// Set appends a column value, for callers building rows incrementally.
func (r Row) Set(column string, value any) Row {
	return append(r, Field{Column: column, Value: value})
}

// Where appends an equality condition.
func (f Filters) Where(column string, value any) Filters {
	return append(f, Field{Column: column, Value: value})
}

// Statement is a built statement: SQL text with positional placeholders and
// the bound arguments matching them left to right.
type Statement struct {
	SQL  string
	Args []any
}

// Build assembles a parameterized statement using the default "?" dialect.
func Build(table string, data Row, conds Filters, kind Kind) (Statement, error) {
	return BuildFor(QuestionDialect{}, table, data, conds, kind)
}

// BuildFor assembles a parameterized statement for the given dialect.
// Validation failures return an error before any statement text is built.
func BuildFor(d Dialect, table string, data Row, conds Filters, kind Kind) (Statement, error) {
	switch kind {
	case Select:
		return buildSelect(d, table, conds), nil
	case Insert:
		if len(data) == 0 {
			return Statement{}, fmt.Errorf("INSERT into %s: %w", table, ErrEmptyData)
		}
		return buildInsert(d, table, data), nil
	case Update:
		if len(data) == 0 {
			return Statement{}, fmt.Errorf("UPDATE %s: %w", table, ErrEmptyData)
		}
		return buildUpdate(d, table, data, conds), nil
	case Delete:
		if len(conds) == 0 {
			return Statement{}, fmt.Errorf("DELETE from %s: %w", table, ErrNoConditions)
		}
		return buildDelete(d, table, conds), nil
	default:
		return Statement{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
}

func buildSelect(d Dialect, table string, conds Filters) Statement {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(d.QuoteIdentifier(table))

	args := appendWhere(d, &sb, conds)
	return Statement{SQL: sb.String(), Args: args}
}

func buildInsert(d Dialect, table string, data Row) Statement {
	columns := make([]string, len(data))
	markers := make([]string, len(data))
	args := make([]any, len(data))

	// One pass builds both the column list and the argument list so their
	// order cannot diverge.
	for i, field := range data {
		columns[i] = d.QuoteIdentifier(field.Column)
		markers[i] = d.Placeholder(i + 1)
		args[i] = SanitizeValue(field.Value).Driver()
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteIdentifier(table),
		strings.Join(columns, ", "),
		strings.Join(markers, ", "))

	return Statement{SQL: sql, Args: args}
}

func buildUpdate(d Dialect, table string, data Row, conds Filters) Statement {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(d.QuoteIdentifier(table))
	sb.WriteString(" SET ")

	args := make([]any, 0, len(data)+len(conds))
	for i, field := range data {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.QuoteIdentifier(field.Column))
		sb.WriteString(" = ")
		sb.WriteString(d.Placeholder(len(args) + 1))
		args = append(args, SanitizeValue(field.Value).Driver())
	}

	// Condition arguments follow the SET arguments, matching the
	// statement's left-to-right placeholder order.
	args = appendWhereTo(d, &sb, conds, args)
	return Statement{SQL: sb.String(), Args: args}
}

func buildDelete(d Dialect, table string, conds Filters) Statement {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	sb.WriteString(d.QuoteIdentifier(table))

	args := appendWhere(d, &sb, conds)
	return Statement{SQL: sb.String(), Args: args}
}

// appendWhere writes an optional WHERE clause and returns the collected
// arguments.
func appendWhere(d Dialect, sb *strings.Builder, conds Filters) []any {
	return appendWhereTo(d, sb, conds, make([]any, 0, len(conds)))
}

// appendWhereTo extends an existing argument list; placeholder numbering
// continues from len(args).
func appendWhereTo(d Dialect, sb *strings.Builder, conds Filters, args []any) []any {
	for i, cond := range conds {
		if i == 0 {
			sb.WriteString(" WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		sb.WriteString(d.QuoteIdentifier(cond.Column))
		sb.WriteString(" = ")
		sb.WriteString(d.Placeholder(len(args) + 1))
		args = append(args, SanitizeValue(cond.Value).Driver())
	}
	return args
}
