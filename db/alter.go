package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/pgtoolkit/pgtoolkit/core"
	"github.com/pgtoolkit/pgtoolkit/query"
)

// Rename pairs an existing identifier with its new name.
type Rename struct {
	From string
	To   string
}

// ColumnDefault pairs a column with a default expression.
type ColumnDefault struct {
	Column  string
	Default string
}

// ColumnType pairs a column with a new SQL type.
type ColumnType struct {
	Column string
	Type   string
}

// Constraint pairs a constraint name with its definition.
type Constraint struct {
	Name       string
	Definition string
}

// Alterations collects the changes AlterTable applies in one statement.
// All set fields are applied together; at least one must be set.
type Alterations struct {
	AddColumn         *core.Column
	DropColumn        string
	RenameColumn      *Rename
	AlterColumnType   *ColumnType
	RenameTable       string
	AddConstraint     *Constraint
	DropConstraint    string
	SetColumnDefault  *ColumnDefault
	DropColumnDefault string
	SetColumnNotNull  string
	DropColumnNotNull string
}

// clauses renders the individual ALTER TABLE actions in a fixed order.
func (a Alterations) clauses() []string {
	id := query.SanitizeIdentifier
	var out []string

	if a.AddColumn != nil {
		clause := fmt.Sprintf("ADD COLUMN %s %s", id(a.AddColumn.Name), a.AddColumn.Type)
		if a.AddColumn.References != "" {
			clause += " REFERENCES " + a.AddColumn.References
		}
		out = append(out, clause)
	}
	if a.DropColumn != "" {
		out = append(out, "DROP COLUMN "+id(a.DropColumn))
	}
	if a.RenameColumn != nil {
		out = append(out, fmt.Sprintf("RENAME COLUMN %s TO %s", id(a.RenameColumn.From), id(a.RenameColumn.To)))
	}
	if a.AlterColumnType != nil {
		out = append(out, fmt.Sprintf("ALTER COLUMN %s TYPE %s", id(a.AlterColumnType.Column), a.AlterColumnType.Type))
	}
	if a.RenameTable != "" {
		out = append(out, "RENAME TO "+id(a.RenameTable))
	}
	if a.AddConstraint != nil {
		out = append(out, fmt.Sprintf("ADD CONSTRAINT %s %s", id(a.AddConstraint.Name), a.AddConstraint.Definition))
	}
	if a.DropConstraint != "" {
		out = append(out, "DROP CONSTRAINT "+id(a.DropConstraint))
	}
	if a.SetColumnDefault != nil {
		out = append(out, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", id(a.SetColumnDefault.Column), a.SetColumnDefault.Default))
	}
	if a.DropColumnDefault != "" {
		out = append(out, fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", id(a.DropColumnDefault)))
	}
	if a.SetColumnNotNull != "" {
		out = append(out, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", id(a.SetColumnNotNull)))
	}
	if a.DropColumnNotNull != "" {
		out = append(out, fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", id(a.DropColumnNotNull)))
	}

	return out
}

// AlterTable applies the given alterations to a table in a single
// statement.
func (t *Toolkit) AlterTable(name string, alt Alterations) (CommitResult, error) {
	start := time.Now()

	clauses := alt.clauses()
	if len(clauses) == 0 {
		return CommitResult{}, fmt.Errorf("table %s: %w", name, ErrNoAlterations)
	}

	stmt := fmt.Sprintf("ALTER TABLE %s %s",
		query.SanitizeIdentifier(name), strings.Join(clauses, ", "))
	if _, err := t.exec.Exec(stmt); err != nil {
		return CommitResult{}, fmt.Errorf("failed to alter table %s: %w", name, err)
	}

	return CommitResult{
		TablesAltered:    1,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}
