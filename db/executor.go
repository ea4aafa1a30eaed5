package db

import (
	"database/sql"
)

// Rows is the subset of *sql.Rows the toolkit consumes.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Executor runs a single prepared statement against a database. *sql.DB
// satisfies it through WrapDB. Implementations must bind args positionally
// against the statement's placeholders.
type Executor interface {
	// Query executes a statement that returns rows.
	Query(query string, args ...any) (Rows, error)

	// Exec executes a statement that does not return rows.
	Exec(query string, args ...any) (sql.Result, error)
}

type sqlExecutor struct {
	db *sql.DB
}

// WrapDB adapts a *sql.DB to the Executor interface.
func WrapDB(db *sql.DB) Executor {
	return sqlExecutor{db: db}
}

func (e sqlExecutor) Query(query string, args ...any) (Rows, error) {
	return e.db.Query(query, args...)
}

func (e sqlExecutor) Exec(query string, args ...any) (sql.Result, error) {
	return e.db.Exec(query, args...)
}
