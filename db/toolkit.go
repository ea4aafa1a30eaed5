package db

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgtoolkit/pgtoolkit/core"
	"github.com/pgtoolkit/pgtoolkit/query"
)

// sqlstateDuplicateDatabase is the Postgres error code for CREATE DATABASE
// on a name that already exists.
const sqlstateDuplicateDatabase = "42P04"

// ErrNoAlterations indicates an AlterTable call with nothing to do.
var ErrNoAlterations = errors.New("no valid alteration parameters provided")

// Toolkit is the entry point for database, table and record operations.
// It is stateless apart from its configuration; every method builds one
// statement and hands it to the executor.
type Toolkit struct {
	cfg     core.Config
	exec    Executor
	dialect query.Dialect
}

// New creates a Toolkit bound to an executor. The dialect is chosen from
// the configured driver.
func New(cfg core.Config, exec Executor) *Toolkit {
	return &Toolkit{
		cfg:     cfg,
		exec:    exec,
		dialect: query.DialectFor(cfg.Driver),
	}
}

// Config returns the toolkit's current connection configuration. After
// CreateDatabase it points at the newly created database.
func (t *Toolkit) Config() core.Config {
	return t.cfg
}

// Dialect returns the SQL dialect in use.
func (t *Toolkit) Dialect() query.Dialect {
	return t.dialect
}

// CreateDatabase creates a database and repoints the toolkit configuration
// at it. An already-existing database is not an error.
func (t *Toolkit) CreateDatabase(name string) (CommitResult, error) {
	start := time.Now()

	stmt := "CREATE DATABASE " + query.SanitizeIdentifier(name)
	if _, err := t.exec.Exec(stmt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlstateDuplicateDatabase {
			t.cfg = t.cfg.WithDatabase(name)
			return CommitResult{ExecutionTimeSec: time.Since(start).Seconds()}, nil
		}
		return CommitResult{}, fmt.Errorf("failed to create database %s: %w", name, err)
	}

	t.cfg = t.cfg.WithDatabase(name)

	return CommitResult{
		DatabasesCreated: 1,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// DropDatabase drops a database. On Postgres, active backends on that
// database are terminated first so the drop cannot hang on open sessions.
func (t *Toolkit) DropDatabase(name string) (CommitResult, error) {
	start := time.Now()

	if t.cfg.Driver == core.DriverPostgres {
		terminate := fmt.Sprintf(
			"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = %s AND pid <> pg_backend_pid()",
			t.dialect.Placeholder(1))
		rows, err := t.exec.Query(terminate, name)
		if err != nil {
			return CommitResult{}, fmt.Errorf("failed to terminate connections to %s: %w", name, err)
		}
		rows.Close()
	}

	stmt := "DROP DATABASE IF EXISTS " + query.SanitizeIdentifier(name)
	if _, err := t.exec.Exec(stmt); err != nil {
		return CommitResult{}, fmt.Errorf("failed to drop database %s: %w", name, err)
	}

	return CommitResult{
		DatabasesDeleted: 1,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// Databases lists the databases on the server.
func (t *Toolkit) Databases() (QueryResult, error) {
	stmt := "SELECT datname FROM pg_database WHERE datistemplate = false"
	if t.cfg.Driver == core.DriverDuckDB {
		stmt = "SELECT database_name FROM duckdb_databases()"
	}
	return t.ExecuteQuery(stmt)
}

// CreateTable creates a table from an ordered schema definition. Column
// types and REFERENCES clauses are trusted DDL written by the caller; only
// identifiers pass through sanitization.
func (t *Toolkit) CreateTable(name string, schema core.Schema) (CommitResult, error) {
	start := time.Now()

	if len(schema) == 0 {
		return CommitResult{}, fmt.Errorf("table %s: schema must define at least one column", name)
	}

	defs := make([]string, len(schema))
	for i, col := range schema {
		def := query.SanitizeIdentifier(col.Name) + " " + col.Type
		if col.References != "" {
			def += " REFERENCES " + col.References
		}
		defs[i] = def
	}

	stmt := fmt.Sprintf("CREATE TABLE %s (%s)",
		query.SanitizeIdentifier(name), strings.Join(defs, ", "))
	if _, err := t.exec.Exec(stmt); err != nil {
		return CommitResult{}, fmt.Errorf("failed to create table %s: %w", name, err)
	}

	return CommitResult{
		TablesCreated:    1,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// DropTable drops a table if it exists.
func (t *Toolkit) DropTable(name string) (CommitResult, error) {
	start := time.Now()

	stmt := "DROP TABLE IF EXISTS " + query.SanitizeIdentifier(name)
	if _, err := t.exec.Exec(stmt); err != nil {
		return CommitResult{}, fmt.Errorf("failed to drop table %s: %w", name, err)
	}

	return CommitResult{
		TablesDeleted:    1,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// TruncateTable removes all records from a table without dropping it.
func (t *Toolkit) TruncateTable(name string) (CommitResult, error) {
	start := time.Now()

	stmt := "TRUNCATE TABLE " + query.SanitizeIdentifier(name)
	if _, err := t.exec.Exec(stmt); err != nil {
		return CommitResult{}, fmt.Errorf("failed to truncate table %s: %w", name, err)
	}

	return CommitResult{
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// Tables lists the base tables in the current database.
func (t *Toolkit) Tables() ([]string, error) {
	schema := "public"
	if t.cfg.Driver == core.DriverDuckDB {
		schema = "main"
	}

	stmt := fmt.Sprintf(
		"SELECT table_name FROM information_schema.tables WHERE table_schema = %s AND table_type = 'BASE TABLE'",
		t.dialect.Placeholder(1))

	result, err := t.ExecuteQuery(stmt, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]string, 0, len(result.Data))
	for _, row := range result.Data {
		if len(row) > 0 {
			tables = append(tables, row[0])
		}
	}
	return tables, nil
}

// TableInfo returns column name, data type, nullability and default for
// each column of a table, in ordinal position order.
func (t *Toolkit) TableInfo(name string) (QueryResult, error) {
	stmt := fmt.Sprintf(
		"SELECT column_name, data_type, is_nullable, column_default FROM information_schema.columns WHERE table_name = %s ORDER BY ordinal_position",
		t.dialect.Placeholder(1))
	return t.ExecuteQuery(stmt, name)
}
