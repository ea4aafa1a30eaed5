package db

import (
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgtoolkit/pgtoolkit/core"
)

// fakeRows feeds canned data through the Rows interface.
type fakeRows struct {
	columns []string
	data    [][]any
	idx     int
	closed  bool
}

func (r *fakeRows) Columns() ([]string, error) { return r.columns, nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	for i, d := range dest {
		ptr, ok := d.(*any)
		if !ok {
			return errors.New("unexpected scan target")
		}
		*ptr = row[i]
	}
	return nil
}

func (r *fakeRows) Err() error   { return nil }
func (r *fakeRows) Close() error { r.closed = true; return nil }

type fakeResult struct {
	affected int64
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

type executed struct {
	stmt string
	args []any
}

// fakeExecutor records every statement and serves canned rows and errors.
type fakeExecutor struct {
	calls    []executed
	rows     *fakeRows
	queryErr error
	execErr  error
	affected int64
}

func (e *fakeExecutor) Query(query string, args ...any) (Rows, error) {
	e.calls = append(e.calls, executed{stmt: query, args: args})
	if e.queryErr != nil {
		return nil, e.queryErr
	}
	if e.rows == nil {
		return &fakeRows{}, nil
	}
	return e.rows, nil
}

func (e *fakeExecutor) Exec(query string, args ...any) (sql.Result, error) {
	e.calls = append(e.calls, executed{stmt: query, args: args})
	if e.execErr != nil {
		return nil, e.execErr
	}
	return fakeResult{affected: e.affected}, nil
}

func (e *fakeExecutor) last() executed {
	return e.calls[len(e.calls)-1]
}

func setupToolkit(driver string) (*Toolkit, *fakeExecutor) {
	exec := &fakeExecutor{}
	cfg := core.Config{Driver: driver, Host: "localhost", Port: "5432", User: "test", Database: "postgres"}
	return New(cfg, exec), exec
}

func TestCreateDatabase(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)

	result, err := toolkit.CreateDatabase("analytics")
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	if exec.last().stmt != `CREATE DATABASE "analytics"` {
		t.Errorf("Unexpected statement: %s", exec.last().stmt)
	}
	if result.DatabasesCreated != 1 {
		t.Errorf("Expected 1 database created, got %d", result.DatabasesCreated)
	}
	if toolkit.Config().Database != "analytics" {
		t.Errorf("Config should point at new database, got %s", toolkit.Config().Database)
	}
}

func TestCreateDatabaseAlreadyExists(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)
	exec.execErr = &pgconn.PgError{Code: "42P04", Message: "database already exists"}

	result, err := toolkit.CreateDatabase("analytics")
	if err != nil {
		t.Fatalf("Duplicate database must not be an error: %v", err)
	}
	if result.DatabasesCreated != 0 {
		t.Errorf("Expected no creation count for duplicate, got %d", result.DatabasesCreated)
	}
	if toolkit.Config().Database != "analytics" {
		t.Error("Config should still point at the existing database")
	}
}

func TestCreateDatabaseOtherError(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)
	exec.execErr = errors.New("connection refused")

	if _, err := toolkit.CreateDatabase("analytics"); err == nil {
		t.Fatal("Expected error to propagate")
	}
}

func TestDropDatabaseTerminatesBackends(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)
	exec.rows = &fakeRows{}

	result, err := toolkit.DropDatabase("analytics")
	if err != nil {
		t.Fatalf("Failed to drop database: %v", err)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("Expected terminate + drop, got %d calls", len(exec.calls))
	}
	if !strings.Contains(exec.calls[0].stmt, "pg_terminate_backend") {
		t.Errorf("First statement should terminate backends: %s", exec.calls[0].stmt)
	}
	if len(exec.calls[0].args) != 1 || exec.calls[0].args[0] != "analytics" {
		t.Errorf("Database name must be bound, got %v", exec.calls[0].args)
	}
	if exec.calls[1].stmt != `DROP DATABASE IF EXISTS "analytics"` {
		t.Errorf("Unexpected drop statement: %s", exec.calls[1].stmt)
	}
	if result.DatabasesDeleted != 1 {
		t.Errorf("Expected 1 database deleted, got %d", result.DatabasesDeleted)
	}
	if !exec.rows.closed {
		t.Error("Rows from the terminate query must be closed")
	}
}

func TestDropDatabaseDuckDBSkipsTerminate(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverDuckDB)

	if _, err := toolkit.DropDatabase("local"); err != nil {
		t.Fatalf("Failed to drop database: %v", err)
	}
	if len(exec.calls) != 1 {
		t.Fatalf("Expected a single drop statement, got %d calls", len(exec.calls))
	}
}

func TestDatabasesPerDriver(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)
	exec.rows = &fakeRows{columns: []string{"datname"}, data: [][]any{{"postgres"}, {"analytics"}}}

	result, err := toolkit.Databases()
	if err != nil {
		t.Fatalf("Failed to list databases: %v", err)
	}
	if !strings.Contains(exec.last().stmt, "pg_database") {
		t.Errorf("Expected pg_database query: %s", exec.last().stmt)
	}
	if result.RecordsRead != 2 {
		t.Errorf("Expected 2 databases, got %d", result.RecordsRead)
	}

	duck, duckExec := setupToolkit(core.DriverDuckDB)
	if _, err := duck.Databases(); err != nil {
		t.Fatalf("Failed to list databases: %v", err)
	}
	if !strings.Contains(duckExec.last().stmt, "duckdb_databases") {
		t.Errorf("Expected duckdb_databases query: %s", duckExec.last().stmt)
	}
}

func TestCreateTable(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)

	schema := core.Schema{
		{Name: "id", Type: "SERIAL PRIMARY KEY"},
		{Name: "user_id", Type: "INTEGER", References: "users(id)"},
	}
	result, err := toolkit.CreateTable("orders", schema)
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	want := `CREATE TABLE "orders" ("id" SERIAL PRIMARY KEY, "user_id" INTEGER REFERENCES users(id))`
	if exec.last().stmt != want {
		t.Errorf("Expected %q, got %q", want, exec.last().stmt)
	}
	if result.TablesCreated != 1 {
		t.Errorf("Expected 1 table created, got %d", result.TablesCreated)
	}
}

func TestCreateTableEmptySchema(t *testing.T) {
	toolkit, _ := setupToolkit(core.DriverPostgres)
	if _, err := toolkit.CreateTable("orders", nil); err == nil {
		t.Fatal("Expected error for empty schema")
	}
}

func TestDropAndTruncateTable(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)

	if _, err := toolkit.DropTable("orders"); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}
	if exec.last().stmt != `DROP TABLE IF EXISTS "orders"` {
		t.Errorf("Unexpected statement: %s", exec.last().stmt)
	}

	if _, err := toolkit.TruncateTable("orders"); err != nil {
		t.Fatalf("Failed to truncate table: %v", err)
	}
	if exec.last().stmt != `TRUNCATE TABLE "orders"` {
		t.Errorf("Unexpected statement: %s", exec.last().stmt)
	}
}

func TestTables(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)
	exec.rows = &fakeRows{columns: []string{"table_name"}, data: [][]any{{"users"}, {"orders"}}}

	tables, err := toolkit.Tables()
	if err != nil {
		t.Fatalf("Failed to list tables: %v", err)
	}
	if len(tables) != 2 || tables[0] != "users" || tables[1] != "orders" {
		t.Errorf("Unexpected tables: %v", tables)
	}
	if !strings.Contains(exec.last().stmt, "information_schema.tables") {
		t.Errorf("Expected information_schema query: %s", exec.last().stmt)
	}
	if len(exec.last().args) != 1 || exec.last().args[0] != "public" {
		t.Errorf("Schema name must be bound: %v", exec.last().args)
	}
}

func TestTableInfo(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)
	exec.rows = &fakeRows{
		columns: []string{"column_name", "data_type", "is_nullable", "column_default"},
		data:    [][]any{{"id", "integer", "NO", "nextval(...)"}},
	}

	result, err := toolkit.TableInfo("users")
	if err != nil {
		t.Fatalf("Failed to get table info: %v", err)
	}
	if !strings.Contains(exec.last().stmt, "ordinal_position") {
		t.Errorf("Expected ordinal_position ordering: %s", exec.last().stmt)
	}
	if len(exec.last().args) != 1 || exec.last().args[0] != "users" {
		t.Errorf("Table name must be bound, got %v", exec.last().args)
	}
	if result.RecordsRead != 1 || result.Data[0][0] != "id" {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestAlterTable(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)

	result, err := toolkit.AlterTable("users", Alterations{
		AddColumn:  &core.Column{Name: "email", Type: "VARCHAR(100)"},
		DropColumn: "user_id",
	})
	if err != nil {
		t.Fatalf("Failed to alter table: %v", err)
	}

	want := `ALTER TABLE "users" ADD COLUMN "email" VARCHAR(100), DROP COLUMN "user_id"`
	if exec.last().stmt != want {
		t.Errorf("Expected %q, got %q", want, exec.last().stmt)
	}
	if result.TablesAltered != 1 {
		t.Errorf("Expected 1 table altered, got %d", result.TablesAltered)
	}
}

func TestAlterTableAllClauses(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)

	_, err := toolkit.AlterTable("users", Alterations{
		RenameColumn:      &Rename{From: "nombre", To: "name"},
		AlterColumnType:   &ColumnType{Column: "age", Type: "BIGINT"},
		AddConstraint:     &Constraint{Name: "age_positive", Definition: "CHECK (age > 0)"},
		SetColumnDefault:  &ColumnDefault{Column: "age", Default: "0"},
		SetColumnNotNull:  "name",
		DropColumnNotNull: "age",
	})
	if err != nil {
		t.Fatalf("Failed to alter table: %v", err)
	}

	stmt := exec.last().stmt
	for _, clause := range []string{
		`RENAME COLUMN "nombre" TO "name"`,
		`ALTER COLUMN "age" TYPE BIGINT`,
		`ADD CONSTRAINT "age_positive" CHECK (age > 0)`,
		`ALTER COLUMN "age" SET DEFAULT 0`,
		`ALTER COLUMN "name" SET NOT NULL`,
		`ALTER COLUMN "age" DROP NOT NULL`,
	} {
		if !strings.Contains(stmt, clause) {
			t.Errorf("Missing clause %q in %q", clause, stmt)
		}
	}
}

func TestAlterTableNoAlterations(t *testing.T) {
	toolkit, _ := setupToolkit(core.DriverPostgres)
	if _, err := toolkit.AlterTable("users", Alterations{}); !errors.Is(err, ErrNoAlterations) {
		t.Fatalf("Expected ErrNoAlterations, got %v", err)
	}
}

func TestMaliciousTableNameIsQuoted(t *testing.T) {
	toolkit, exec := setupToolkit(core.DriverPostgres)

	if _, err := toolkit.DropTable(`users"; DROP TABLE other; --`); err != nil {
		t.Fatalf("Failed to drop table: %v", err)
	}
	if exec.last().stmt != `DROP TABLE IF EXISTS "users""; DROP TABLE other; --"` {
		t.Errorf("Identifier not escaped: %s", exec.last().stmt)
	}
}
