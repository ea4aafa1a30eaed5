// Package pgtoolkit provides a thin convenience layer over database/sql for
// PostgreSQL and DuckDB.
//
// pgtoolkit builds parameterized SQL statements from Go values, quotes every
// identifier, and renders query results as tables. It is not an ORM: each
// operation maps to a single statement.
//
// # Quick Start
//
// Connect using environment configuration:
//
//	cfg := core.LoadConfig()
//	toolkit, _ := pgtoolkit.Open(cfg)
//
//	toolkit.CreateTable("users", core.Schema{
//		{Name: "id", Type: "SERIAL PRIMARY KEY"},
//		{Name: "name", Type: "TEXT"},
//	})
//	toolkit.InsertRecord("users", query.Row{
//		{Column: "name", Value: "Alice"},
//	})
//
//	result, _ := toolkit.FetchRecords("users", nil)
//	result.Display()
//
// # Supported operations
//
// pgtoolkit supports:
//   - CREATE/DROP DATABASE
//   - CREATE/DROP/ALTER/TRUNCATE TABLE
//   - INSERT, SELECT, UPDATE, DELETE with equality conditions
//   - Arbitrary parameterized queries via ExecuteQuery
//   - Table listings and column metadata via information_schema
//   - CSV export and import, including file://, http(s):// and s3:// paths
package pgtoolkit
