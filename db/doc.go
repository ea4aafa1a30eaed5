// Package db provides the Toolkit, a thin synchronous convenience layer
// over a relational database.
//
// Toolkit methods cover database management (create, drop, list), table
// management (create, drop, alter, truncate, introspect), and parameterized
// record CRUD. Every operation assembles one statement through the query
// package and hands it to an Executor, so caller input can never change the
// shape of the generated SQL.
//
// # Toolkit Usage
//
//	sqlDB, _ := sql.Open("pgx", cfg.DSN())
//	toolkit := db.New(cfg, db.WrapDB(sqlDB))
//
//	toolkit.CreateTable("users", core.Schema{
//	    {Name: "id", Type: "SERIAL PRIMARY KEY"},
//	    {Name: "name", Type: "VARCHAR(100)"},
//	})
//	toolkit.InsertRecord("users", query.Row{{"name", "Ann"}})
//
//	result, _ := toolkit.FetchRecords("users", query.Filters{{"name", "Ann"}})
//	result.Display()
//
// # Result Types
//
// There are two result types:
//   - QueryResult: tabular rows from SELECT-shaped operations
//   - CommitResult: counts of affected objects from mutations
//
// # Executors
//
// Executor is the boundary to the actual database. WrapDB adapts a *sql.DB;
// tests substitute a recording fake. Each operation executes exactly one
// statement and autocommits — no pooling management, no cross-call
// transactions.
package db
