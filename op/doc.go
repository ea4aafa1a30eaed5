// Package op provides high-level operations for working with databases and tables.
//
// The op package sits on top of the toolkit layer (db/), providing convenient
// handles for common database operations.
//
// # DatabaseOp
//
// DatabaseOp wraps database-level operations:
//
//	dbOp, err := op.GetDatabase("mydb", toolkit)
//	tables, err := dbOp.TableNames()      // List all tables
//	dbOp.Drop()                           // Drop database
//
// # TableOp
//
// TableOp wraps table-level operations for CRUD and export:
//
//	tableOp, err := op.GetTable("users", toolkit)
//
//	// Read operations
//	result, err := tableOp.Fetch(query.Filters{{Column: "id", Value: 5}})
//	info, err := tableOp.Info()           // Column metadata
//	count, err := tableOp.Count()         // Count records
//
//	// Write operations
//	tableOp.Insert(query.Row{{Column: "name", Value: "Ann"}})
//	tableOp.Update(row, conditions)
//	tableOp.Delete(conditions)
//	tableOp.Truncate()
//
//	// Export
//	tableOp.Export(ctx, "s3://bucket/users.csv", s3cfg)
//
// # Architecture
//
// The layering is:
//
//	CLI / Server (cmd/)
//	     ↓
//	Operations (op/)     ← This package
//	     ↓
//	Toolkit (db/)
//	     ↓
//	database/sql driver (pgx, duckdb)
package op
