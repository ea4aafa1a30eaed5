// Package query builds parameterized SQL statements from structured inputs.
//
// The builder turns a table name, an ordered set of column values, and
// optional filter conditions into a statement string with positional
// placeholders plus the bound argument list that matches them. Identifiers
// are always quoted, and composite values are JSON-encoded before binding,
// so caller input can never change the shape of the generated statement.
//
// # Building Statements
//
//	stmt, err := query.Build("users",
//	    query.Row{{"name", "Ann"}, {"age", 30}},
//	    nil,
//	    query.Insert)
//	// stmt.SQL  == `INSERT INTO "users" ("name", "age") VALUES (?, ?)`
//	// stmt.Args == []any{"Ann", int64(30)}
//
// Column order is the order the Row was written in; the argument list is
// collected in the same pass, so placeholders and arguments cannot drift
// apart.
//
// # Dialects
//
// BuildFor accepts a Dialect that controls placeholder syntax and identifier
// quoting. Question (the default) emits "?" placeholders; Postgres emits
// "$1", "$2", ...
//
// # Validation
//
// INSERT and UPDATE require at least one column value, DELETE requires at
// least one condition, and unknown kinds are rejected. These checks fail
// before any statement text is produced.
package query
