// Package core provides the domain types shared across pgtoolkit:
// connection configuration, table schema definitions, and the identity
// attached to server connections.
//
// # Configuration
//
// Config is usually loaded from the environment:
//
//	cfg := core.LoadConfig()          // DB_HOST, DB_PORT, DB_USER, ...
//	dsn := cfg.DSN()                  // driver-appropriate connection string
//	next := cfg.WithDatabase("other") // same server, different database
//
// # Schemas
//
// Schema is an ordered list of column definitions for CREATE TABLE:
//
//	schema := core.Schema{
//	    {Name: "id", Type: "SERIAL PRIMARY KEY"},
//	    {Name: "user_id", Type: "INTEGER", References: "users(id)"},
//	}
package core
