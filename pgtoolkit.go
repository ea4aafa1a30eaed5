package pgtoolkit

import (
	"database/sql"
	"fmt"

	"github.com/pgtoolkit/pgtoolkit/core"
	"github.com/pgtoolkit/pgtoolkit/db"
)

// Open connects to the database described by cfg and returns a Toolkit bound
// to the connection. The driver named by cfg.Driver must be registered with
// database/sql; cmd/cli and cmd/server blank-import pgx and duckdb.
func Open(cfg core.Config) (*db.Toolkit, error) {
	conn, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Database, err)
	}

	return db.New(cfg, db.WrapDB(conn)), nil
}
