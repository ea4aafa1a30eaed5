package core

import (
	"fmt"
	"os"
)

// Default driver names registered by the supported database/sql drivers.
const (
	DriverPostgres = "pgx"
	DriverDuckDB   = "duckdb"
)

// Config describes how to reach a database server.
type Config struct {
	// Driver is the database/sql driver name ("pgx" or "duckdb").
	Driver string

	// Host and Port locate the server. Ignored by duckdb.
	Host string
	Port string

	// User and Password authenticate the connection. Ignored by duckdb.
	User     string
	Password string

	// Database is the database to connect to. For duckdb this is the
	// database file path, or empty for an in-memory database.
	Database string
}

// LoadConfig reads connection settings from DB_* environment variables,
// applying localhost Postgres defaults for anything unset.
func LoadConfig() Config {
	return Config{
		Driver:   envOr("DB_DRIVER", DriverPostgres),
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOr("DB_PORT", "5432"),
		User:     envOr("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: envOr("DB_DATABASE", "postgres"),
	}
}

// DSN renders the connection string expected by the configured driver.
func (c Config) DSN() string {
	if c.Driver == DriverDuckDB {
		return c.Database
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s",
		c.Host, c.Port, c.User, c.Database)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// WithDatabase returns a copy of the config pointing at another database on
// the same server.
func (c Config) WithDatabase(name string) Config {
	c.Database = name
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
