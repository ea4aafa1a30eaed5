package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pgtoolkit/pgtoolkit"
	"github.com/pgtoolkit/pgtoolkit/core"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	cfg := core.LoadConfig()

	port := flag.Int("port", 7687, "TCP port to listen on")
	driver := flag.String("driver", cfg.Driver, "Database driver (pgx or duckdb)")
	host := flag.String("host", cfg.Host, "Database host")
	dbPort := flag.String("dbPort", cfg.Port, "Database port")
	user := flag.String("user", cfg.User, "Database user")
	password := flag.String("password", cfg.Password, "Database password")
	database := flag.String("database", cfg.Database, "Database name (or file path for duckdb)")
	jwtSecret := flag.String("jwtSecret", os.Getenv("JWT_SECRET"), "Shared secret for JWT auth (auth disabled if empty)")
	jwtIssuer := flag.String("jwtIssuer", "", "Expected JWT issuer claim")
	jwtAudience := flag.String("jwtAudience", "", "Expected JWT audience claim")
	tlsCert := flag.String("tlsCert", "", "TLS certificate file (TLS disabled if empty)")
	tlsKey := flag.String("tlsKey", "", "TLS key file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("pgtoolkit server v%s\n", Version)
		return
	}

	cfg = core.Config{
		Driver:   *driver,
		Host:     *host,
		Port:     *dbPort,
		User:     *user,
		Password: *password,
		Database: *database,
	}

	toolkit, err := pgtoolkit.Open(cfg)
	if err != nil {
		slog.Error("failed to connect", "error", err)
		os.Exit(1)
	}
	slog.Info("connected", "driver", cfg.Driver, "database", cfg.Database)

	var server *Server
	if *jwtSecret != "" {
		server = NewServerWithAuth(toolkit, &AuthConfig{
			Enabled:   true,
			JWTSecret: *jwtSecret,
			Issuer:    *jwtIssuer,
			Audience:  *jwtAudience,
		})
		slog.Info("JWT authentication enabled")
	} else {
		server = NewServer(toolkit)
	}

	addr := fmt.Sprintf(":%d", *port)
	if *tlsCert != "" {
		err = server.StartTLS(addr, *tlsCert, *tlsKey)
	} else {
		err = server.Start(addr)
	}
	if err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   pgtoolkit server v%-14s    ║\n", Version)
	fmt.Println("║   PostgreSQL & DuckDB query server    ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", *port)
	fmt.Println("Send SQL queries (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down")
	server.Stop()
	slog.Info("server stopped")
}
