package main

import (
	"bufio"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/pgtoolkit/pgtoolkit/core"
	"github.com/pgtoolkit/pgtoolkit/db"
)

const (
	PromptColor  = "\033[36m" // Cyan
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
	BoldColor    = "\033[1m"
)

// Version is set at build time via -ldflags
var Version = "dev"

// CLI holds the CLI state
type CLI struct {
	conn        *sql.DB
	toolkit     *db.Toolkit
	history     []string
	historyFile string
}

func main() {
	cfg := core.LoadConfig()

	driver := flag.String("driver", cfg.Driver, "Database driver (pgx or duckdb)")
	host := flag.String("host", cfg.Host, "Database host")
	port := flag.String("port", cfg.Port, "Database port")
	user := flag.String("user", cfg.User, "Database user")
	password := flag.String("password", cfg.Password, "Database password")
	database := flag.String("database", cfg.Database, "Database name (or file path for duckdb)")
	sqlFile := flag.String("sqlFile", "", "SQL file to execute (non-interactive)")
	flag.Parse()

	cfg = core.Config{
		Driver:   *driver,
		Host:     *host,
		Port:     *port,
		User:     *user,
		Password: *password,
		Database: *database,
	}

	printBanner()

	cli := &CLI{
		history:     make([]string, 0),
		historyFile: getHistoryPath(),
	}

	if err := cli.connect(cfg); err != nil {
		fmt.Printf("%sError: %v%s\n", ErrorColor, err, ResetColor)
		os.Exit(1)
	}
	defer cli.conn.Close()

	if cfg.Driver == core.DriverDuckDB {
		fmt.Printf("%sConnected to DuckDB: %s%s\n", SuccessColor, displayPath(cfg.Database), ResetColor)
	} else {
		fmt.Printf("%sConnected to %s@%s:%s/%s%s\n", SuccessColor, cfg.User, cfg.Host, cfg.Port, cfg.Database, ResetColor)
	}

	cli.loadHistory()

	// Execute SQL file if provided
	if *sqlFile != "" {
		if err := cli.importFile(*sqlFile); err != nil {
			fmt.Printf("%sError importing file: %v%s\n", ErrorColor, err, ResetColor)
			os.Exit(1)
		}
		return
	}

	cli.run()
}

// connect opens a database/sql connection for cfg and rebinds the toolkit.
// Any previous connection is closed first.
func (cli *CLI) connect(cfg core.Config) error {
	conn, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to %s: %w", cfg.Database, err)
	}

	if cli.conn != nil {
		cli.conn.Close()
	}
	cli.conn = conn
	cli.toolkit = db.New(cfg, db.WrapDB(conn))
	return nil
}

func printBanner() {
	fmt.Println()
	bannerWidth := 39 // inner width of the banner box
	versionLine := fmt.Sprintf("pgtoolkit v%s", Version)
	padding := bannerWidth - len(versionLine) - 2 // -2 for "  " margins
	if padding < 0 {
		padding = 0
	}
	leftPad := padding / 2
	rightPad := padding - leftPad

	fmt.Printf("%s%s╔═══════════════════════════════════════╗%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s║ %*s%s%*s ║%s\n", BoldColor, PromptColor, leftPad, "", versionLine, rightPad, "", ResetColor)
	fmt.Printf("%s%s║   PostgreSQL & DuckDB toolkit shell   ║%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Printf("%s%s╚═══════════════════════════════════════╝%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println()
	fmt.Println("Type .help for commands, .quit to exit")
	fmt.Println()
}

func (cli *CLI) run() {
	reader := bufio.NewReader(os.Stdin)
	var multiLineBuffer strings.Builder

	for {
		// Show prompt
		prompt := cli.getPrompt(multiLineBuffer.Len() > 0)
		fmt.Print(prompt)

		// Read input
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Printf("\n%sGoodbye!%s\n", SuccessColor, ResetColor)
			return
		}

		input = strings.TrimSuffix(input, "\n")
		input = strings.TrimSuffix(input, "\r")

		// Handle empty input
		if strings.TrimSpace(input) == "" {
			continue
		}

		// Check for special commands (only when not in multi-line mode)
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(input, ".") {
			if cli.handleCommand(input) {
				continue
			}
		}

		// Multi-line support: accumulate until we see a semicolon
		multiLineBuffer.WriteString(input)

		// Check if the statement is complete (ends with ;)
		trimmed := strings.TrimSpace(multiLineBuffer.String())
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString(" ")
			continue
		}

		// Execute the complete statement
		stmt := strings.TrimSuffix(trimmed, ";")
		multiLineBuffer.Reset()

		if strings.TrimSpace(stmt) == "" {
			continue
		}

		// Add to history
		cli.addToHistory(stmt + ";")

		result, err := cli.execute(stmt)
		if err != nil {
			fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		} else {
			result.Display()
		}
	}
}

// execute runs one SQL statement, choosing between the row-returning and the
// commit path based on the leading keyword.
func (cli *CLI) execute(stmt string) (db.Result, error) {
	if returnsRows(stmt) {
		return cli.toolkit.ExecuteQuery(stmt)
	}
	return cli.toolkit.ExecuteCommand(stmt)
}

// returnsRows reports whether the statement produces a row set.
func returnsRows(stmt string) bool {
	fields := strings.Fields(strings.ToUpper(stmt))
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "SELECT", "WITH", "SHOW", "EXPLAIN", "VALUES", "TABLE", "DESCRIBE":
		return true
	}
	return false
}

func (cli *CLI) getPrompt(multiLine bool) string {
	if multiLine {
		return fmt.Sprintf("%s   ...>%s ", PromptColor, ResetColor)
	}

	dbPart := ""
	if name := cli.toolkit.Config().Database; name != "" {
		dbPart = fmt.Sprintf(" (%s)", displayPath(name))
	}

	return fmt.Sprintf("%spgtoolkit%s>%s ", PromptColor, dbPart, ResetColor)
}

// displayPath shortens duckdb file paths to their base name for prompts.
func displayPath(name string) string {
	if name == "" {
		return "memory"
	}
	return filepath.Base(name)
}

func (cli *CLI) handleCommand(input string) bool {
	parts := strings.Fields(strings.TrimSpace(input))

	if len(parts) == 0 {
		return true
	}

	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit", ".q":
		fmt.Printf("%sGoodbye!%s\n", SuccessColor, ResetColor)
		cli.saveHistory()
		cli.conn.Close()
		os.Exit(0)

	case ".help", ".h", ".?":
		cli.printHelp()

	case ".tables":
		cli.showTables()

	case ".databases", ".dbs":
		cli.showDatabases()

	case ".schema":
		if len(parts) > 1 {
			cli.showSchema(parts[1])
		} else {
			fmt.Printf("%s✗ Usage: .schema <table>%s\n", ErrorColor, ResetColor)
		}

	case ".use":
		if len(parts) > 1 {
			cfg := cli.toolkit.Config().WithDatabase(parts[1])
			if err := cli.connect(cfg); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			} else {
				fmt.Printf("%s✓ Using database: %s%s\n", SuccessColor, parts[1], ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .use <database>%s\n", ErrorColor, ResetColor)
		}

	case ".export":
		if len(parts) > 2 {
			if err := cli.toolkit.ExportTable(context.Background(), parts[1], parts[2], nil); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			} else {
				fmt.Printf("%s✓ Exported %s to %s%s\n", SuccessColor, parts[1], parts[2], ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .export <table> <path>%s\n", ErrorColor, ResetColor)
		}

	case ".importcsv":
		if len(parts) > 2 {
			result, err := cli.toolkit.ImportCSV(context.Background(), parts[1], parts[2], nil)
			if err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			} else {
				fmt.Printf("%s✓ Imported %d record(s) into %s%s\n", SuccessColor, result.RecordsWritten, parts[1], ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .importcsv <table> <path>%s\n", ErrorColor, ResetColor)
		}

	case ".clear", ".cls":
		fmt.Print("\033[H\033[2J")

	case ".history":
		cli.printHistory()

	case ".version":
		fmt.Printf("pgtoolkit version %s\n", Version)

	case ".import":
		if len(parts) > 1 {
			if err := cli.importFile(parts[1]); err != nil {
				fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
			}
		} else {
			fmt.Printf("%s✗ Usage: .import <file.sql>%s\n", ErrorColor, ResetColor)
		}

	default:
		fmt.Printf("%s✗ Unknown command: %s (type .help for commands)%s\n", ErrorColor, parts[0], ResetColor)
	}

	return true
}

func (cli *CLI) printHelp() {
	fmt.Println()
	fmt.Printf("%s%sSpecial Commands:%s\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  .help, .h              Show this help message")
	fmt.Println("  .quit, .exit           Exit the shell")
	fmt.Println("  .databases             List all databases")
	fmt.Println("  .tables                List tables in the current database")
	fmt.Println("  .schema <table>        Show a table's columns")
	fmt.Println("  .use <db>              Reconnect to another database")
	fmt.Println("  .export <table> <path> Export a table as CSV (local or s3://)")
	fmt.Println("  .importcsv <table> <path>  Import CSV records into a table")
	fmt.Println("  .import <file>         Execute SQL statements from a file")
	fmt.Println("  .history               Show command history")
	fmt.Println("  .clear                 Clear the screen")
	fmt.Println("  .version               Show version info")
	fmt.Println()
	fmt.Printf("%s%sSQL:%s any statement ending in a semicolon is sent to the database.\n", BoldColor, PromptColor, ResetColor)
	fmt.Println("  SELECT, WITH, SHOW and EXPLAIN render a result table;")
	fmt.Println("  everything else reports rows affected.")
	fmt.Println()
}

func (cli *CLI) showDatabases() {
	result, err := cli.toolkit.Databases()
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	result.Display()
}

func (cli *CLI) showTables() {
	tables, err := cli.toolkit.Tables()
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	if len(tables) == 0 {
		fmt.Println("No tables")
		return
	}
	for _, table := range tables {
		fmt.Println("  " + table)
	}
}

func (cli *CLI) showSchema(table string) {
	result, err := cli.toolkit.TableInfo(table)
	if err != nil {
		fmt.Printf("%s✗ Error: %v%s\n", ErrorColor, err, ResetColor)
		return
	}
	result.Display()
}

func (cli *CLI) addToHistory(cmd string) {
	// Don't add duplicates of the last command
	if len(cli.history) > 0 && cli.history[len(cli.history)-1] == cmd {
		return
	}
	cli.history = append(cli.history, cmd)

	// Limit history size
	if len(cli.history) > 1000 {
		cli.history = cli.history[len(cli.history)-1000:]
	}
}

func (cli *CLI) printHistory() {
	if len(cli.history) == 0 {
		fmt.Println("No command history")
		return
	}

	start := 0
	if len(cli.history) > 20 {
		start = len(cli.history) - 20
	}

	for i := start; i < len(cli.history); i++ {
		fmt.Printf("  %3d  %s\n", i+1, cli.history[i])
	}
}

func getHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgtoolkit_history")
}

func (cli *CLI) loadHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Open(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		cli.history = append(cli.history, scanner.Text())
	}
}

func (cli *CLI) saveHistory() {
	if cli.historyFile == "" {
		return
	}

	file, err := os.Create(cli.historyFile)
	if err != nil {
		return
	}
	defer file.Close()

	// Save last 1000 entries
	start := 0
	if len(cli.history) > 1000 {
		start = len(cli.history) - 1000
	}

	for i := start; i < len(cli.history); i++ {
		_, _ = file.WriteString(cli.history[i] + "\n")
	}
}

// importFile reads and executes SQL statements from a file
func (cli *CLI) importFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	statements := splitStatements(string(data))

	successCount := 0
	errorCount := 0

	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" || strings.HasPrefix(stmt, "--") {
			continue
		}

		result, err := cli.execute(stmt)
		if err != nil {
			fmt.Printf("%s[%d] ✗ %s%s\n", ErrorColor, i+1, truncate(stmt, 50), ResetColor)
			fmt.Printf("      Error: %v\n", err)
			errorCount++
			continue
		}

		successCount++
		// Compact output based on result type
		switch r := result.(type) {
		case db.QueryResult:
			fmt.Printf("%s[%d] ✓ %s (%d rows)%s\n", SuccessColor, i+1, truncate(stmt, 50), r.RecordsRead, ResetColor)
		case db.CommitResult:
			fmt.Printf("%s[%d] ✓ %s (%d affected)%s\n", SuccessColor, i+1, truncate(stmt, 50), r.RowsAffected, ResetColor)
		default:
			fmt.Printf("%s[%d] ✓ %s%s\n", SuccessColor, i+1, truncate(stmt, 50), ResetColor)
		}
	}

	fmt.Printf("\n%s✓ Import complete: %d succeeded, %d failed%s\n",
		SuccessColor, successCount, errorCount, ResetColor)

	return nil
}

// splitStatements splits SQL content into individual statements. Semicolons
// and comment markers inside quoted literals do not split; SQL escapes a
// quote inside a literal by doubling it ('It''s').
func splitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false
	stringChar := byte(0)

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			current.WriteByte(ch)
			if ch == stringChar {
				if i+1 < len(content) && content[i+1] == stringChar {
					// Doubled quote: an escaped quote, still inside
					i++
					current.WriteByte(content[i])
				} else {
					inString = false
				}
			}
			continue
		}

		// String literal opens
		if ch == '\'' || ch == '"' {
			inString = true
			stringChar = ch
			current.WriteByte(ch)
			continue
		}

		// Handle comments
		if ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			// Skip to end of line
			for i < len(content) && content[i] != '\n' {
				i++
			}
			continue
		}

		// Statement separator
		if ch == ';' {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" {
				statements = append(statements, stmt)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	// Handle last statement without semicolon
	stmt := strings.TrimSpace(current.String())
	if stmt != "" {
		statements = append(statements, stmt)
	}

	return statements
}

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
