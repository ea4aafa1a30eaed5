package db

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type ResultType int

const (
	QueryResultType ResultType = iota
	CommitResultType
)

// Result is either a QueryResult or a CommitResult.
type Result interface {
	Type() ResultType
	Display()
}

// QueryResult holds tabular rows returned by a query.
type QueryResult struct {
	Columns          []string
	Data             [][]string
	RecordsRead      int
	ExecutionTimeSec float64
}

// CommitResult summarizes a mutating operation.
type CommitResult struct {
	DatabasesCreated int
	DatabasesDeleted int
	TablesCreated    int
	TablesDeleted    int
	TablesAltered    int
	RecordsWritten   int
	RecordsDeleted   int
	RowsAffected     int64
	ExecutionTimeSec float64
}

func (result QueryResult) Type() ResultType {
	return QueryResultType
}

func (result CommitResult) Type() ResultType {
	return CommitResultType
}

// Display renders the result as a text table on stdout.
func (result QueryResult) Display() {
	result.Write(os.Stdout)
}

// Write renders the result as a text table.
func (result QueryResult) Write(w io.Writer) {
	renderTable(w, result.Columns, result.Data)
	fmt.Fprintf(w, "%d row(s) in %s\n", result.RecordsRead, formatDuration(result.ExecutionTimeSec))
}

// Display prints a one-line summary of the mutation.
func (result CommitResult) Display() {
	result.Write(os.Stdout)
}

// Write prints a one-line summary of the mutation.
func (result CommitResult) Write(w io.Writer) {
	parts := []string{}
	add := func(n int, what string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, what))
		}
	}
	add(result.DatabasesCreated, "database(s) created")
	add(result.DatabasesDeleted, "database(s) dropped")
	add(result.TablesCreated, "table(s) created")
	add(result.TablesDeleted, "table(s) dropped")
	add(result.TablesAltered, "table(s) altered")
	add(result.RecordsWritten, "record(s) written")
	add(result.RecordsDeleted, "record(s) deleted")
	if len(parts) == 0 {
		parts = append(parts, "ok")
	}

	fmt.Fprintf(w, "%s in %s\n", strings.Join(parts, ", "), formatDuration(result.ExecutionTimeSec))
}

// renderTable writes headers and rows with padded, pipe-separated columns.
func renderTable(w io.Writer, headers []string, rows [][]string) {
	numCols := len(headers)
	for _, row := range rows {
		if len(row) > numCols {
			numCols = len(row)
		}
	}
	if numCols == 0 {
		return
	}

	widths := make([]int, numCols)
	measure := func(row []string) {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	var sep strings.Builder
	sep.WriteString("+")
	for _, width := range widths {
		sep.WriteString(strings.Repeat("-", width+2))
		sep.WriteString("+")
	}

	formatRow := func(row []string) string {
		cells := make([]string, numCols)
		for i := range cells {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = fmt.Sprintf(" %-*s ", widths[i], cell)
		}
		return "|" + strings.Join(cells, "|") + "|"
	}

	fmt.Fprintln(w, sep.String())
	if len(headers) > 0 {
		fmt.Fprintln(w, formatRow(headers))
		fmt.Fprintln(w, sep.String())
	}
	for _, row := range rows {
		fmt.Fprintln(w, formatRow(row))
	}
	fmt.Fprintln(w, sep.String())
}

// formatDuration formats a duration in human-readable form.
func formatDuration(secs float64) string {
	switch {
	case secs < 0.001:
		return "<1ms"
	case secs < 1:
		return fmt.Sprintf("%dms", int(secs*1000))
	default:
		return fmt.Sprintf("%.2fs", secs)
	}
}
