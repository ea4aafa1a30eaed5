package db

import (
	"fmt"
	"time"

	"github.com/pgtoolkit/pgtoolkit/query"
)

// InsertRecord inserts one record. The row's written order determines both
// the column list and the bound argument order.
func (t *Toolkit) InsertRecord(table string, record query.Row) (CommitResult, error) {
	start := time.Now()

	stmt, err := query.BuildFor(t.dialect, table, record, nil, query.Insert)
	if err != nil {
		return CommitResult{}, err
	}

	res, err := t.exec.Exec(stmt.SQL, stmt.Args...)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to insert record into %s: %w", table, err)
	}

	affected, _ := res.RowsAffected()
	return CommitResult{
		RecordsWritten:   1,
		RowsAffected:     affected,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// FetchRecords returns records matching the optional AND-joined equality
// conditions. Nil or empty conditions yield the whole table.
func (t *Toolkit) FetchRecords(table string, conditions query.Filters) (QueryResult, error) {
	stmt, err := query.BuildFor(t.dialect, table, nil, conditions, query.Select)
	if err != nil {
		return QueryResult{}, err
	}
	return t.ExecuteQuery(stmt.SQL, stmt.Args...)
}

// UpdateRecord updates records matching the conditions. Record values bind
// before condition values, matching the statement's placeholder order.
func (t *Toolkit) UpdateRecord(table string, record query.Row, conditions query.Filters) (CommitResult, error) {
	start := time.Now()

	stmt, err := query.BuildFor(t.dialect, table, record, conditions, query.Update)
	if err != nil {
		return CommitResult{}, err
	}

	res, err := t.exec.Exec(stmt.SQL, stmt.Args...)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to update record in %s: %w", table, err)
	}

	affected, _ := res.RowsAffected()
	return CommitResult{
		RecordsWritten:   int(affected),
		RowsAffected:     affected,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// DeleteRecord deletes records matching the conditions. At least one
// condition is required; an unconditioned delete is rejected by the builder.
func (t *Toolkit) DeleteRecord(table string, conditions query.Filters) (CommitResult, error) {
	start := time.Now()

	stmt, err := query.BuildFor(t.dialect, table, nil, conditions, query.Delete)
	if err != nil {
		return CommitResult{}, err
	}

	res, err := t.exec.Exec(stmt.SQL, stmt.Args...)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to delete record from %s: %w", table, err)
	}

	affected, _ := res.RowsAffected()
	return CommitResult{
		RecordsDeleted:   int(affected),
		RowsAffected:     affected,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// ExecuteQuery runs a caller-written statement with bound parameters and
// collects the rows into a tabular result.
func (t *Toolkit) ExecuteQuery(stmt string, args ...any) (QueryResult, error) {
	start := time.Now()

	rows, err := t.exec.Query(stmt, args...)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	columns, data, err := collectRows(rows)
	if err != nil {
		return QueryResult{}, err
	}

	return QueryResult{
		Columns:          columns,
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// ExecuteCommand runs a caller-written statement that returns no rows, such
// as DDL or a bulk write.
func (t *Toolkit) ExecuteCommand(stmt string, args ...any) (CommitResult, error) {
	start := time.Now()

	res, err := t.exec.Exec(stmt, args...)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to execute statement: %w", err)
	}

	affected, _ := res.RowsAffected()
	return CommitResult{
		RowsAffected:     affected,
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}

// collectRows drains a row set into column names and stringified cells.
func collectRows(rows Rows) ([]string, [][]string, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var data [][]string
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatCell(v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed while reading rows: %w", err)
	}

	return columns, data, nil
}

// formatCell renders a scanned driver value as display text. NULL becomes
// the empty string.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
