package db

import (
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/pgtoolkit/pgtoolkit/query"
)

// ExportQuery runs a statement and writes its tabular result as CSV to a
// local path, file:// URL, or s3:// URL. The first CSV record holds the
// column names. The context bounds the remote upload.
func (t *Toolkit) ExportQuery(ctx context.Context, path string, s3cfg *S3Config, stmt string, args ...any) error {
	result, err := t.ExecuteQuery(stmt, args...)
	if err != nil {
		return err
	}

	w, err := openRemoteWriter(ctx, path, s3cfg)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		w.Close()
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range result.Data {
		if err := cw.Write(row); err != nil {
			w.Close()
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		w.Close()
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return w.Close()
}

// ExportTable writes an entire table as CSV to a local, file:// or s3://
// path.
func (t *Toolkit) ExportTable(ctx context.Context, table, path string, s3cfg *S3Config) error {
	stmt, err := query.BuildFor(t.dialect, table, nil, nil, query.Select)
	if err != nil {
		return err
	}
	return t.ExportQuery(ctx, path, s3cfg, stmt.SQL)
}

// ImportCSV reads CSV from a local, file://, http(s):// or s3:// path and
// inserts one record per data row. The first CSV record names the target
// columns. The context bounds the remote fetch.
func (t *Toolkit) ImportCSV(ctx context.Context, table, path string, s3cfg *S3Config) (CommitResult, error) {
	start := time.Now()

	r, err := openRemoteReader(ctx, path, s3cfg)
	if err != nil {
		return CommitResult{}, err
	}
	defer r.Close()

	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to read CSV from %s: %w", path, err)
	}
	if len(records) == 0 {
		return CommitResult{}, fmt.Errorf("CSV at %s has no header row", path)
	}

	columns := records[0]
	written := 0
	for _, record := range records[1:] {
		if len(record) != len(columns) {
			return CommitResult{}, fmt.Errorf("CSV row has %d fields, header has %d", len(record), len(columns))
		}

		row := make(query.Row, len(columns))
		for i, col := range columns {
			row[i] = query.Field{Column: col, Value: record[i]}
		}

		if _, err := t.InsertRecord(table, row); err != nil {
			return CommitResult{}, err
		}
		written++
	}

	return CommitResult{
		RecordsWritten:   written,
		RowsAffected:     int64(written),
		ExecutionTimeSec: time.Since(start).Seconds(),
	}, nil
}
