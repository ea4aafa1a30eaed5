package op

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pgtoolkit/pgtoolkit/core"
	"github.com/pgtoolkit/pgtoolkit/db"
	"github.com/pgtoolkit/pgtoolkit/query"
)

type TableOp struct {
	Name    string
	Toolkit *db.Toolkit
}

func CreateTable(name string, schema core.Schema, toolkit *db.Toolkit) (db.CommitResult, *TableOp, error) {
	result, err := toolkit.CreateTable(name, schema)
	if err != nil {
		return db.CommitResult{}, nil, err
	}

	return result, &TableOp{
		Name:    name,
		Toolkit: toolkit,
	}, nil
}

func GetTable(name string, toolkit *db.Toolkit) (*TableOp, error) {
	tables, err := toolkit.Tables()
	if err != nil {
		return nil, err
	}

	for _, t := range tables {
		if t == name {
			return &TableOp{
				Name:    name,
				Toolkit: toolkit,
			}, nil
		}
	}

	return nil, fmt.Errorf("table %s not found", name)
}

func (op *TableOp) Drop() (db.CommitResult, error) {
	return op.Toolkit.DropTable(op.Name)
}

func (op *TableOp) Truncate() (db.CommitResult, error) {
	return op.Toolkit.TruncateTable(op.Name)
}

func (op *TableOp) Alter(alt db.Alterations) (db.CommitResult, error) {
	return op.Toolkit.AlterTable(op.Name, alt)
}

// Info returns the table's column metadata from information_schema.
func (op *TableOp) Info() (db.QueryResult, error) {
	return op.Toolkit.TableInfo(op.Name)
}

func (op *TableOp) Insert(record query.Row) (db.CommitResult, error) {
	return op.Toolkit.InsertRecord(op.Name, record)
}

func (op *TableOp) Fetch(conditions query.Filters) (db.QueryResult, error) {
	return op.Toolkit.FetchRecords(op.Name, conditions)
}

// FetchAll returns every record in the table.
func (op *TableOp) FetchAll() (db.QueryResult, error) {
	return op.Toolkit.FetchRecords(op.Name, nil)
}

func (op *TableOp) Update(record query.Row, conditions query.Filters) (db.CommitResult, error) {
	return op.Toolkit.UpdateRecord(op.Name, record, conditions)
}

func (op *TableOp) Delete(conditions query.Filters) (db.CommitResult, error) {
	return op.Toolkit.DeleteRecord(op.Name, conditions)
}

func (op *TableOp) Count() (int64, error) {
	quoted := op.Toolkit.Dialect().QuoteIdentifier(op.Name)
	result, err := op.Toolkit.ExecuteQuery(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted))
	if err != nil {
		return 0, err
	}
	if len(result.Data) == 0 || len(result.Data[0]) == 0 {
		return 0, fmt.Errorf("count query for %s returned no rows", op.Name)
	}
	return strconv.ParseInt(result.Data[0][0], 10, 64)
}

// Export writes the table's contents as CSV to a local path, file:// URL
// or s3:// URL.
func (op *TableOp) Export(ctx context.Context, path string, s3cfg *db.S3Config) error {
	return op.Toolkit.ExportTable(ctx, op.Name, path, s3cfg)
}

// Import reads CSV from a local, file://, http(s):// or s3:// path and
// inserts one record per data row.
func (op *TableOp) Import(ctx context.Context, path string, s3cfg *db.S3Config) (db.CommitResult, error) {
	return op.Toolkit.ImportCSV(ctx, op.Name, path, s3cfg)
}
