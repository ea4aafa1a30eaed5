package op

import (
	"fmt"
	"slices"

	"github.com/pgtoolkit/pgtoolkit/db"
)

type DatabaseOp struct {
	Name    string
	Toolkit *db.Toolkit
}

func CreateDatabase(name string, toolkit *db.Toolkit) (db.CommitResult, *DatabaseOp, error) {
	result, err := toolkit.CreateDatabase(name)
	if err != nil {
		return db.CommitResult{}, nil, err
	}

	return result, &DatabaseOp{
		Name:    name,
		Toolkit: toolkit,
	}, nil
}

func GetDatabase(name string, toolkit *db.Toolkit) (*DatabaseOp, error) {
	result, err := toolkit.Databases()
	if err != nil {
		return nil, err
	}

	for _, row := range result.Data {
		if len(row) > 0 && row[0] == name {
			return &DatabaseOp{
				Name:    name,
				Toolkit: toolkit,
			}, nil
		}
	}

	return nil, fmt.Errorf("database %s not found", name)
}

func (op *DatabaseOp) Drop() (db.CommitResult, error) {
	return op.Toolkit.DropDatabase(op.Name)
}

func (op *DatabaseOp) TableNames() ([]string, error) {
	return op.Toolkit.Tables()
}

func (op *DatabaseOp) HasTable(name string) (bool, error) {
	tables, err := op.Toolkit.Tables()
	if err != nil {
		return false, err
	}
	return slices.Contains(tables, name), nil
}
