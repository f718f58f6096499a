package structure

import (
	"context"
	"errors"
)

var ErrStructureNotFound = errors.New("salary structure not found")

type Repository interface {
	GetByID(ctx context.Context, id, schoolID string) (SalaryStructure, error)
	GetByIDs(ctx context.Context, ids []string, schoolID string) (map[string]SalaryStructure, error)
	ListBySchool(ctx context.Context, schoolID string) ([]SalaryStructure, error)
}
