package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vidyadesk/school-backend-go/internal/domain/structure"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
)

type structureRepositoryImpl struct {
	db *database.DB
}

func NewStructureRepository(db *database.DB) structure.Repository {
	return &structureRepositoryImpl{db: db}
}

const structureColumns = `id, school_id, name, basic, hra, da, ta, medical, special,
	gross, ctc, created_at, updated_at`

func scanStructure(row pgx.Row) (structure.SalaryStructure, error) {
	var s structure.SalaryStructure
	err := row.Scan(
		&s.ID, &s.SchoolID, &s.Name, &s.Basic, &s.HRA, &s.DA, &s.TA, &s.Medical, &s.Special,
		&s.Gross, &s.CTC, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *structureRepositoryImpl) GetByID(ctx context.Context, id, schoolID string) (structure.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + structureColumns + ` FROM salary_structures WHERE id = $1 AND school_id = $2`

	s, err := scanStructure(q.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return structure.SalaryStructure{}, structure.ErrStructureNotFound
		}
		return structure.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	return s, nil
}

func (r *structureRepositoryImpl) GetByIDs(ctx context.Context, ids []string, schoolID string) (map[string]structure.SalaryStructure, error) {
	result := make(map[string]structure.SalaryStructure, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + structureColumns + ` FROM salary_structures WHERE id = ANY($1) AND school_id = $2`

	rows, err := q.Query(ctx, query, ids, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get salary structures: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		result[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read salary structures: %w", err)
	}

	return result, nil
}

func (r *structureRepositoryImpl) ListBySchool(ctx context.Context, schoolID string) ([]structure.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + structureColumns + ` FROM salary_structures WHERE school_id = $1 ORDER BY name`

	rows, err := q.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary structures: %w", err)
	}
	defer rows.Close()

	structures := make([]structure.SalaryStructure, 0)
	for rows.Next() {
		s, err := scanStructure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary structure: %w", err)
		}
		structures = append(structures, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read salary structures: %w", err)
	}

	return structures, nil
}
