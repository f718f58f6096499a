package postgresql

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vidyadesk/school-backend-go/internal/domain/loan"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.Repository {
	return &loanRepositoryImpl{db: db}
}

func (r *loanRepositoryImpl) GetActiveByProfileIDs(ctx context.Context, profileIDs []string, schoolID string) (map[string][]loan.Loan, error) {
	result := make(map[string][]loan.Loan)
	if len(profileIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, profile_id, school_id, kind, principal, installment_amount,
			   total_deducted, status, created_at, updated_at
		FROM employee_loans
		WHERE profile_id = ANY($1) AND school_id = $2 AND status = 'ACTIVE'
		ORDER BY created_at`

	rows, err := q.Query(ctx, query, profileIDs, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active loans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID, &l.ProfileID, &l.SchoolID, &l.Kind, &l.Principal, &l.InstallmentAmount,
			&l.TotalDeducted, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		result[l.ProfileID] = append(result[l.ProfileID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read loans: %w", err)
	}

	return result, nil
}

// RecordDeduction advances the recovered total and closes the loan once the
// principal is fully recovered.
func (r *loanRepositoryImpl) RecordDeduction(ctx context.Context, id, schoolID string, amount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_loans
		SET total_deducted = total_deducted + $3,
			status = CASE WHEN total_deducted + $3 >= principal THEN 'CLOSED' ELSE status END,
			updated_at = NOW()
		WHERE id = $1 AND school_id = $2`

	commandTag, err := q.Exec(ctx, query, id, schoolID, amount)
	if err != nil {
		return fmt.Errorf("failed to record loan deduction: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return loan.ErrLoanNotFound
	}

	return nil
}
