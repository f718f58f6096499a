package loan

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrLoanNotFound = errors.New("loan not found")

type Repository interface {
	GetActiveByProfileIDs(ctx context.Context, profileIDs []string, schoolID string) (map[string][]Loan, error)

	// RecordDeduction adds amount to the loan's recovered total and closes
	// the loan once the principal is fully recovered.
	RecordDeduction(ctx context.Context, id, schoolID string, amount decimal.Decimal) error
}
