package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindLoan    Kind = "LOAN"
	KindAdvance Kind = "ADVANCE"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Loan is an employee loan or salary advance recovered through payroll.
type Loan struct {
	ID                string
	ProfileID         string
	SchoolID          string
	Kind              Kind
	Principal         decimal.Decimal
	InstallmentAmount decimal.Decimal
	TotalDeducted     decimal.Decimal
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Remaining is the principal not yet recovered.
func (l Loan) Remaining() decimal.Decimal {
	rem := l.Principal.Sub(l.TotalDeducted)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// CycleDeduction is this cycle's installment, capped at the remaining
// principal so recovery never exceeds what was lent.
func (l Loan) CycleDeduction() decimal.Decimal {
	if l.Status != StatusActive {
		return decimal.Zero
	}
	rem := l.Remaining()
	if l.InstallmentAmount.GreaterThan(rem) {
		return rem
	}
	return l.InstallmentAmount
}
