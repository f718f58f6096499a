package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Readiness classifies whether an employee's payroll can be computed.
type Readiness string

const (
	Ready              Readiness = "READY"
	OnHoldBank         Readiness = "ON_HOLD_BANK"
	OnHoldApproval     Readiness = "ON_HOLD_APPROVAL"
	SkippedNoStructure Readiness = "SKIPPED_NO_STRUCTURE"
)

// PaymentStatus enum
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentProcessed PaymentStatus = "PROCESSED"
)

// Earnings holds the prorated earning components for one period.
type Earnings struct {
	Basic      decimal.Decimal
	HRA        decimal.Decimal
	DA         decimal.Decimal
	TA         decimal.Decimal
	Medical    decimal.Decimal
	Special    decimal.Decimal
	Incentives decimal.Decimal
	Arrears    decimal.Decimal
	Overtime   decimal.Decimal
}

// Deductions holds every deduction applied to one item.
type Deductions struct {
	PFEmployee       decimal.Decimal
	PFEmployer       decimal.Decimal
	EPS              decimal.Decimal
	EPF              decimal.Decimal
	ESIEmployee      decimal.Decimal
	ESIEmployer      decimal.Decimal
	ProfessionalTax  decimal.Decimal
	TDS              decimal.Decimal
	LoanDeduction    decimal.Decimal
	AdvanceDeduction decimal.Decimal
}

// LoanApplication records how much of one loan this item recovers. The loan
// ledger itself is only advanced when the item is marked PROCESSED, so
// recomputing a draft period never touches loan balances.
type LoanApplication struct {
	LoanID string          `json:"loan_id"`
	Amount decimal.Decimal `json:"amount"`
}

// PayrollItem is one computed payroll line: one employee in one period.
// Items are immutable once their period is locked.
type PayrollItem struct {
	ID               string
	PeriodID         string
	ProfileID        string
	SchoolID         string
	Readiness        Readiness
	DaysWorked       decimal.Decimal
	DaysAbsent       decimal.Decimal
	Earnings         Earnings
	Deductions       Deductions
	PFWages          decimal.Decimal
	GrossEarnings    decimal.Decimal
	LossOfPay        decimal.Decimal
	TotalDeductions  decimal.Decimal
	NetSalary        decimal.Decimal
	ESIReason        *string // set when gross exceeds the ESI threshold
	LoanApplications []LoanApplication
	PaymentStatus    PaymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
	EmployeeCode *string
	UAN          *string
	ESINumber    *string
}

// AttendanceSummary aggregates attendance rows over a period's date range.
// DaysPresent includes sanctioned leave; unsanctioned absence prorates pay.
type AttendanceSummary struct {
	ProfileID       string
	DaysPresent     decimal.Decimal
	SanctionedLeave decimal.Decimal
}

// Settings is the per-school payroll configuration.
type Settings struct {
	ID                string
	SchoolID          string
	AutoCreatePeriods bool
	PayCycleDay       int // calendar day that triggers automatic period creation
	PFRateOverride    *decimal.Decimal
	ProfessionalTax   decimal.Decimal // flat monthly amount
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
