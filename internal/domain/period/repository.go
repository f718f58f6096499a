package period

import "context"

// Repository defines data access for payroll periods.
// All methods take schoolID to prevent cross-school data access.
type Repository interface {
	Create(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)
	GetByID(ctx context.Context, id, schoolID string) (PayrollPeriod, error)
	GetByMonthYear(ctx context.Context, schoolID string, month, year int) (PayrollPeriod, error)
	List(ctx context.Context, schoolID string, year *int) ([]PayrollPeriod, error)
	Update(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)
	Delete(ctx context.Context, id, schoolID string) error

	SetLock(ctx context.Context, id, schoolID string, locked bool, reason string) error
	AppendAudit(ctx context.Context, entry AuditEntry) error

	GetSummary(ctx context.Context, periodID, schoolID string) (Summary, error)
	GetValidationSummary(ctx context.Context, periodID, schoolID string) (ValidationSummary, error)
}
