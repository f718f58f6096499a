package profile

import "context"

// Repository defines data access for employee payroll profiles.
type Repository interface {
	GetByID(ctx context.Context, id, schoolID string) (EmployeeProfile, error)
	GetByUserID(ctx context.Context, userID, schoolID string) (EmployeeProfile, error)
	ListBySchool(ctx context.Context, schoolID string) ([]EmployeeProfile, error)

	// Update persists canonical fields and change state together. Callers
	// that approve a pending change run this inside a transaction.
	Update(ctx context.Context, p EmployeeProfile) (EmployeeProfile, error)
}
