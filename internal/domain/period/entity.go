package period

import "time"

// Status is the payroll period lifecycle state.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusApproved Status = "APPROVED"
	StatusPaid     Status = "PAID"
)

// ValidTransition reports whether a status change follows
// DRAFT -> APPROVED -> PAID.
func ValidTransition(from, to Status) bool {
	switch from {
	case StatusDraft:
		return to == StatusApproved
	case StatusApproved:
		return to == StatusPaid
	default:
		return false
	}
}

// PayrollPeriod is the aggregate root for one school's payroll month.
// One period exists per (school, month, year); items hang off it.
type PayrollPeriod struct {
	ID               string
	SchoolID         string
	Month            int
	Year             int
	StartDate        time.Time
	EndDate          time.Time
	TotalWorkingDays int
	Weekends         int
	Holidays         int
	Status           Status
	IsLocked         bool
	LockReason       *string
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AuditEntry is one append-only row recording a lock or unlock.
type AuditEntry struct {
	ID        string
	PeriodID  string
	SchoolID  string
	Action    string // "lock" or "unlock"
	Reason    string
	ActorID   string
	CreatedAt time.Time
}
