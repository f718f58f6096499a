package period

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vidyadesk/school-backend-go/internal/pkg/validator"
)

type CreatePeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *CreatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2020 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be 2020 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdatePeriodRequest carries the only fields an admin may patch on a period.
type UpdatePeriodRequest struct {
	ID               string
	TotalWorkingDays *int    `json:"total_working_days,omitempty"`
	Holidays         *int    `json:"holidays,omitempty"`
	Weekends         *int    `json:"weekends,omitempty"`
	Status           *string `json:"status,omitempty"`
	PaidAt           *string `json:"paid_at,omitempty"` // RFC3339
}

func (r *UpdatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.TotalWorkingDays != nil && (*r.TotalWorkingDays < 0 || *r.TotalWorkingDays > 31) {
		errs = append(errs, validator.ValidationError{Field: "total_working_days", Message: "must be between 0 and 31"})
	}
	if r.Holidays != nil && (*r.Holidays < 0 || *r.Holidays > 31) {
		errs = append(errs, validator.ValidationError{Field: "holidays", Message: "must be between 0 and 31"})
	}
	if r.Weekends != nil && (*r.Weekends < 0 || *r.Weekends > 31) {
		errs = append(errs, validator.ValidationError{Field: "weekends", Message: "must be between 0 and 31"})
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, []string{string(StatusDraft), string(StatusApproved), string(StatusPaid)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be DRAFT, APPROVED or PAID"})
	}
	if r.PaidAt != nil {
		if _, err := time.Parse(time.RFC3339, *r.PaidAt); err != nil {
			errs = append(errs, validator.ValidationError{Field: "paid_at", Message: "must be an RFC3339 timestamp"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LockRequest struct {
	Reason string `json:"reason"`
}

func (r *LockRequest) Validate() error {
	if validator.IsEmpty(r.Reason) {
		return validator.ValidationErrors{{Field: "reason", Message: "is required"}}
	}
	return nil
}

type PeriodResponse struct {
	ID               string  `json:"id"`
	SchoolID         string  `json:"school_id"`
	Month            int     `json:"month"`
	Year             int     `json:"year"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	TotalWorkingDays int     `json:"total_working_days"`
	Weekends         int     `json:"weekends"`
	Holidays         int     `json:"holidays"`
	Status           string  `json:"status"`
	IsLocked         bool    `json:"is_locked"`
	LockReason       *string `json:"lock_reason,omitempty"`
	PaidAt           *string `json:"paid_at,omitempty"`
}

// Summary aggregates the committed items of one period.
type Summary struct {
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	PendingCount    int             `json:"pending_count"`
	ProcessedCount  int             `json:"processed_count"`
}

// ValidationSummary counts items per readiness classification.
type ValidationSummary struct {
	Ready              int `json:"ready"`
	OnHoldBank         int `json:"on_hold_bank"`
	OnHoldApproval     int `json:"on_hold_approval"`
	SkippedNoStructure int `json:"skipped_no_structure"`
}

type PeriodDetailResponse struct {
	PeriodResponse
	Summary           Summary           `json:"summary"`
	ValidationSummary ValidationSummary `json:"validation_summary"`
}
