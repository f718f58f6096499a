package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/vidyadesk/school-backend-go/internal/pkg/validator"
)

// ========== COMPUTE DTOs ==========

type ComputePeriodRequest struct {
	PeriodID   string   `json:"-"`
	ProfileIDs []string `json:"profile_ids,omitempty"` // empty = every employee of the school
}

// ComputedItem is one successful line in a batch result.
type ComputedItem struct {
	ProfileID    string          `json:"profile_id"`
	EmployeeName string          `json:"employee_name"`
	Gross        decimal.Decimal `json:"gross_earnings"`
	Net          decimal.Decimal `json:"net_salary"`
}

// SkippedItem records an employee held back from computation.
type SkippedItem struct {
	ProfileID    string `json:"profile_id"`
	EmployeeName string `json:"employee_name"`
	Readiness    string `json:"readiness"`
}

// ItemError records a per-employee computation failure. One bad record never
// aborts the batch.
type ItemError struct {
	ProfileID    string `json:"profile_id"`
	EmployeeName string `json:"employee_name"`
	Error        string `json:"error"`
}

type ComputeResult struct {
	Processed []ComputedItem `json:"processed"`
	Skipped   []SkippedItem  `json:"skipped"`
	Errors    []ItemError    `json:"errors"`
}

// ========== ITEM DTOs ==========

type ItemResponse struct {
	ID            string          `json:"id"`
	PeriodID      string          `json:"period_id"`
	ProfileID     string          `json:"profile_id"`
	EmployeeName  string          `json:"employee_name,omitempty"`
	EmployeeCode  string          `json:"employee_code,omitempty"`
	Readiness     string          `json:"readiness"`
	DaysWorked    decimal.Decimal `json:"days_worked"`
	DaysAbsent    decimal.Decimal `json:"days_absent"`
	Earnings      EarningsJSON    `json:"earnings"`
	Deductions    DeductionsJSON  `json:"deductions"`
	PFWages       decimal.Decimal `json:"pf_wages"`
	Gross         decimal.Decimal `json:"gross_earnings"`
	LossOfPay     decimal.Decimal `json:"loss_of_pay"`
	TotalDeducted decimal.Decimal `json:"total_deductions"`
	NetSalary     decimal.Decimal `json:"net_salary"`
	ESIReason     *string         `json:"esi_reason,omitempty"`
	PaymentStatus string          `json:"payment_status"`
}

type EarningsJSON struct {
	Basic      decimal.Decimal `json:"basic"`
	HRA        decimal.Decimal `json:"hra"`
	DA         decimal.Decimal `json:"da"`
	TA         decimal.Decimal `json:"ta"`
	Medical    decimal.Decimal `json:"medical"`
	Special    decimal.Decimal `json:"special"`
	Incentives decimal.Decimal `json:"incentives"`
	Arrears    decimal.Decimal `json:"arrears"`
	Overtime   decimal.Decimal `json:"overtime"`
}

type DeductionsJSON struct {
	PFEmployee       decimal.Decimal `json:"pf_employee"`
	PFEmployer       decimal.Decimal `json:"pf_employer"`
	EPS              decimal.Decimal `json:"eps"`
	EPF              decimal.Decimal `json:"epf"`
	ESIEmployee      decimal.Decimal `json:"esi_employee"`
	ESIEmployer      decimal.Decimal `json:"esi_employer"`
	ProfessionalTax  decimal.Decimal `json:"professional_tax"`
	TDS              decimal.Decimal `json:"tds"`
	LoanDeduction    decimal.Decimal `json:"loan_deduction"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
}

func ToItemResponse(i PayrollItem) ItemResponse {
	resp := ItemResponse{
		ID:         i.ID,
		PeriodID:   i.PeriodID,
		ProfileID:  i.ProfileID,
		Readiness:  string(i.Readiness),
		DaysWorked: i.DaysWorked,
		DaysAbsent: i.DaysAbsent,
		Earnings: EarningsJSON{
			Basic:      i.Earnings.Basic,
			HRA:        i.Earnings.HRA,
			DA:         i.Earnings.DA,
			TA:         i.Earnings.TA,
			Medical:    i.Earnings.Medical,
			Special:    i.Earnings.Special,
			Incentives: i.Earnings.Incentives,
			Arrears:    i.Earnings.Arrears,
			Overtime:   i.Earnings.Overtime,
		},
		Deductions: DeductionsJSON{
			PFEmployee:       i.Deductions.PFEmployee,
			PFEmployer:       i.Deductions.PFEmployer,
			EPS:              i.Deductions.EPS,
			EPF:              i.Deductions.EPF,
			ESIEmployee:      i.Deductions.ESIEmployee,
			ESIEmployer:      i.Deductions.ESIEmployer,
			ProfessionalTax:  i.Deductions.ProfessionalTax,
			TDS:              i.Deductions.TDS,
			LoanDeduction:    i.Deductions.LoanDeduction,
			AdvanceDeduction: i.Deductions.AdvanceDeduction,
		},
		PFWages:       i.PFWages,
		Gross:         i.GrossEarnings,
		LossOfPay:     i.LossOfPay,
		TotalDeducted: i.TotalDeductions,
		NetSalary:     i.NetSalary,
		ESIReason:     i.ESIReason,
		PaymentStatus: string(i.PaymentStatus),
	}
	if i.EmployeeName != nil {
		resp.EmployeeName = *i.EmployeeName
	}
	if i.EmployeeCode != nil {
		resp.EmployeeCode = *i.EmployeeCode
	}
	return resp
}

// ========== SETTINGS DTOs ==========

type SettingsResponse struct {
	ID                string           `json:"id"`
	SchoolID          string           `json:"school_id"`
	AutoCreatePeriods bool             `json:"auto_create_periods"`
	PayCycleDay       int              `json:"pay_cycle_day"`
	PFRateOverride    *decimal.Decimal `json:"pf_rate_override,omitempty"`
	ProfessionalTax   decimal.Decimal  `json:"professional_tax"`
}

type UpdateSettingsRequest struct {
	AutoCreatePeriods *bool            `json:"auto_create_periods,omitempty"`
	PayCycleDay       *int             `json:"pay_cycle_day,omitempty"`
	PFRateOverride    *decimal.Decimal `json:"pf_rate_override,omitempty"`
	ProfessionalTax   *decimal.Decimal `json:"professional_tax,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PayCycleDay != nil && (*r.PayCycleDay < 1 || *r.PayCycleDay > 28) {
		errs = append(errs, validator.ValidationError{Field: "pay_cycle_day", Message: "must be between 1 and 28"})
	}
	if r.PFRateOverride != nil && (r.PFRateOverride.IsNegative() || r.PFRateOverride.GreaterThan(decimal.NewFromInt(100))) {
		errs = append(errs, validator.ValidationError{Field: "pf_rate_override", Message: "must be between 0 and 100"})
	}
	if r.ProfessionalTax != nil && r.ProfessionalTax.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "professional_tax", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
