package payroll

import "errors"

var (
	ErrItemNotFound        = errors.New("payroll item not found")
	ErrItemAlreadyExists   = errors.New("payroll item already exists for this employee and period")
	ErrItemProcessed       = errors.New("payroll item already processed, cannot modify")
	ErrSettingsNotFound    = errors.New("payroll settings not found")
	ErrNotItemOwner        = errors.New("payslip belongs to a different employee")
	ErrPeriodNotReportable = errors.New("period must be approved or paid to generate reports")
)
