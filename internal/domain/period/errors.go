package period

import "errors"

var (
	ErrPeriodNotFound     = errors.New("payroll period not found")
	ErrPeriodExists       = errors.New("payroll period already exists for this month and year")
	ErrPeriodLocked       = errors.New("payroll period is locked")
	ErrPeriodNotLocked    = errors.New("payroll period is not locked")
	ErrInvalidTransition  = errors.New("invalid payroll period status transition")
	ErrUnresolvedItems    = errors.New("period has unresolved on-hold or skipped items")
	ErrHasProcessedItems  = errors.New("period has processed payroll items")
	ErrDeleteNonDraft     = errors.New("only draft periods can be deleted")
	ErrLockReasonRequired = errors.New("a reason is required to lock or unlock a period")
)
