package profile

import "errors"

var (
	ErrProfileNotFound         = errors.New("employee payroll profile not found")
	ErrProfileExists           = errors.New("employee already has a payroll profile")
	ErrNoPendingChange         = errors.New("no pending profile change to act on")
	ErrChangeAlreadyPending    = errors.New("a profile change is already awaiting approval")
	ErrEmptyChange             = errors.New("profile change contains no fields")
	ErrRejectionReasonRequired = errors.New("a reason is required to reject a profile change")
	ErrInvalidAction           = errors.New("action must be approve or reject")
)
