package response

import (
	"errors"
	"net/http"

	"github.com/vidyadesk/school-backend-go/internal/domain/loan"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/domain/structure"
	"github.com/vidyadesk/school-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Period domain errors
	case errors.Is(err, period.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, period.ErrPeriodExists):
		BadRequest(w, "Payroll period already exists for this month", nil)
	case errors.Is(err, period.ErrPeriodLocked):
		Locked(w, "Payroll period is locked")
	case errors.Is(err, period.ErrPeriodNotLocked):
		BadRequest(w, "Payroll period is not locked", nil)
	case errors.Is(err, period.ErrInvalidTransition):
		BadRequest(w, "Invalid period status transition", nil)
	case errors.Is(err, period.ErrUnresolvedItems):
		Conflict(w, "Period has unresolved payroll items")
	case errors.Is(err, period.ErrHasProcessedItems):
		Conflict(w, "Period has processed payroll items")
	case errors.Is(err, period.ErrDeleteNonDraft):
		Conflict(w, "Only draft periods can be deleted")
	case errors.Is(err, period.ErrLockReasonRequired):
		BadRequest(w, "A reason is required", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrItemNotFound):
		NotFound(w, "Payroll item not found")
	case errors.Is(err, payroll.ErrItemAlreadyExists):
		Conflict(w, "Payroll item already exists for this employee")
	case errors.Is(err, payroll.ErrItemProcessed):
		Conflict(w, "Payroll item is already processed")
	case errors.Is(err, payroll.ErrSettingsNotFound):
		NotFound(w, "Payroll settings not found")
	case errors.Is(err, payroll.ErrNotItemOwner):
		Forbidden(w, "You can only access your own payslip")
	case errors.Is(err, payroll.ErrPeriodNotReportable):
		BadRequest(w, "No approved or paid period exists for that month", nil)

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Employee profile not found")
	case errors.Is(err, profile.ErrNoPendingChange):
		BadRequest(w, "No pending change to review", nil)
	case errors.Is(err, profile.ErrChangeAlreadyPending):
		Conflict(w, "A change is already pending approval")
	case errors.Is(err, profile.ErrEmptyChange):
		BadRequest(w, "Change must include at least one field", nil)
	case errors.Is(err, profile.ErrRejectionReasonRequired):
		BadRequest(w, "A rejection reason is required", nil)
	case errors.Is(err, profile.ErrInvalidAction):
		BadRequest(w, "Action must be 'approve' or 'reject'", nil)

	// Supporting domains
	case errors.Is(err, structure.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, loan.ErrLoanNotFound):
		NotFound(w, "Loan not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
