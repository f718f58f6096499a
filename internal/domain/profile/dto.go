package profile

import (
	"github.com/vidyadesk/school-backend-go/internal/pkg/validator"
)

type SubmitChangeRequest struct {
	EmployeeID string     `json:"-"`
	Bank       *BankPatch `json:"bank_details,omitempty"`
	IDs        *IDPatch   `json:"id_details,omitempty"`
}

func (r *SubmitChangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if (r.Bank == nil || r.Bank.Empty()) && (r.IDs == nil || r.IDs.Empty()) {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one field must be provided"})
	}
	if r.Bank != nil {
		if r.Bank.AccountNumber != nil && !validator.IsValidBankAccount(*r.Bank.AccountNumber) {
			errs = append(errs, validator.ValidationError{Field: "bank_details.account_number", Message: "must be 9-18 digits"})
		}
		if r.Bank.IFSCCode != nil && !validator.IsValidIFSC(*r.Bank.IFSCCode) {
			errs = append(errs, validator.ValidationError{Field: "bank_details.ifsc_code", Message: "must be a valid IFSC code"})
		}
		if r.Bank.BankName != nil && validator.IsEmpty(*r.Bank.BankName) {
			errs = append(errs, validator.ValidationError{Field: "bank_details.bank_name", Message: "must not be empty"})
		}
	}
	if r.IDs != nil {
		if r.IDs.PAN != nil && !validator.IsValidPAN(*r.IDs.PAN) {
			errs = append(errs, validator.ValidationError{Field: "id_details.pan", Message: "must be a valid PAN"})
		}
		if r.IDs.UAN != nil && !validator.IsValidUAN(*r.IDs.UAN) {
			errs = append(errs, validator.ValidationError{Field: "id_details.uan", Message: "must be a 12-digit UAN"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewChangeRequest struct {
	EmployeeID      string  `json:"-"`
	Action          string  `json:"action"` // "approve" or "reject"
	ApprovedBy      string  `json:"approved_by"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func (r *ReviewChangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Action != "approve" && r.Action != "reject" {
		errs = append(errs, validator.ValidationError{Field: "action", Message: "must be 'approve' or 'reject'"})
	}
	if r.Action == "reject" && (r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason)) {
		errs = append(errs, validator.ValidationError{Field: "rejection_reason", Message: "is required when rejecting"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ProfileResponse struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	EmployeeName      string       `json:"employee_name"`
	EmployeeCode      string       `json:"employee_code"`
	Bank              BankDetails  `json:"bank_details"`
	Statutory         StatutoryIDs `json:"statutory_ids"`
	TaxRegime         string       `json:"tax_regime"`
	SalaryStructureID *string      `json:"salary_structure_id,omitempty"`
	ChangeStatus      string       `json:"change_status"`
	PendingBank       *BankPatch   `json:"pending_bank_details,omitempty"`
	PendingIDs        *IDPatch     `json:"pending_id_details,omitempty"`
	RejectionReason   *string      `json:"rejection_reason,omitempty"`
}

func ToResponse(e EmployeeProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:                e.ID,
		UserID:            e.UserID,
		EmployeeName:      e.EmployeeName,
		EmployeeCode:      e.EmployeeCode,
		Bank:              e.Bank,
		Statutory:         e.Statutory,
		TaxRegime:         e.TaxRegime,
		SalaryStructureID: e.SalaryStructureID,
		ChangeStatus:      string(e.ChangeState.Kind),
	}
	if e.ChangeState.Kind != ChangeClean {
		resp.PendingBank = e.ChangeState.BankPatch
		resp.PendingIDs = e.ChangeState.IDPatch
		resp.RejectionReason = e.ChangeState.RejectionReason
	}
	return resp
}
