package profile

import "time"

// BankDetails are the canonical payout fields. Payroll holds an employee
// until all three of account number, IFSC and bank name are present.
type BankDetails struct {
	AccountNumber string `json:"account_number"`
	IFSCCode      string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder,omitempty"`
}

func (b BankDetails) Complete() bool {
	return b.AccountNumber != "" && b.IFSCCode != "" && b.BankName != ""
}

// StatutoryIDs are the government identifiers used in statutory reports.
type StatutoryIDs struct {
	PAN       string `json:"pan,omitempty"`
	UAN       string `json:"uan,omitempty"`
	ESINumber string `json:"esi_number,omitempty"`
}

// ChangeStateKind discriminates the profile change sub-state.
type ChangeStateKind string

const (
	ChangeClean    ChangeStateKind = "CLEAN"
	ChangePending  ChangeStateKind = "PENDING_APPROVAL"
	ChangeRejected ChangeStateKind = "REJECTED"
)

// BankPatch and IDPatch are partial updates staged by an employee. Nil fields
// are left untouched on approval.
type BankPatch struct {
	AccountNumber *string `json:"account_number,omitempty"`
	IFSCCode      *string `json:"ifsc_code,omitempty"`
	BankName      *string `json:"bank_name,omitempty"`
	AccountHolder *string `json:"account_holder,omitempty"`
}

func (p BankPatch) Empty() bool {
	return p.AccountNumber == nil && p.IFSCCode == nil && p.BankName == nil && p.AccountHolder == nil
}

type IDPatch struct {
	PAN       *string `json:"pan,omitempty"`
	UAN       *string `json:"uan,omitempty"`
	ESINumber *string `json:"esi_number,omitempty"`
}

func (p IDPatch) Empty() bool {
	return p.PAN == nil && p.UAN == nil && p.ESINumber == nil
}

// ChangeState is the explicit tagged variant replacing nullable "pending"
// columns. Patches exist only while Kind is PENDING_APPROVAL or REJECTED;
// the rejected payload is retained for audit.
type ChangeState struct {
	Kind            ChangeStateKind
	BankPatch       *BankPatch
	IDPatch         *IDPatch
	SubmittedAt     *time.Time
	RejectedAt      *time.Time
	RejectionReason *string
}

// Clean returns the state of a profile with nothing staged.
func Clean() ChangeState {
	return ChangeState{Kind: ChangeClean}
}

// EmployeeProfile is the payroll-facing view of one school employee.
type EmployeeProfile struct {
	ID                string
	SchoolID          string
	UserID            string
	EmployeeName      string
	EmployeeCode      string
	JoiningDate       time.Time
	Bank              BankDetails
	Statutory         StatutoryIDs
	TaxRegime         string // "old" or "new"
	SalaryStructureID *string
	ChangeState       ChangeState
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ApplyPending copies the staged patches onto the canonical fields and
// returns the profile to the clean state. The caller persists the result in
// one transaction so a half-applied change is never observable.
func (e *EmployeeProfile) ApplyPending() error {
	if e.ChangeState.Kind != ChangePending {
		return ErrNoPendingChange
	}

	if p := e.ChangeState.BankPatch; p != nil {
		if p.AccountNumber != nil {
			e.Bank.AccountNumber = *p.AccountNumber
		}
		if p.IFSCCode != nil {
			e.Bank.IFSCCode = *p.IFSCCode
		}
		if p.BankName != nil {
			e.Bank.BankName = *p.BankName
		}
		if p.AccountHolder != nil {
			e.Bank.AccountHolder = *p.AccountHolder
		}
	}
	if p := e.ChangeState.IDPatch; p != nil {
		if p.PAN != nil {
			e.Statutory.PAN = *p.PAN
		}
		if p.UAN != nil {
			e.Statutory.UAN = *p.UAN
		}
		if p.ESINumber != nil {
			e.Statutory.ESINumber = *p.ESINumber
		}
	}

	e.ChangeState = Clean()
	return nil
}

// RejectPending moves the staged change to REJECTED, keeping the payload.
func (e *EmployeeProfile) RejectPending(reason string, at time.Time) error {
	if e.ChangeState.Kind != ChangePending {
		return ErrNoPendingChange
	}
	if reason == "" {
		return ErrRejectionReasonRequired
	}

	e.ChangeState.Kind = ChangeRejected
	e.ChangeState.RejectedAt = &at
	e.ChangeState.RejectionReason = &reason
	return nil
}

// StagePending records a new pending change. A profile can hold only one
// pending change at a time; a rejected payload is replaced.
func (e *EmployeeProfile) StagePending(bank *BankPatch, ids *IDPatch, at time.Time) error {
	if e.ChangeState.Kind == ChangePending {
		return ErrChangeAlreadyPending
	}
	if (bank == nil || bank.Empty()) && (ids == nil || ids.Empty()) {
		return ErrEmptyChange
	}

	e.ChangeState = ChangeState{
		Kind:        ChangePending,
		BankPatch:   bank,
		IDPatch:     ids,
		SubmittedAt: &at,
	}
	return nil
}
