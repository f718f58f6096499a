package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func cleanProfile() EmployeeProfile {
	return EmployeeProfile{
		ID:       "emp-1",
		SchoolID: "sch-1",
		UserID:   "usr-1",
		Bank: BankDetails{
			AccountNumber: "123456789012",
			IFSCCode:      "HDFC0001234",
			BankName:      "HDFC Bank",
		},
		Statutory: StatutoryIDs{
			PAN: "ABCDE1234F",
			UAN: "100200300400",
		},
		ChangeState: Clean(),
	}
}

func TestStagePending(t *testing.T) {
	now := time.Now().UTC()

	t.Run("stages bank patch", func(t *testing.T) {
		p := cleanProfile()
		err := p.StagePending(&BankPatch{AccountNumber: strPtr("999888777666")}, nil, now)

		require.NoError(t, err)
		assert.Equal(t, ChangePending, p.ChangeState.Kind)
		assert.Equal(t, "999888777666", *p.ChangeState.BankPatch.AccountNumber)
		// canonical fields untouched until approval
		assert.Equal(t, "123456789012", p.Bank.AccountNumber)
	})

	t.Run("rejects second submission while pending", func(t *testing.T) {
		p := cleanProfile()
		require.NoError(t, p.StagePending(&BankPatch{BankName: strPtr("SBI")}, nil, now))

		err := p.StagePending(&BankPatch{BankName: strPtr("ICICI")}, nil, now)
		assert.ErrorIs(t, err, ErrChangeAlreadyPending)
		assert.Equal(t, "SBI", *p.ChangeState.BankPatch.BankName)
	})

	t.Run("rejects empty change", func(t *testing.T) {
		p := cleanProfile()
		err := p.StagePending(&BankPatch{}, &IDPatch{}, now)
		assert.ErrorIs(t, err, ErrEmptyChange)
		assert.Equal(t, ChangeClean, p.ChangeState.Kind)
	})

	t.Run("replaces a rejected payload", func(t *testing.T) {
		p := cleanProfile()
		require.NoError(t, p.StagePending(&BankPatch{BankName: strPtr("SBI")}, nil, now))
		require.NoError(t, p.RejectPending("illegible document", now))

		err := p.StagePending(&BankPatch{BankName: strPtr("ICICI")}, nil, now)
		require.NoError(t, err)
		assert.Equal(t, ChangePending, p.ChangeState.Kind)
		assert.Equal(t, "ICICI", *p.ChangeState.BankPatch.BankName)
		assert.Nil(t, p.ChangeState.RejectionReason)
	})
}

func TestApplyPending(t *testing.T) {
	now := time.Now().UTC()

	t.Run("copies every staged field and clears state", func(t *testing.T) {
		p := cleanProfile()
		require.NoError(t, p.StagePending(
			&BankPatch{AccountNumber: strPtr("999888777666"), IFSCCode: strPtr("SBIN0004321")},
			&IDPatch{UAN: strPtr("400300200100")},
			now,
		))

		require.NoError(t, p.ApplyPending())

		assert.Equal(t, "999888777666", p.Bank.AccountNumber)
		assert.Equal(t, "SBIN0004321", p.Bank.IFSCCode)
		assert.Equal(t, "HDFC Bank", p.Bank.BankName) // not in patch
		assert.Equal(t, "400300200100", p.Statutory.UAN)
		assert.Equal(t, "ABCDE1234F", p.Statutory.PAN) // not in patch
		assert.Equal(t, ChangeClean, p.ChangeState.Kind)
		assert.Nil(t, p.ChangeState.BankPatch)
		assert.Nil(t, p.ChangeState.IDPatch)
	})

	t.Run("fails without a pending change", func(t *testing.T) {
		p := cleanProfile()
		assert.ErrorIs(t, p.ApplyPending(), ErrNoPendingChange)
	})

	t.Run("fails on a rejected change", func(t *testing.T) {
		p := cleanProfile()
		require.NoError(t, p.StagePending(&BankPatch{BankName: strPtr("SBI")}, nil, now))
		require.NoError(t, p.RejectPending("wrong branch", now))

		assert.ErrorIs(t, p.ApplyPending(), ErrNoPendingChange)
	})
}

func TestRejectPending(t *testing.T) {
	now := time.Now().UTC()

	t.Run("keeps payload with reason", func(t *testing.T) {
		p := cleanProfile()
		require.NoError(t, p.StagePending(&BankPatch{BankName: strPtr("SBI")}, nil, now))

		require.NoError(t, p.RejectPending("document mismatch", now))

		assert.Equal(t, ChangeRejected, p.ChangeState.Kind)
		assert.Equal(t, "document mismatch", *p.ChangeState.RejectionReason)
		assert.Equal(t, "SBI", *p.ChangeState.BankPatch.BankName)
		// canonical bank name untouched
		assert.Equal(t, "HDFC Bank", p.Bank.BankName)
	})

	t.Run("requires a reason", func(t *testing.T) {
		p := cleanProfile()
		require.NoError(t, p.StagePending(&BankPatch{BankName: strPtr("SBI")}, nil, now))

		assert.ErrorIs(t, p.RejectPending("", now), ErrRejectionReasonRequired)
		assert.Equal(t, ChangePending, p.ChangeState.Kind)
	})

	t.Run("fails without a pending change", func(t *testing.T) {
		p := cleanProfile()
		assert.ErrorIs(t, p.RejectPending("anything", now), ErrNoPendingChange)
	})
}
