package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyadesk/school-backend-go/internal/domain/loan"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/domain/structure"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
	"github.com/vidyadesk/school-backend-go/internal/service/readiness"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(context.Context) error   { t.committed = true; return nil }
func (t *fakeTx) Rollback(context.Context) error { t.rolledBack = true; return nil }

type fakeDB struct {
	tx *fakeTx
}

func (f *fakeDB) BeginTx(context.Context) (pgx.Tx, error) {
	f.tx = &fakeTx{}
	return f.tx, nil
}

type fakeItemStore struct {
	payroll.Repository

	items      map[string]*payroll.PayrollItem
	attendance []payroll.AttendanceSummary
	seq        int
}

func newFakeItemStore() *fakeItemStore {
	return &fakeItemStore{items: map[string]*payroll.PayrollItem{}}
}

func (f *fakeItemStore) GetSettings(_ context.Context, _ string) (payroll.Settings, error) {
	return payroll.Settings{}, payroll.ErrSettingsNotFound
}

func (f *fakeItemStore) GetAttendanceSummaries(_ context.Context, _ string, _, _ time.Time, _ []string) ([]payroll.AttendanceSummary, error) {
	return f.attendance, nil
}

func (f *fakeItemStore) DeleteItemsByPeriod(_ context.Context, periodID, schoolID string) error {
	for id, item := range f.items {
		if item.PeriodID == periodID && item.SchoolID == schoolID && item.PaymentStatus == payroll.PaymentPending {
			delete(f.items, id)
		}
	}
	return nil
}

func (f *fakeItemStore) CreateItem(_ context.Context, item payroll.PayrollItem) (payroll.PayrollItem, error) {
	for _, existing := range f.items {
		if existing.PeriodID == item.PeriodID && existing.ProfileID == item.ProfileID {
			return payroll.PayrollItem{}, payroll.ErrItemAlreadyExists
		}
	}
	f.seq++
	item.ID = fmt.Sprintf("item-%d", f.seq)
	stored := item
	f.items[item.ID] = &stored
	return item, nil
}

func (f *fakeItemStore) GetItemByID(_ context.Context, id, schoolID string) (payroll.PayrollItem, error) {
	item, ok := f.items[id]
	if !ok || item.SchoolID != schoolID {
		return payroll.PayrollItem{}, payroll.ErrItemNotFound
	}
	return *item, nil
}

// MarkProcessed mirrors the SQL UPDATE: matching pending rows flip first,
// then the count mismatch surfaces as an error.
func (f *fakeItemStore) MarkProcessed(_ context.Context, ids []string, schoolID string) error {
	matched := 0
	for _, id := range ids {
		item, ok := f.items[id]
		if ok && item.SchoolID == schoolID && item.PaymentStatus == payroll.PaymentPending {
			item.PaymentStatus = payroll.PaymentProcessed
			matched++
		}
	}
	if matched != len(ids) {
		return payroll.ErrItemNotFound
	}
	return nil
}

func (f *fakeItemStore) pendingItemIDs(periodID string) []string {
	var ids []string
	for id, item := range f.items {
		if item.PeriodID == periodID && item.PaymentStatus == payroll.PaymentPending {
			ids = append(ids, id)
		}
	}
	return ids
}

type fakePeriodStore struct {
	period.Repository

	stored period.PayrollPeriod
}

func (f *fakePeriodStore) GetByID(_ context.Context, id, schoolID string) (period.PayrollPeriod, error) {
	if id != f.stored.ID || schoolID != f.stored.SchoolID {
		return period.PayrollPeriod{}, period.ErrPeriodNotFound
	}
	return f.stored, nil
}

type fakeProfileStore struct {
	profile.Repository

	profiles []profile.EmployeeProfile
}

func (f *fakeProfileStore) ListBySchool(_ context.Context, _ string) ([]profile.EmployeeProfile, error) {
	return f.profiles, nil
}

type fakeStructureStore struct {
	structure.Repository

	structures map[string]structure.SalaryStructure
}

func (f *fakeStructureStore) GetByIDs(_ context.Context, _ []string, _ string) (map[string]structure.SalaryStructure, error) {
	return f.structures, nil
}

type fakeLoanLedger struct {
	loans      map[string]*loan.Loan
	deductions int
}

func (f *fakeLoanLedger) GetActiveByProfileIDs(_ context.Context, _ []string, _ string) (map[string][]loan.Loan, error) {
	byProfile := make(map[string][]loan.Loan)
	for _, l := range f.loans {
		if l.Status == loan.StatusActive {
			byProfile[l.ProfileID] = append(byProfile[l.ProfileID], *l)
		}
	}
	return byProfile, nil
}

func (f *fakeLoanLedger) RecordDeduction(_ context.Context, id, _ string, amount decimal.Decimal) error {
	l, ok := f.loans[id]
	if !ok {
		return loan.ErrLoanNotFound
	}
	f.deductions++
	l.TotalDeducted = l.TotalDeducted.Add(amount)
	if l.TotalDeducted.GreaterThanOrEqual(l.Principal) {
		l.Status = loan.StatusClosed
	}
	return nil
}

func adminContext(t *testing.T, schoolID string) context.Context {
	t.Helper()

	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id":   "user-1",
		"school_id": schoolID,
		"role":      "admin",
	})
	require.NoError(t, err)

	return jwtauth.NewContext(context.Background(), token, nil)
}

type computeFixture struct {
	db       *fakeDB
	items    *fakeItemStore
	ledger   *fakeLoanLedger
	svc      Service
	periodID string
}

func newComputeFixture() computeFixture {
	structID := "struct-1"
	items := newFakeItemStore()
	items.attendance = []payroll.AttendanceSummary{{ProfileID: "prof-1", DaysPresent: dec("26")}}

	ledger := &fakeLoanLedger{loans: map[string]*loan.Loan{
		"loan-1": {
			ID:                "loan-1",
			ProfileID:         "prof-1",
			SchoolID:          "school-1",
			Kind:              loan.KindLoan,
			Principal:         dec("3000"),
			InstallmentAmount: dec("1000"),
			Status:            loan.StatusActive,
		},
	}}

	db := &fakeDB{}
	svc := NewService(
		db,
		items,
		&fakePeriodStore{stored: period.PayrollPeriod{
			ID:               "per-1",
			SchoolID:         "school-1",
			Month:            3,
			Year:             2025,
			StartDate:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:          time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
			TotalWorkingDays: 26,
			Status:           period.StatusDraft,
		}},
		&fakeProfileStore{profiles: []profile.EmployeeProfile{{
			ID:           "prof-1",
			SchoolID:     "school-1",
			UserID:       "user-emp",
			EmployeeName: "Asha Verma",
			Bank: profile.BankDetails{
				AccountNumber: "1234567890",
				IFSCCode:      "HDFC0000001",
				BankName:      "HDFC",
			},
			SalaryStructureID: &structID,
		}}},
		&fakeStructureStore{structures: map[string]structure.SalaryStructure{
			structID: testStructure("20000", "8000", "2000", "1000", "500", "500"),
		}},
		ledger,
		readiness.NewClassifier(readiness.DefaultRules()),
		defaultRates(),
		cache.Noop{},
	)

	return computeFixture{db: db, items: items, ledger: ledger, svc: svc, periodID: "per-1"}
}

func TestRecomputeDoesNotAdvanceLoanLedger(t *testing.T) {
	fx := newComputeFixture()
	ctx := adminContext(t, "school-1")

	res, err := fx.svc.ComputePeriod(ctx, payroll.ComputePeriodRequest{PeriodID: fx.periodID})
	require.NoError(t, err)
	require.Len(t, res.Processed, 1)

	// Recomputing the draft replaces the pending item; the ledger must not
	// pick up a second installment for the same cycle.
	res, err = fx.svc.ComputePeriod(ctx, payroll.ComputePeriodRequest{PeriodID: fx.periodID})
	require.NoError(t, err)
	require.Len(t, res.Processed, 1)

	assert.Zero(t, fx.ledger.deductions, "compute must not touch the loan ledger")
	assert.True(t, fx.ledger.loans["loan-1"].TotalDeducted.IsZero())

	ids := fx.items.pendingItemIDs(fx.periodID)
	require.Len(t, ids, 1)
	require.NoError(t, fx.svc.MarkItemsProcessed(ctx, fx.periodID, ids))

	// One paid cycle, one installment: 1000 of the 3000 principal.
	assert.Equal(t, 1, fx.ledger.deductions)
	assert.True(t, fx.ledger.loans["loan-1"].TotalDeducted.Equal(dec("1000")),
		"ledger after one paid cycle should be 1000, got %s", fx.ledger.loans["loan-1"].TotalDeducted)
	assert.Equal(t, loan.StatusActive, fx.ledger.loans["loan-1"].Status)
	require.NotNil(t, fx.db.tx)
	assert.True(t, fx.db.tx.committed)
}

func TestMarkProcessedMixedBatchRollsBack(t *testing.T) {
	fx := newComputeFixture()
	ctx := adminContext(t, "school-1")

	_, err := fx.svc.ComputePeriod(ctx, payroll.ComputePeriodRequest{PeriodID: fx.periodID})
	require.NoError(t, err)
	ids := fx.items.pendingItemIDs(fx.periodID)
	require.Len(t, ids, 1)

	err = fx.svc.MarkItemsProcessed(ctx, fx.periodID, append(ids, "item-unknown"))
	assert.ErrorIs(t, err, payroll.ErrItemNotFound)

	// The batch fails whole: no ledger movement, transaction rolled back.
	assert.Zero(t, fx.ledger.deductions)
	require.NotNil(t, fx.db.tx)
	assert.True(t, fx.db.tx.rolledBack)
	assert.False(t, fx.db.tx.committed)
}
