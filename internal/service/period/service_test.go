package period

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
	"github.com/vidyadesk/school-backend-go/internal/pkg/notify"
)

type fakePeriodRepo struct {
	period.Repository

	stored  period.PayrollPeriod
	updated *period.PayrollPeriod
	deleted bool
}

func (f *fakePeriodRepo) GetByID(_ context.Context, id, schoolID string) (period.PayrollPeriod, error) {
	if id != f.stored.ID || schoolID != f.stored.SchoolID {
		return period.PayrollPeriod{}, period.ErrPeriodNotFound
	}
	return f.stored, nil
}

func (f *fakePeriodRepo) Update(_ context.Context, p period.PayrollPeriod) (period.PayrollPeriod, error) {
	f.updated = &p
	return p, nil
}

func (f *fakePeriodRepo) Delete(_ context.Context, id, schoolID string) error {
	f.deleted = true
	return nil
}

type fakePayrollRepo struct {
	payroll.Repository

	unresolved int
	processed  int
}

func (f *fakePayrollRepo) CountUnresolved(_ context.Context, _, _ string) (int, error) {
	return f.unresolved, nil
}

func (f *fakePayrollRepo) CountProcessed(_ context.Context, _, _ string) (int, error) {
	return f.processed, nil
}

func authedContext(t *testing.T, schoolID string) context.Context {
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

func storedPeriod(status period.Status) period.PayrollPeriod {
	return period.PayrollPeriod{
		ID:               "per-1",
		SchoolID:         "school-1",
		Month:            3,
		Year:             2025,
		StartDate:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalWorkingDays: 26,
		Weekends:         5,
		Status:           status,
	}
}

func newTestService(periodRepo *fakePeriodRepo, payrollRepo *fakePayrollRepo) Service {
	return NewService(nil, periodRepo, payrollRepo, notify.NewLogNotifier(nil), cache.Noop{})
}

func TestUpdateRejectsInvalidTransition(t *testing.T) {
	periodRepo := &fakePeriodRepo{stored: storedPeriod(period.StatusPaid)}
	svc := newTestService(periodRepo, &fakePayrollRepo{})

	status := string(period.StatusDraft)
	_, err := svc.Update(authedContext(t, "school-1"), period.UpdatePeriodRequest{
		ID:     "per-1",
		Status: &status,
	})

	assert.ErrorIs(t, err, period.ErrInvalidTransition)
	assert.Nil(t, periodRepo.updated)
}

func TestUpdateApprovalBlockedByUnresolvedItems(t *testing.T) {
	periodRepo := &fakePeriodRepo{stored: storedPeriod(period.StatusDraft)}
	svc := newTestService(periodRepo, &fakePayrollRepo{unresolved: 3})

	status := string(period.StatusApproved)
	_, err := svc.Update(authedContext(t, "school-1"), period.UpdatePeriodRequest{
		ID:     "per-1",
		Status: &status,
	})

	assert.ErrorIs(t, err, period.ErrUnresolvedItems)
}

func TestUpdateApprovesWhenAllItemsResolved(t *testing.T) {
	periodRepo := &fakePeriodRepo{stored: storedPeriod(period.StatusDraft)}
	svc := newTestService(periodRepo, &fakePayrollRepo{unresolved: 0})

	status := string(period.StatusApproved)
	resp, err := svc.Update(authedContext(t, "school-1"), period.UpdatePeriodRequest{
		ID:     "per-1",
		Status: &status,
	})

	require.NoError(t, err)
	assert.Equal(t, string(period.StatusApproved), resp.Status)
	require.NotNil(t, periodRepo.updated)
	assert.Equal(t, period.StatusApproved, periodRepo.updated.Status)
}

func TestUpdateLockedPeriod(t *testing.T) {
	locked := storedPeriod(period.StatusDraft)
	locked.IsLocked = true
	periodRepo := &fakePeriodRepo{stored: locked}
	svc := newTestService(periodRepo, &fakePayrollRepo{})

	days := 25
	_, err := svc.Update(authedContext(t, "school-1"), period.UpdatePeriodRequest{
		ID:               "per-1",
		TotalWorkingDays: &days,
	})

	assert.ErrorIs(t, err, period.ErrPeriodLocked)
}

func TestDeleteGuards(t *testing.T) {
	t.Run("non-draft period", func(t *testing.T) {
		periodRepo := &fakePeriodRepo{stored: storedPeriod(period.StatusApproved)}
		svc := newTestService(periodRepo, &fakePayrollRepo{})

		err := svc.Delete(authedContext(t, "school-1"), "per-1")
		assert.ErrorIs(t, err, period.ErrDeleteNonDraft)
		assert.False(t, periodRepo.deleted)
	})

	t.Run("processed items present", func(t *testing.T) {
		periodRepo := &fakePeriodRepo{stored: storedPeriod(period.StatusDraft)}
		svc := newTestService(periodRepo, &fakePayrollRepo{processed: 2})

		err := svc.Delete(authedContext(t, "school-1"), "per-1")
		assert.ErrorIs(t, err, period.ErrHasProcessedItems)
		assert.False(t, periodRepo.deleted)
	})

	t.Run("deletable draft", func(t *testing.T) {
		periodRepo := &fakePeriodRepo{stored: storedPeriod(period.StatusDraft)}
		svc := newTestService(periodRepo, &fakePayrollRepo{})

		err := svc.Delete(authedContext(t, "school-1"), "per-1")
		require.NoError(t, err)
		assert.True(t, periodRepo.deleted)
	})

	t.Run("wrong school", func(t *testing.T) {
		periodRepo := &fakePeriodRepo{stored: storedPeriod(period.StatusDraft)}
		svc := newTestService(periodRepo, &fakePayrollRepo{})

		err := svc.Delete(authedContext(t, "school-2"), "per-1")
		assert.ErrorIs(t, err, period.ErrPeriodNotFound)
	})
}
