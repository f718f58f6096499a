package report

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
)

type fakePeriodStore struct {
	period.Repository

	stored period.PayrollPeriod
}

func (f *fakePeriodStore) GetByMonthYear(_ context.Context, schoolID string, month, year int) (period.PayrollPeriod, error) {
	if schoolID != f.stored.SchoolID || month != f.stored.Month || year != f.stored.Year {
		return period.PayrollPeriod{}, period.ErrPeriodNotFound
	}
	return f.stored, nil
}

type fakeItemStore struct {
	payroll.Repository

	items []payroll.PayrollItem
}

func (f *fakeItemStore) ListItemsByPeriod(_ context.Context, _, _ string) ([]payroll.PayrollItem, error) {
	return f.items, nil
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

func monthReportService(p period.PayrollPeriod, items []payroll.PayrollItem) Service {
	return NewService(
		&fakePeriodStore{stored: p},
		&fakeItemStore{items: items},
		nil,
		cache.Noop{},
	)
}

func TestPFReportResolvesPeriodByMonth(t *testing.T) {
	p := marchPeriod()
	p.SchoolID = "school-1"
	svc := monthReportService(p, []payroll.PayrollItem{
		contributingItem("Asha Verma", "100200300400", "15000", "1800", "1249.50"),
	})

	rep, err := svc.PFReport(adminContext(t, "school-1"), 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Month)
	assert.Equal(t, 2025, rep.Year)
	require.Len(t, rep.Rows, 1)
}

func TestPFReportMonthWithoutPeriod(t *testing.T) {
	p := marchPeriod()
	p.SchoolID = "school-1"
	svc := monthReportService(p, nil)

	_, err := svc.PFReport(adminContext(t, "school-1"), 4, 2025)
	assert.ErrorIs(t, err, payroll.ErrPeriodNotReportable)
}

func TestESIReportDraftPeriodNotReportable(t *testing.T) {
	p := marchPeriod()
	p.SchoolID = "school-1"
	p.Status = period.StatusDraft
	svc := monthReportService(p, nil)

	_, err := svc.ESIReport(adminContext(t, "school-1"), 3, 2025)
	assert.ErrorIs(t, err, payroll.ErrPeriodNotReportable)
}
