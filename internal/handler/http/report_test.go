package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/report"
)

type fakeReportService struct {
	err error
	pf  report.PFReport
}

func (f *fakeReportService) PFReport(ctx context.Context, month, year int) (report.PFReport, error) {
	return f.pf, f.err
}

func (f *fakeReportService) ESIReport(ctx context.Context, month, year int) (report.ESIReport, error) {
	return report.ESIReport{}, f.err
}

func (f *fakeReportService) Payslip(ctx context.Context, itemID string) (report.PayslipData, error) {
	return report.PayslipData{}, f.err
}

func getReport(t *testing.T, h ReportHandler, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.PFReport(rec, req)
	return rec
}

func TestPFReportRequiresMonthAndYear(t *testing.T) {
	h := NewReportHandler(&fakeReportService{})

	for _, target := range []string{
		"/payroll/reports/pf",
		"/payroll/reports/pf?month=13&year=2025",
		"/payroll/reports/pf?month=3",
		"/payroll/reports/pf?month=3&year=99",
	} {
		rec := getReport(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target %s", target)
	}
}

func TestPFReportUnreportableMonthReturns400(t *testing.T) {
	h := NewReportHandler(&fakeReportService{err: payroll.ErrPeriodNotReportable})

	rec := getReport(t, h, "/payroll/reports/pf?month=3&year=2025")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
}

func TestPFReportCSVSetsAttachment(t *testing.T) {
	h := NewReportHandler(&fakeReportService{pf: report.PFReport{Month: 3, Year: 2025}})

	rec := getReport(t, h, "/payroll/reports/pf?month=3&year=2025&format=csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "pf_report_3_2025.csv")
}
