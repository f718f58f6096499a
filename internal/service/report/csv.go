package report

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/vidyadesk/school-backend-go/internal/domain/report"
)

// RenderPFCSV writes the PF report as CSV. The trailing Total row carries
// the same figures as the JSON totals object, so the two exports reconcile.
func RenderPFCSV(rep report.PFReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"UAN", "Employee Name", "PF Wages", "EPS", "EPF", "PF Employee", "PF Employer", "Total PF"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rep.Rows {
		record := []string{
			row.UAN,
			row.EmployeeName,
			row.PFWages.StringFixed(2),
			row.EPS.StringFixed(2),
			row.EPF.StringFixed(2),
			row.PFEmployee.StringFixed(2),
			row.PFEmployer.StringFixed(2),
			row.TotalPF.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	totals := []string{
		"",
		"Total",
		rep.Totals.PFWages.StringFixed(2),
		rep.Totals.EPS.StringFixed(2),
		rep.Totals.EPF.StringFixed(2),
		rep.Totals.PFEmployee.StringFixed(2),
		rep.Totals.PFEmployer.StringFixed(2),
		rep.Totals.GrandTotal.StringFixed(2),
	}
	if err := w.Write(totals); err != nil {
		return nil, fmt.Errorf("failed to write csv totals: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderESICSV writes the ESI report as CSV: contributing rows, a totals
// row matching the JSON totals, then the non-eligible section.
func RenderESICSV(rep report.ESIReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"ESI Number", "Employee Name", "Gross Earnings", "Employee Share", "Employer Share"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rep.Rows {
		record := []string{
			row.ESINumber,
			row.EmployeeName,
			row.GrossEarnings.StringFixed(2),
			row.EmployeeShare.StringFixed(2),
			row.EmployerShare.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	totals := []string{
		"",
		"Total",
		rep.Totals.GrossEarnings.StringFixed(2),
		rep.Totals.EmployeeShare.StringFixed(2),
		rep.Totals.EmployerShare.StringFixed(2),
	}
	if err := w.Write(totals); err != nil {
		return nil, fmt.Errorf("failed to write csv totals: %w", err)
	}

	if len(rep.NonEligible) > 0 {
		if err := w.Write([]string{}); err != nil {
			return nil, fmt.Errorf("failed to write csv separator: %w", err)
		}
		if err := w.Write([]string{"", "Not Eligible", "Gross Earnings", "Reason"}); err != nil {
			return nil, fmt.Errorf("failed to write csv section header: %w", err)
		}
		for _, ne := range rep.NonEligible {
			record := []string{"", ne.EmployeeName, ne.GrossEarnings.StringFixed(2), ne.Reason}
			if err := w.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write csv row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
