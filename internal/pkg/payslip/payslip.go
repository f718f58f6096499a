package payslip

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/vidyadesk/school-backend-go/internal/domain/report"
)

// Filename returns the download name for a payslip PDF, built from the
// employee name with spaces collapsed to underscores.
func Filename(data report.PayslipData) string {
	name := strings.ReplaceAll(strings.TrimSpace(data.EmployeeName), " ", "_")
	if name == "" {
		name = "payslip"
	}
	return fmt.Sprintf("%s_%d_%d.pdf", name, data.Month, data.Year)
}

// Render produces the payslip as an A4 PDF.
func Render(data report.PayslipData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	title := "Payslip"
	if data.SchoolName != "" {
		title = data.SchoolName
	}
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	monthName := time.Month(data.Month).String()
	pdf.CellFormat(0, 8, fmt.Sprintf("Salary Slip - %s %d", monthName, data.Year), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", data.EmployeeName, data.EmployeeCode))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Days Worked: %s    Days Absent: %s",
		data.DaysWorked.StringFixed(1), data.DaysAbsent.StringFixed(1)))
	pdf.Ln(10)

	renderSection(pdf, "Earnings", data.Earnings, "Gross Earnings", data.Gross)
	pdf.Ln(6)
	renderSection(pdf, "Deductions", data.Deductions, "Total Deductions", data.TotalDeduced)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "Net Salary", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 9, data.Net.StringFixed(2), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderSection(pdf *gofpdf.Fpdf, heading string, rows []report.LabelledAmount, totalLabel string, total decimal.Decimal) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, heading, "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.CellFormat(120, 7, row.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, row.Amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(120, 7, totalLabel, "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, total.StringFixed(2), "T", 1, "R", false, 0, "")
}
