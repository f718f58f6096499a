package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
)

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func marchPeriod() period.PayrollPeriod {
	return period.PayrollPeriod{ID: "per-1", Month: 3, Year: 2025, Status: period.StatusApproved}
}

func contributingItem(name, uan string, pfWages, pfSide, eps string) payroll.PayrollItem {
	wages := dec(pfWages)
	side := dec(pfSide)
	epsD := dec(eps)
	return payroll.PayrollItem{
		EmployeeName: strPtr(name),
		UAN:          strPtr(uan),
		PFWages:      wages,
		Deductions: payroll.Deductions{
			PFEmployee: side,
			PFEmployer: side,
			EPS:        epsD,
			EPF:        side.Sub(epsD),
		},
	}
}

func TestBuildPFReport(t *testing.T) {
	items := []payroll.PayrollItem{
		contributingItem("Asha Verma", "100200300400", "15000", "1800", "1249.50"),
		contributingItem("Ravi Kumar", "100200300401", "11363.64", "1363.64", "946.59"),
		// held item, zero wages, no row
		{EmployeeName: strPtr("New Joiner"), Readiness: payroll.OnHoldBank},
	}

	rep := BuildPFReport(marchPeriod(), items)

	require.Len(t, rep.Rows, 2)
	assert.Equal(t, 3, rep.Month)
	assert.Equal(t, 2025, rep.Year)
	assert.Equal(t, "100200300400", rep.Rows[0].UAN)
	assert.True(t, rep.Rows[0].TotalPF.Equal(dec("3600")))

	assert.True(t, rep.Totals.PFWages.Equal(dec("26363.64")))
	assert.True(t, rep.Totals.PFEmployee.Equal(dec("3163.64")))
	assert.True(t, rep.Totals.PFEmployer.Equal(dec("3163.64")))
	assert.True(t, rep.Totals.GrandTotal.Equal(dec("6327.28")))
	// grand total is both sides summed
	assert.True(t, rep.Totals.GrandTotal.Equal(rep.Totals.PFEmployee.Add(rep.Totals.PFEmployer)))
}

func TestBuildESIReport(t *testing.T) {
	reason := "Gross salary ₹22500 exceeds ESI threshold of ₹21,000"
	items := []payroll.PayrollItem{
		{
			EmployeeName:  strPtr("Asha Verma"),
			ESINumber:     strPtr("3100200300"),
			GrossEarnings: dec("18000"),
			Deductions:    payroll.Deductions{ESIEmployee: dec("135"), ESIEmployer: dec("585")},
		},
		{
			EmployeeName:  strPtr("Ravi Kumar"),
			GrossEarnings: dec("22500"),
			ESIReason:     &reason,
		},
	}

	rep := BuildESIReport(marchPeriod(), items)

	require.Len(t, rep.Rows, 1)
	require.Len(t, rep.NonEligible, 1)
	assert.Equal(t, reason, rep.NonEligible[0].Reason)
	assert.True(t, rep.Totals.GrossEarnings.Equal(dec("18000")))
	assert.True(t, rep.Totals.GrandTotal.Equal(dec("720")))
}

// The CSV export must reconcile with the JSON payload: the Total row carries
// exactly the JSON totals.
func TestPFCSVMatchesJSONTotals(t *testing.T) {
	items := []payroll.PayrollItem{
		contributingItem("Asha Verma", "100200300400", "15000", "1800", "1249.50"),
		contributingItem("Ravi Kumar", "100200300401", "11363.64", "1363.64", "946.59"),
		contributingItem("Meena Iyer", "100200300402", "9000", "1080", "749.70"),
	}
	rep := BuildPFReport(marchPeriod(), items)

	raw, err := RenderPFCSV(rep)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	require.Len(t, lines, 5) // header + 3 rows + totals

	totals := strings.Split(lines[len(lines)-1], ",")
	assert.Equal(t, "Total", totals[1])
	assert.Equal(t, rep.Totals.PFWages.StringFixed(2), totals[2])
	assert.Equal(t, rep.Totals.PFEmployee.StringFixed(2), totals[5])
	assert.Equal(t, rep.Totals.GrandTotal.StringFixed(2), totals[7])
}

func TestESICSVMatchesJSONTotals(t *testing.T) {
	items := []payroll.PayrollItem{
		{
			EmployeeName:  strPtr("Asha Verma"),
			ESINumber:     strPtr("3100200300"),
			GrossEarnings: dec("18000"),
			Deductions:    payroll.Deductions{ESIEmployee: dec("135"), ESIEmployer: dec("585")},
		},
		{
			EmployeeName:  strPtr("Meena Iyer"),
			ESINumber:     strPtr("3100200301"),
			GrossEarnings: dec("21000"),
			Deductions:    payroll.Deductions{ESIEmployee: dec("157.50"), ESIEmployer: dec("682.50")},
		},
	}
	rep := BuildESIReport(marchPeriod(), items)

	raw, err := RenderESICSV(rep)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	totals := strings.Split(lines[3], ",")
	assert.Equal(t, "Total", totals[1])
	assert.Equal(t, rep.Totals.GrossEarnings.StringFixed(2), totals[2])
	assert.Equal(t, rep.Totals.EmployeeShare.StringFixed(2), totals[3])
	assert.Equal(t, rep.Totals.EmployerShare.StringFixed(2), totals[4])
}
