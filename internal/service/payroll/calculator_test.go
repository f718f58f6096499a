package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidyadesk/school-backend-go/internal/config"
	"github.com/vidyadesk/school-backend-go/internal/domain/loan"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/domain/structure"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func defaultRates() StatutoryRates {
	return RatesFromConfig(config.StatutoryConfig{
		PFRate:            dec("12"),
		PFWageCeiling:     dec("15000"),
		EPSRate:           dec("8.33"),
		EPSCap:            dec("1250"),
		ESIGrossThreshold: dec("21000"),
		ESIEmployeeRate:   dec("0.75"),
		ESIEmployerRate:   dec("3.25"),
	})
}

func testCalculator() *Calculator {
	return NewCalculator(defaultRates(), FlatTaxes{ProfessionalTax: decimal.Zero})
}

// structure whose six components sum to the given amounts
func testStructure(basic, hra, da, ta, medical, special string) structure.SalaryStructure {
	return structure.SalaryStructure{
		ID:      "struct-1",
		Basic:   dec(basic),
		HRA:     dec(hra),
		DA:      dec(da),
		TA:      dec(ta),
		Medical: dec(medical),
		Special: dec(special),
	}
}

func fullAttendance(days string) payroll.AttendanceSummary {
	return payroll.AttendanceSummary{ProfileID: "prof-1", DaysPresent: dec(days)}
}

func testProfile() profile.EmployeeProfile {
	return profile.EmployeeProfile{ID: "prof-1", SchoolID: "school-1", TaxRegime: "new"}
}

func TestCompute_ESIThresholdInclusive(t *testing.T) {
	calc := testCalculator()

	// gross exactly at the threshold stays eligible
	out, err := calc.Compute(ComputeInput{
		Profile:          testProfile(),
		Structure:        testStructure("10500", "5250", "2100", "1050", "1050", "1050"),
		Attendance:       fullAttendance("22"),
		TotalWorkingDays: 22,
	})
	require.NoError(t, err)
	assert.True(t, out.Item.GrossEarnings.Equal(dec("21000")))
	assert.True(t, out.Item.Deductions.ESIEmployee.Equal(dec("157.50")), "got %s", out.Item.Deductions.ESIEmployee)
	assert.True(t, out.Item.Deductions.ESIEmployer.Equal(dec("682.50")), "got %s", out.Item.Deductions.ESIEmployer)
	assert.Nil(t, out.Item.ESIReason)

	// one paisa above the threshold is out
	out, err = calc.Compute(ComputeInput{
		Profile:          testProfile(),
		Structure:        testStructure("10500", "5250", "2100", "1050", "1050", "1050.01"),
		Attendance:       fullAttendance("22"),
		TotalWorkingDays: 22,
	})
	require.NoError(t, err)
	assert.True(t, out.Item.GrossEarnings.Equal(dec("21000.01")))
	assert.True(t, out.Item.Deductions.ESIEmployee.IsZero())
	assert.True(t, out.Item.Deductions.ESIEmployer.IsZero())
	require.NotNil(t, out.Item.ESIReason)
	assert.Equal(t, "Gross salary ₹21000.01 exceeds ESI threshold of ₹21,000", *out.Item.ESIReason)
}

func TestCompute_ProRatedScenario(t *testing.T) {
	// 25k structure, 22 working days, 20 present: earned gross 22727.27,
	// which puts the employee above the ESI threshold even though the
	// structure alone would too.
	calc := testCalculator()

	out, err := calc.Compute(ComputeInput{
		Profile:          testProfile(),
		Structure:        testStructure("12500", "6250", "2500", "1250", "1250", "1250"),
		Attendance:       fullAttendance("20"),
		TotalWorkingDays: 22,
	})
	require.NoError(t, err)

	item := out.Item
	assert.True(t, item.DaysWorked.Equal(dec("20")))
	assert.True(t, item.DaysAbsent.Equal(dec("2")))
	assert.True(t, item.GrossEarnings.Equal(dec("22727.27")), "gross %s", item.GrossEarnings)
	assert.True(t, item.LossOfPay.Equal(dec("2272.73")), "lop %s", item.LossOfPay)

	// ESI judged on earned gross
	assert.True(t, item.Deductions.ESIEmployee.IsZero())
	require.NotNil(t, item.ESIReason)

	// PF on earned basic, below the ceiling
	assert.True(t, item.PFWages.Equal(dec("11363.64")), "pf wages %s", item.PFWages)
	assert.True(t, item.Deductions.PFEmployee.Equal(dec("1363.64")), "pf %s", item.Deductions.PFEmployee)
}

func TestCompute_PFCeilingAndEPSSplit(t *testing.T) {
	calc := testCalculator()

	out, err := calc.Compute(ComputeInput{
		Profile:          testProfile(),
		Structure:        testStructure("20000", "10000", "4000", "2000", "2000", "2000"),
		Attendance:       fullAttendance("24"),
		TotalWorkingDays: 24,
	})
	require.NoError(t, err)

	item := out.Item
	assert.True(t, item.PFWages.Equal(dec("15000")))
	assert.True(t, item.Deductions.PFEmployee.Equal(dec("1800")), "pf employee %s", item.Deductions.PFEmployee)
	assert.True(t, item.Deductions.PFEmployer.Equal(dec("1800")))
	// 8.33% of 15000 = 1249.50, under the 1250 cap
	assert.True(t, item.Deductions.EPS.Equal(dec("1249.50")), "eps %s", item.Deductions.EPS)
	assert.True(t, item.Deductions.EPF.Equal(dec("550.50")), "epf %s", item.Deductions.EPF)
}

func TestCompute_EPSCapApplies(t *testing.T) {
	// raise the ceiling so 8.33% of PF wages exceeds the EPS cap
	rates := defaultRates()
	rates.PFWageCeiling = dec("20000")
	calc := NewCalculator(rates, FlatTaxes{})

	out, err := calc.Compute(ComputeInput{
		Profile:          testProfile(),
		Structure:        testStructure("20000", "0", "0", "0", "0", "0"),
		Attendance:       fullAttendance("24"),
		TotalWorkingDays: 24,
	})
	require.NoError(t, err)

	// 8.33% of 20000 = 1666, capped at 1250
	assert.True(t, out.Item.Deductions.EPS.Equal(dec("1250")))
	assert.True(t, out.Item.Deductions.EPF.Equal(dec("1150")), "epf %s", out.Item.Deductions.EPF)
}

func TestCompute_NetInvariant(t *testing.T) {
	calc := NewCalculator(defaultRates(), FlatTaxes{ProfessionalTax: dec("200")})

	cases := []struct {
		name     string
		basic    string
		present  string
		workDays int
	}{
		{"full month", "18000", "26", 26},
		{"partial month", "18000", "17", 26},
		{"low earner", "9000", "26", 26},
		{"single day", "18000", "1", 26},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := calc.Compute(ComputeInput{
				Profile:          testProfile(),
				Structure:        testStructure(tc.basic, "4000", "1500", "800", "700", "500"),
				Attendance:       fullAttendance(tc.present),
				TotalWorkingDays: tc.workDays,
				Loans: []loan.Loan{{
					ID:                "loan-1",
					Kind:              loan.KindLoan,
					Status:            loan.StatusActive,
					Principal:         dec("10000"),
					InstallmentAmount: dec("500"),
				}},
			})
			require.NoError(t, err)

			item := out.Item
			want := item.Deductions.PFEmployee.
				Add(item.Deductions.ESIEmployee).
				Add(item.Deductions.ProfessionalTax).
				Add(item.Deductions.TDS).
				Add(item.Deductions.LoanDeduction).
				Add(item.Deductions.AdvanceDeduction)
			assert.True(t, item.TotalDeductions.Equal(want))
			assert.True(t, item.NetSalary.Equal(item.GrossEarnings.Sub(item.TotalDeductions)),
				"net %s gross %s deductions %s", item.NetSalary, item.GrossEarnings, item.TotalDeductions)
		})
	}
}

func TestCompute_SanctionedLeaveIsPaid(t *testing.T) {
	calc := testCalculator()

	out, err := calc.Compute(ComputeInput{
		Profile:   testProfile(),
		Structure: testStructure("11000", "0", "0", "0", "0", "0"),
		Attendance: payroll.AttendanceSummary{
			ProfileID:       "prof-1",
			DaysPresent:     dec("20"),
			SanctionedLeave: dec("2"),
		},
		TotalWorkingDays: 22,
	})
	require.NoError(t, err)

	assert.True(t, out.Item.DaysWorked.Equal(dec("22")))
	assert.True(t, out.Item.GrossEarnings.Equal(dec("11000")))
	assert.True(t, out.Item.LossOfPay.IsZero())
}

func TestCompute_LoanCappedAtRemainingPrincipal(t *testing.T) {
	calc := testCalculator()

	out, err := calc.Compute(ComputeInput{
		Profile:          testProfile(),
		Structure:        testStructure("10000", "0", "0", "0", "0", "0"),
		Attendance:       fullAttendance("22"),
		TotalWorkingDays: 22,
		Loans: []loan.Loan{
			{
				ID:                "loan-1",
				Kind:              loan.KindLoan,
				Status:            loan.StatusActive,
				Principal:         dec("5000"),
				InstallmentAmount: dec("2000"),
				TotalDeducted:     dec("4000"),
			},
			{
				ID:                "adv-1",
				Kind:              loan.KindAdvance,
				Status:            loan.StatusActive,
				Principal:         dec("3000"),
				InstallmentAmount: dec("1500"),
			},
			{
				ID:                "loan-closed",
				Kind:              loan.KindLoan,
				Status:            loan.StatusClosed,
				Principal:         dec("9000"),
				InstallmentAmount: dec("1000"),
			},
		},
	})
	require.NoError(t, err)

	item := out.Item
	assert.True(t, item.Deductions.LoanDeduction.Equal(dec("1000")), "loan %s", item.Deductions.LoanDeduction)
	assert.True(t, item.Deductions.AdvanceDeduction.Equal(dec("1500")))
	require.Len(t, item.LoanApplications, 2)
	assert.Equal(t, "loan-1", item.LoanApplications[0].LoanID)
	assert.True(t, item.LoanApplications[0].Amount.Equal(dec("1000")))
}

func TestCompute_NoWorkingDays(t *testing.T) {
	calc := testCalculator()

	_, err := calc.Compute(ComputeInput{
		Profile:          testProfile(),
		Structure:        testStructure("10000", "0", "0", "0", "0", "0"),
		Attendance:       fullAttendance("0"),
		TotalWorkingDays: 0,
	})
	assert.Error(t, err)
}
