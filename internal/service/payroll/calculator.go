package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vidyadesk/school-backend-go/internal/domain/loan"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/domain/structure"
)

// Adjustments are the one-off additions to a single payroll line.
type Adjustments struct {
	Incentives decimal.Decimal
	Arrears    decimal.Decimal
	Overtime   decimal.Decimal
}

// ComputeInput bundles everything the calculator needs for one employee.
type ComputeInput struct {
	Profile          profile.EmployeeProfile
	Structure        structure.SalaryStructure
	Attendance       payroll.AttendanceSummary
	Loans            []loan.Loan
	Adjustments      Adjustments
	TotalWorkingDays int
}

// ComputeOutput is a fully calculated payroll line. The caller assigns IDs
// and persists. Loan ledger effects ride on Item.LoanApplications and are
// only applied when the item is marked PROCESSED.
type ComputeOutput struct {
	Item payroll.PayrollItem
}

// Calculator turns a salary structure, attendance and statutory rates into
// one payroll item. Pure arithmetic; all persistence stays with the caller.
type Calculator struct {
	rates StatutoryRates
	taxes TaxCalculator
}

func NewCalculator(rates StatutoryRates, taxes TaxCalculator) *Calculator {
	return &Calculator{rates: rates, taxes: taxes}
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Compute runs the full earnings/deduction pipeline for one employee.
//
// Days absent without sanctioned leave reduce pay through proration: every
// earning component is scaled by daysWorked/totalWorkingDays, so the gross
// already excludes the lost days. LossOfPay records the excluded amount for
// payslip display; adding it to deductions as well would charge the absence
// twice, so total deductions carry only the real outflows.
func (c *Calculator) Compute(in ComputeInput) (ComputeOutput, error) {
	if in.TotalWorkingDays <= 0 {
		return ComputeOutput{}, fmt.Errorf("period has no working days")
	}

	totalDays := decimal.NewFromInt(int64(in.TotalWorkingDays))
	daysWorked := in.Attendance.DaysPresent.Add(in.Attendance.SanctionedLeave)
	if daysWorked.GreaterThan(totalDays) {
		daysWorked = totalDays
	}
	if daysWorked.IsNegative() {
		return ComputeOutput{}, fmt.Errorf("negative attendance for profile %s", in.Profile.ID)
	}
	daysAbsent := totalDays.Sub(daysWorked)

	factor := daysWorked.Div(totalDays)
	s := in.Structure

	earnings := payroll.Earnings{
		Basic:      round2(s.Basic.Mul(factor)),
		HRA:        round2(s.HRA.Mul(factor)),
		DA:         round2(s.DA.Mul(factor)),
		TA:         round2(s.TA.Mul(factor)),
		Medical:    round2(s.Medical.Mul(factor)),
		Special:    round2(s.Special.Mul(factor)),
		Incentives: round2(in.Adjustments.Incentives),
		Arrears:    round2(in.Adjustments.Arrears),
		Overtime:   round2(in.Adjustments.Overtime),
	}

	earnedComponents := earnings.Basic.
		Add(earnings.HRA).
		Add(earnings.DA).
		Add(earnings.TA).
		Add(earnings.Medical).
		Add(earnings.Special)
	gross := earnedComponents.
		Add(earnings.Incentives).
		Add(earnings.Arrears).
		Add(earnings.Overtime)

	lossOfPay := round2(s.ComponentSum().Sub(earnedComponents))
	if lossOfPay.IsNegative() {
		lossOfPay = decimal.Zero
	}

	// PF on earned basic, capped at the statutory wage ceiling
	pfWages := earnings.Basic
	if pfWages.GreaterThan(c.rates.PFWageCeiling) {
		pfWages = c.rates.PFWageCeiling
	}
	pfEmployee := round2(pfWages.Mul(c.rates.PFRate))
	pfEmployer := round2(pfWages.Mul(c.rates.PFRate))

	// Employer PF splits into pension (EPS, capped) and provident fund (EPF)
	eps := round2(pfWages.Mul(c.rates.EPSRate))
	if eps.GreaterThan(c.rates.EPSCap) {
		eps = c.rates.EPSCap
	}
	if eps.GreaterThan(pfEmployer) {
		eps = pfEmployer
	}
	epf := pfEmployer.Sub(eps)

	// ESI is evaluated against the earned gross, threshold inclusive
	var esiEmployee, esiEmployer decimal.Decimal
	var esiReason *string
	if gross.LessThanOrEqual(c.rates.ESIGrossThreshold) {
		esiEmployee = round2(gross.Mul(c.rates.ESIEmployeeRate))
		esiEmployer = round2(gross.Mul(c.rates.ESIEmployerRate))
	} else {
		reason := c.rates.ESIIneligibleReason(gross)
		esiReason = &reason
	}

	professionalTax, tds := c.taxes.Compute(gross, in.Profile.TaxRegime)
	professionalTax = round2(professionalTax)
	tds = round2(tds)

	loanDeduction := decimal.Zero
	advanceDeduction := decimal.Zero
	var applications []payroll.LoanApplication
	for _, l := range in.Loans {
		amount := round2(l.CycleDeduction())
		if amount.IsZero() {
			continue
		}
		if l.Kind == loan.KindAdvance {
			advanceDeduction = advanceDeduction.Add(amount)
		} else {
			loanDeduction = loanDeduction.Add(amount)
		}
		applications = append(applications, payroll.LoanApplication{LoanID: l.ID, Amount: amount})
	}

	totalDeductions := pfEmployee.
		Add(esiEmployee).
		Add(professionalTax).
		Add(tds).
		Add(loanDeduction).
		Add(advanceDeduction)
	netSalary := gross.Sub(totalDeductions)

	item := payroll.PayrollItem{
		ProfileID:  in.Profile.ID,
		SchoolID:   in.Profile.SchoolID,
		Readiness:  payroll.Ready,
		DaysWorked: daysWorked,
		DaysAbsent: daysAbsent,
		Earnings:   earnings,
		Deductions: payroll.Deductions{
			PFEmployee:       pfEmployee,
			PFEmployer:       pfEmployer,
			EPS:              eps,
			EPF:              epf,
			ESIEmployee:      esiEmployee,
			ESIEmployer:      esiEmployer,
			ProfessionalTax:  professionalTax,
			TDS:              tds,
			LoanDeduction:    loanDeduction,
			AdvanceDeduction: advanceDeduction,
		},
		PFWages:          pfWages,
		GrossEarnings:    gross,
		LossOfPay:        lossOfPay,
		TotalDeductions:  totalDeductions,
		NetSalary:        netSalary,
		ESIReason:        esiReason,
		LoanApplications: applications,
		PaymentStatus:    payroll.PaymentPending,
	}

	return ComputeOutput{Item: item}, nil
}
