package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/domain/report"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
)

const reportCacheTTL = 300 * time.Second

// adminRoles may read any employee's payslip; everyone else only their own.
var adminRoles = map[string]bool{
	"admin":     true,
	"principal": true,
	"director":  true,
}

// Service assembles the statutory reports and payslip data for a period.
// Reports are only available once the period has left DRAFT, so the figures
// they carry are final.
type Service interface {
	PFReport(ctx context.Context, month, year int) (report.PFReport, error)
	ESIReport(ctx context.Context, month, year int) (report.ESIReport, error)
	Payslip(ctx context.Context, itemID string) (report.PayslipData, error)
}

type serviceImpl struct {
	periodRepo  period.Repository
	payrollRepo payroll.Repository
	profileRepo profile.Repository
	cache       cache.Cache
}

func NewService(
	periodRepo period.Repository,
	payrollRepo payroll.Repository,
	profileRepo profile.Repository,
	c cache.Cache,
) Service {
	return &serviceImpl{
		periodRepo:  periodRepo,
		payrollRepo: payrollRepo,
		profileRepo: profileRepo,
		cache:       c,
	}
}

func getClaimsFromContext(ctx context.Context) (schoolID, userID, role string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	schoolID, ok := claims["school_id"].(string)
	if !ok || schoolID == "" {
		return "", "", "", fmt.Errorf("school_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)
	role, _ = claims["role"].(string)

	return schoolID, userID, role, nil
}

// reportablePeriod resolves the month's period and enforces that it is
// APPROVED or PAID. Draft figures can still change under recompute, so they
// never leave the building as a statutory filing. A month with no period is
// equally not reportable.
func (s *serviceImpl) reportablePeriod(ctx context.Context, schoolID string, month, year int) (period.PayrollPeriod, error) {
	p, err := s.periodRepo.GetByMonthYear(ctx, schoolID, month, year)
	if err != nil {
		if errors.Is(err, period.ErrPeriodNotFound) {
			return period.PayrollPeriod{}, payroll.ErrPeriodNotReportable
		}
		return period.PayrollPeriod{}, err
	}
	if p.Status != period.StatusApproved && p.Status != period.StatusPaid {
		return period.PayrollPeriod{}, payroll.ErrPeriodNotReportable
	}
	return p, nil
}

func (s *serviceImpl) PFReport(ctx context.Context, month, year int) (report.PFReport, error) {
	schoolID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return report.PFReport{}, err
	}

	cacheKey := fmt.Sprintf("report:%s:pf:%d-%d", schoolID, year, month)
	var cached report.PFReport
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	p, err := s.reportablePeriod(ctx, schoolID, month, year)
	if err != nil {
		return report.PFReport{}, err
	}

	items, err := s.payrollRepo.ListItemsByPeriod(ctx, p.ID, schoolID)
	if err != nil {
		return report.PFReport{}, err
	}

	rep := BuildPFReport(p, items)
	s.cache.Set(ctx, cacheKey, rep, reportCacheTTL)

	return rep, nil
}

func (s *serviceImpl) ESIReport(ctx context.Context, month, year int) (report.ESIReport, error) {
	schoolID, _, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return report.ESIReport{}, err
	}

	cacheKey := fmt.Sprintf("report:%s:esi:%d-%d", schoolID, year, month)
	var cached report.ESIReport
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	p, err := s.reportablePeriod(ctx, schoolID, month, year)
	if err != nil {
		return report.ESIReport{}, err
	}

	items, err := s.payrollRepo.ListItemsByPeriod(ctx, p.ID, schoolID)
	if err != nil {
		return report.ESIReport{}, err
	}

	rep := BuildESIReport(p, items)
	s.cache.Set(ctx, cacheKey, rep, reportCacheTTL)

	return rep, nil
}

// Payslip assembles the data for one employee's payslip. Non-admin callers
// may only fetch their own item.
func (s *serviceImpl) Payslip(ctx context.Context, itemID string) (report.PayslipData, error) {
	schoolID, userID, role, err := getClaimsFromContext(ctx)
	if err != nil {
		return report.PayslipData{}, err
	}

	item, err := s.payrollRepo.GetItemByID(ctx, itemID, schoolID)
	if err != nil {
		return report.PayslipData{}, err
	}

	prof, err := s.profileRepo.GetByID(ctx, item.ProfileID, schoolID)
	if err != nil {
		return report.PayslipData{}, err
	}

	if !adminRoles[role] && prof.UserID != userID {
		return report.PayslipData{}, payroll.ErrNotItemOwner
	}

	p, err := s.periodRepo.GetByID(ctx, item.PeriodID, schoolID)
	if err != nil {
		return report.PayslipData{}, err
	}

	data := assemblePayslip(p, item, prof)
	if _, claims, err := jwtauth.FromContext(ctx); err == nil {
		data.SchoolName, _ = claims["school_name"].(string)
	}
	return data, nil
}

// BuildPFReport aggregates PF lines over a period's items. Employees with no
// PF wages (held or skipped items, or zero basic) carry no row; the totals
// grand total is the sum of both contribution sides.
func BuildPFReport(p period.PayrollPeriod, items []payroll.PayrollItem) report.PFReport {
	rep := report.PFReport{
		Month: p.Month,
		Year:  p.Year,
		Rows:  []report.PFRow{},
	}

	for _, item := range items {
		if !item.PFWages.IsPositive() {
			continue
		}

		row := report.PFRow{
			UAN:          strOrEmpty(item.UAN),
			EmployeeName: strOrEmpty(item.EmployeeName),
			PFWages:      item.PFWages,
			EPS:          item.Deductions.EPS,
			EPF:          item.Deductions.EPF,
			PFEmployee:   item.Deductions.PFEmployee,
			PFEmployer:   item.Deductions.PFEmployer,
			TotalPF:      item.Deductions.PFEmployee.Add(item.Deductions.PFEmployer),
		}
		rep.Rows = append(rep.Rows, row)

		rep.Totals.PFWages = rep.Totals.PFWages.Add(row.PFWages)
		rep.Totals.EPS = rep.Totals.EPS.Add(row.EPS)
		rep.Totals.EPF = rep.Totals.EPF.Add(row.EPF)
		rep.Totals.PFEmployee = rep.Totals.PFEmployee.Add(row.PFEmployee)
		rep.Totals.PFEmployer = rep.Totals.PFEmployer.Add(row.PFEmployer)
		rep.Totals.GrandTotal = rep.Totals.GrandTotal.Add(row.TotalPF)
	}

	return rep
}

// BuildESIReport splits a period's items into contributing rows and a
// non-eligible section carrying the stored threshold reason.
func BuildESIReport(p period.PayrollPeriod, items []payroll.PayrollItem) report.ESIReport {
	rep := report.ESIReport{
		Month:       p.Month,
		Year:        p.Year,
		Rows:        []report.ESIRow{},
		NonEligible: []report.NonEligible{},
	}

	for _, item := range items {
		if item.ESIReason != nil {
			rep.NonEligible = append(rep.NonEligible, report.NonEligible{
				EmployeeName:  strOrEmpty(item.EmployeeName),
				GrossEarnings: item.GrossEarnings,
				Reason:        *item.ESIReason,
			})
			continue
		}
		if !item.Deductions.ESIEmployee.IsPositive() && !item.Deductions.ESIEmployer.IsPositive() {
			continue
		}

		row := report.ESIRow{
			ESINumber:     strOrEmpty(item.ESINumber),
			EmployeeName:  strOrEmpty(item.EmployeeName),
			GrossEarnings: item.GrossEarnings,
			EmployeeShare: item.Deductions.ESIEmployee,
			EmployerShare: item.Deductions.ESIEmployer,
		}
		rep.Rows = append(rep.Rows, row)

		rep.Totals.GrossEarnings = rep.Totals.GrossEarnings.Add(row.GrossEarnings)
		rep.Totals.EmployeeShare = rep.Totals.EmployeeShare.Add(row.EmployeeShare)
		rep.Totals.EmployerShare = rep.Totals.EmployerShare.Add(row.EmployerShare)
		rep.Totals.GrandTotal = rep.Totals.GrandTotal.Add(row.EmployeeShare).Add(row.EmployerShare)
	}

	return rep
}

func assemblePayslip(p period.PayrollPeriod, item payroll.PayrollItem, prof profile.EmployeeProfile) report.PayslipData {
	earnings := []report.LabelledAmount{
		{Label: "Basic", Amount: item.Earnings.Basic},
		{Label: "HRA", Amount: item.Earnings.HRA},
		{Label: "DA", Amount: item.Earnings.DA},
		{Label: "TA", Amount: item.Earnings.TA},
		{Label: "Medical", Amount: item.Earnings.Medical},
		{Label: "Special Allowance", Amount: item.Earnings.Special},
	}
	for _, extra := range []report.LabelledAmount{
		{Label: "Incentives", Amount: item.Earnings.Incentives},
		{Label: "Arrears", Amount: item.Earnings.Arrears},
		{Label: "Overtime", Amount: item.Earnings.Overtime},
	} {
		if extra.Amount.IsPositive() {
			earnings = append(earnings, extra)
		}
	}

	deductions := []report.LabelledAmount{
		{Label: "PF (Employee)", Amount: item.Deductions.PFEmployee},
		{Label: "ESI (Employee)", Amount: item.Deductions.ESIEmployee},
		{Label: "Professional Tax", Amount: item.Deductions.ProfessionalTax},
		{Label: "TDS", Amount: item.Deductions.TDS},
	}
	for _, extra := range []report.LabelledAmount{
		{Label: "Loan Repayment", Amount: item.Deductions.LoanDeduction},
		{Label: "Salary Advance", Amount: item.Deductions.AdvanceDeduction},
	} {
		if extra.Amount.IsPositive() {
			deductions = append(deductions, extra)
		}
	}

	return report.PayslipData{
		EmployeeName: prof.EmployeeName,
		EmployeeCode: prof.EmployeeCode,
		Month:        p.Month,
		Year:         p.Year,
		DaysWorked:   item.DaysWorked,
		DaysAbsent:   item.DaysAbsent,
		Earnings:     earnings,
		Deductions:   deductions,
		Gross:        item.GrossEarnings,
		TotalDeduced: item.TotalDeductions,
		Net:          item.NetSalary,
	}
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
