package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/vidyadesk/school-backend-go/internal/domain/loan"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/domain/structure"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
	"github.com/vidyadesk/school-backend-go/internal/repository/postgresql"
	"github.com/vidyadesk/school-backend-go/internal/service/readiness"
)

// Service runs the payroll batch: classify every employee, calculate the
// READY ones, persist items, and report partial failures.
type Service interface {
	ComputePeriod(ctx context.Context, req payroll.ComputePeriodRequest) (payroll.ComputeResult, error)
	ListItems(ctx context.Context, periodID string) ([]payroll.ItemResponse, error)
	MarkItemsProcessed(ctx context.Context, periodID string, itemIDs []string) error

	GetSettings(ctx context.Context) (payroll.SettingsResponse, error)
	UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error)
}

type serviceImpl struct {
	db          postgresql.TxBeginner
	payrollRepo payroll.Repository
	periodRepo  period.Repository
	profileRepo profile.Repository
	structRepo  structure.Repository
	loanRepo    loan.Repository
	classifier  *readiness.Classifier
	rates       StatutoryRates
	cache       cache.Cache
}

func NewService(
	db postgresql.TxBeginner,
	payrollRepo payroll.Repository,
	periodRepo period.Repository,
	profileRepo profile.Repository,
	structRepo structure.Repository,
	loanRepo loan.Repository,
	classifier *readiness.Classifier,
	rates StatutoryRates,
	c cache.Cache,
) Service {
	return &serviceImpl{
		db:          db,
		payrollRepo: payrollRepo,
		periodRepo:  periodRepo,
		profileRepo: profileRepo,
		structRepo:  structRepo,
		loanRepo:    loanRepo,
		classifier:  classifier,
		rates:       rates,
		cache:       c,
	}
}

// Helper to get school_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (schoolID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	schoolID, ok := claims["school_id"].(string)
	if !ok || schoolID == "" {
		return "", "", fmt.Errorf("school_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return schoolID, userID, nil
}

func (s *serviceImpl) ComputePeriod(ctx context.Context, req payroll.ComputePeriodRequest) (payroll.ComputeResult, error) {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ComputeResult{}, err
	}

	p, err := s.periodRepo.GetByID(ctx, req.PeriodID, schoolID)
	if err != nil {
		return payroll.ComputeResult{}, err
	}
	if p.IsLocked {
		return payroll.ComputeResult{}, period.ErrPeriodLocked
	}
	if p.Status != period.StatusDraft {
		return payroll.ComputeResult{}, period.ErrInvalidTransition
	}

	// Recomputing a draft period replaces its pending items; processed
	// items survive and their employees are skipped by the unique index.
	if err := s.payrollRepo.DeleteItemsByPeriod(ctx, p.ID, schoolID); err != nil {
		return payroll.ComputeResult{}, fmt.Errorf("failed to clear pending items: %w", err)
	}

	profiles, err := s.profileRepo.ListBySchool(ctx, schoolID)
	if err != nil {
		return payroll.ComputeResult{}, fmt.Errorf("failed to list employee profiles: %w", err)
	}
	if len(req.ProfileIDs) > 0 {
		wanted := make(map[string]bool)
		for _, id := range req.ProfileIDs {
			wanted[id] = true
		}
		filtered := profiles[:0]
		for _, pr := range profiles {
			if wanted[pr.ID] {
				filtered = append(filtered, pr)
			}
		}
		profiles = filtered
	}

	calc := NewCalculator(s.schoolRates(ctx, schoolID), s.schoolTaxes(ctx, schoolID))

	// Bulk-load calculation inputs
	var structureIDs, profileIDs []string
	for _, pr := range profiles {
		profileIDs = append(profileIDs, pr.ID)
		if pr.SalaryStructureID != nil && *pr.SalaryStructureID != "" {
			structureIDs = append(structureIDs, *pr.SalaryStructureID)
		}
	}
	structures, err := s.structRepo.GetByIDs(ctx, structureIDs, schoolID)
	if err != nil {
		return payroll.ComputeResult{}, fmt.Errorf("failed to load salary structures: %w", err)
	}
	summaries, err := s.payrollRepo.GetAttendanceSummaries(ctx, schoolID, p.StartDate, p.EndDate, profileIDs)
	if err != nil {
		return payroll.ComputeResult{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	attendanceMap := make(map[string]payroll.AttendanceSummary)
	for _, a := range summaries {
		attendanceMap[a.ProfileID] = a
	}
	loansByProfile, err := s.loanRepo.GetActiveByProfileIDs(ctx, profileIDs, schoolID)
	if err != nil {
		return payroll.ComputeResult{}, fmt.Errorf("failed to load loans: %w", err)
	}

	result := payroll.ComputeResult{
		Processed: []payroll.ComputedItem{},
		Skipped:   []payroll.SkippedItem{},
		Errors:    []payroll.ItemError{},
	}

	for _, pr := range profiles {
		r := s.classifier.Classify(pr)
		if r != payroll.Ready {
			// Persist a flagged zero item so the validation summary and
			// the approval guard see the hold.
			held := payroll.PayrollItem{
				PeriodID:      p.ID,
				ProfileID:     pr.ID,
				SchoolID:      schoolID,
				Readiness:     r,
				PaymentStatus: payroll.PaymentPending,
			}
			if _, err := s.payrollRepo.CreateItem(ctx, held); err != nil && !errors.Is(err, payroll.ErrItemAlreadyExists) {
				result.Errors = append(result.Errors, payroll.ItemError{
					ProfileID:    pr.ID,
					EmployeeName: pr.EmployeeName,
					Error:        err.Error(),
				})
				continue
			}
			result.Skipped = append(result.Skipped, payroll.SkippedItem{
				ProfileID:    pr.ID,
				EmployeeName: pr.EmployeeName,
				Readiness:    string(r),
			})
			continue
		}

		st, ok := structures[*pr.SalaryStructureID]
		if !ok {
			result.Errors = append(result.Errors, payroll.ItemError{
				ProfileID:    pr.ID,
				EmployeeName: pr.EmployeeName,
				Error:        structure.ErrStructureNotFound.Error(),
			})
			continue
		}

		out, err := calc.Compute(ComputeInput{
			Profile:          pr,
			Structure:        st,
			Attendance:       attendanceMap[pr.ID],
			Loans:            loansByProfile[pr.ID],
			TotalWorkingDays: p.TotalWorkingDays,
		})
		if err != nil {
			result.Errors = append(result.Errors, payroll.ItemError{
				ProfileID:    pr.ID,
				EmployeeName: pr.EmployeeName,
				Error:        err.Error(),
			})
			continue
		}

		out.Item.PeriodID = p.ID
		if _, err := s.payrollRepo.CreateItem(ctx, out.Item); err != nil {
			if errors.Is(err, payroll.ErrItemAlreadyExists) {
				continue // already processed in an earlier run
			}
			result.Errors = append(result.Errors, payroll.ItemError{
				ProfileID:    pr.ID,
				EmployeeName: pr.EmployeeName,
				Error:        err.Error(),
			})
			continue
		}

		result.Processed = append(result.Processed, payroll.ComputedItem{
			ProfileID:    pr.ID,
			EmployeeName: pr.EmployeeName,
			Gross:        out.Item.GrossEarnings,
			Net:          out.Item.NetSalary,
		})
	}

	s.invalidatePeriod(ctx, schoolID, p.ID)
	return result, nil
}

func (s *serviceImpl) ListItems(ctx context.Context, periodID string) ([]payroll.ItemResponse, error) {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.payrollRepo.ListItemsByPeriod(ctx, periodID, schoolID)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.ItemResponse, 0, len(items))
	for _, i := range items {
		result = append(result, payroll.ToItemResponse(i))
	}
	return result, nil
}

func (s *serviceImpl) MarkItemsProcessed(ctx context.Context, periodID string, itemIDs []string) error {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.periodRepo.GetByID(ctx, periodID, schoolID)
	if err != nil {
		return err
	}
	if p.IsLocked {
		return period.ErrPeriodLocked
	}

	// Marking items and advancing the loan ledger commit together: the
	// ledger only ever reflects cycles that actually paid out, and a
	// mixed batch (unknown or already processed id) rolls back whole.
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.payrollRepo.MarkProcessed(txCtx, itemIDs, schoolID); err != nil {
			return err
		}
		for _, id := range itemIDs {
			item, err := s.payrollRepo.GetItemByID(txCtx, id, schoolID)
			if err != nil {
				return err
			}
			for _, app := range item.LoanApplications {
				if err := s.loanRepo.RecordDeduction(txCtx, app.LoanID, schoolID, app.Amount); err != nil {
					return fmt.Errorf("failed to record loan deduction: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidatePeriod(ctx, schoolID, periodID)
	return nil
}

// ========== SETTINGS ==========

func (s *serviceImpl) GetSettings(ctx context.Context) (payroll.SettingsResponse, error) {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	settings, err := s.payrollRepo.GetSettings(ctx, schoolID)
	if err != nil {
		if errors.Is(err, payroll.ErrSettingsNotFound) {
			return payroll.SettingsResponse{
				SchoolID:        schoolID,
				PayCycleDay:     1,
				ProfessionalTax: decimal.Zero,
			}, nil
		}
		return payroll.SettingsResponse{}, err
	}

	return toSettingsResponse(settings), nil
}

func (s *serviceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}

	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	current, err := s.payrollRepo.GetSettings(ctx, schoolID)
	if err != nil && !errors.Is(err, payroll.ErrSettingsNotFound) {
		return payroll.SettingsResponse{}, err
	}
	if errors.Is(err, payroll.ErrSettingsNotFound) {
		current = payroll.Settings{
			SchoolID:        schoolID,
			PayCycleDay:     1,
			ProfessionalTax: decimal.Zero,
		}
	}

	if req.AutoCreatePeriods != nil {
		current.AutoCreatePeriods = *req.AutoCreatePeriods
	}
	if req.PayCycleDay != nil {
		current.PayCycleDay = *req.PayCycleDay
	}
	if req.PFRateOverride != nil {
		current.PFRateOverride = req.PFRateOverride
	}
	if req.ProfessionalTax != nil {
		current.ProfessionalTax = *req.ProfessionalTax
	}

	updated, err := s.payrollRepo.UpsertSettings(ctx, current)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	return toSettingsResponse(updated), nil
}

func toSettingsResponse(s payroll.Settings) payroll.SettingsResponse {
	return payroll.SettingsResponse{
		ID:                s.ID,
		SchoolID:          s.SchoolID,
		AutoCreatePeriods: s.AutoCreatePeriods,
		PayCycleDay:       s.PayCycleDay,
		PFRateOverride:    s.PFRateOverride,
		ProfessionalTax:   s.ProfessionalTax,
	}
}

// ========== HELPERS ==========

// schoolRates applies the school's PF override, if any, to the configured
// statutory rates.
func (s *serviceImpl) schoolRates(ctx context.Context, schoolID string) StatutoryRates {
	settings, err := s.payrollRepo.GetSettings(ctx, schoolID)
	if err != nil || settings.PFRateOverride == nil {
		return s.rates
	}
	return s.rates.WithPFRate(*settings.PFRateOverride)
}

func (s *serviceImpl) schoolTaxes(ctx context.Context, schoolID string) TaxCalculator {
	settings, err := s.payrollRepo.GetSettings(ctx, schoolID)
	if err != nil {
		return FlatTaxes{ProfessionalTax: decimal.Zero}
	}
	return FlatTaxes{ProfessionalTax: settings.ProfessionalTax}
}

func (s *serviceImpl) invalidatePeriod(ctx context.Context, schoolID, periodID string) {
	_ = s.cache.DeleteByPrefix(ctx, fmt.Sprintf("period:%s:%s", schoolID, periodID))
	_ = s.cache.DeleteByPrefix(ctx, fmt.Sprintf("report:%s", schoolID))
}
