package period

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
	"github.com/vidyadesk/school-backend-go/internal/pkg/notify"
	"github.com/vidyadesk/school-backend-go/internal/repository/postgresql"
)

const summaryCacheTTL = 120 * time.Second

// Service owns the payroll period lifecycle: creation with derived calendar
// facts, guarded updates and deletion, locking, and the summary view.
type Service interface {
	Create(ctx context.Context, req period.CreatePeriodRequest) (period.PeriodResponse, error)
	CreateForSchool(ctx context.Context, schoolID string, month, year int) (period.PayrollPeriod, error)
	Get(ctx context.Context, id string) (period.PeriodDetailResponse, error)
	List(ctx context.Context, year *int) ([]period.PeriodResponse, error)
	Update(ctx context.Context, req period.UpdatePeriodRequest) (period.PeriodResponse, error)
	Delete(ctx context.Context, id string) error
	Lock(ctx context.Context, id, reason string) error
	Unlock(ctx context.Context, id, reason string) error
}

type serviceImpl struct {
	db          *database.DB
	periodRepo  period.Repository
	payrollRepo payroll.Repository
	notifier    notify.Notifier
	cache       cache.Cache
}

func NewService(
	db *database.DB,
	periodRepo period.Repository,
	payrollRepo payroll.Repository,
	notifier notify.Notifier,
	c cache.Cache,
) Service {
	return &serviceImpl{
		db:          db,
		periodRepo:  periodRepo,
		payrollRepo: payrollRepo,
		notifier:    notifier,
		cache:       c,
	}
}

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

func (s *serviceImpl) Create(ctx context.Context, req period.CreatePeriodRequest) (period.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return period.PeriodResponse{}, err
	}

	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	created, err := s.CreateForSchool(ctx, schoolID, req.Month, req.Year)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	return toResponse(created), nil
}

// CreateForSchool is the builder proper, shared by the HTTP handler and the
// scheduled auto-creation job.
func (s *serviceImpl) CreateForSchool(ctx context.Context, schoolID string, month, year int) (period.PayrollPeriod, error) {
	facts := BuildCalendar(month, year)

	p := period.PayrollPeriod{
		SchoolID:         schoolID,
		Month:            month,
		Year:             year,
		StartDate:        facts.StartDate,
		EndDate:          facts.EndDate,
		TotalWorkingDays: facts.WorkingDays,
		Weekends:         facts.Weekends,
		Holidays:         0,
		Status:           period.StatusDraft,
	}

	created, err := s.periodRepo.Create(ctx, p)
	if err != nil {
		return period.PayrollPeriod{}, err
	}

	// Announce to school admins; delivery failure never fails creation.
	if err := s.notifier.Notify(ctx, schoolID, []string{"admin", "principal", "director"},
		"Payroll period created",
		fmt.Sprintf("Payroll period %d/%d is ready for processing.", month, year),
	); err != nil {
		slog.Warn("period creation notification failed", "school_id", schoolID, "error", err)
	}

	return created, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (period.PeriodDetailResponse, error) {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.PeriodDetailResponse{}, err
	}

	cacheKey := fmt.Sprintf("period:%s:%s:detail", schoolID, id)
	var cached period.PeriodDetailResponse
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	p, err := s.periodRepo.GetByID(ctx, id, schoolID)
	if err != nil {
		return period.PeriodDetailResponse{}, err
	}

	summary, err := s.periodRepo.GetSummary(ctx, id, schoolID)
	if err != nil {
		return period.PeriodDetailResponse{}, err
	}
	validation, err := s.periodRepo.GetValidationSummary(ctx, id, schoolID)
	if err != nil {
		return period.PeriodDetailResponse{}, err
	}

	detail := period.PeriodDetailResponse{
		PeriodResponse:    toResponse(p),
		Summary:           summary,
		ValidationSummary: validation,
	}

	if err := s.cache.Set(ctx, cacheKey, detail, summaryCacheTTL); err != nil {
		slog.Debug("period detail cache set failed", "error", err)
	}
	return detail, nil
}

func (s *serviceImpl) List(ctx context.Context, year *int) ([]period.PeriodResponse, error) {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	periods, err := s.periodRepo.List(ctx, schoolID, year)
	if err != nil {
		return nil, err
	}

	result := make([]period.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		result = append(result, toResponse(p))
	}
	return result, nil
}

func (s *serviceImpl) Update(ctx context.Context, req period.UpdatePeriodRequest) (period.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return period.PeriodResponse{}, err
	}

	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	p, err := s.periodRepo.GetByID(ctx, req.ID, schoolID)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	if p.IsLocked {
		return period.PeriodResponse{}, period.ErrPeriodLocked
	}

	if req.TotalWorkingDays != nil {
		p.TotalWorkingDays = *req.TotalWorkingDays
	}
	if req.Holidays != nil {
		p.Holidays = *req.Holidays
	}
	if req.Weekends != nil {
		p.Weekends = *req.Weekends
	}
	if req.Status != nil {
		next := period.Status(*req.Status)
		if next != p.Status {
			if !period.ValidTransition(p.Status, next) {
				return period.PeriodResponse{}, period.ErrInvalidTransition
			}
			if next == period.StatusApproved {
				unresolved, err := s.payrollRepo.CountUnresolved(ctx, p.ID, schoolID)
				if err != nil {
					return period.PeriodResponse{}, err
				}
				if unresolved > 0 {
					return period.PeriodResponse{}, period.ErrUnresolvedItems
				}
			}
			p.Status = next
		}
	}
	if req.PaidAt != nil {
		paidAt, err := time.Parse(time.RFC3339, *req.PaidAt)
		if err != nil {
			return period.PeriodResponse{}, err
		}
		p.PaidAt = &paidAt
	}

	updated, err := s.periodRepo.Update(ctx, p)
	if err != nil {
		return period.PeriodResponse{}, err
	}

	s.invalidate(ctx, schoolID, p.ID)
	return toResponse(updated), nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) error {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.periodRepo.GetByID(ctx, id, schoolID)
	if err != nil {
		return err
	}
	if p.IsLocked {
		return period.ErrPeriodLocked
	}
	if p.Status != period.StatusDraft {
		return period.ErrDeleteNonDraft
	}

	processed, err := s.payrollRepo.CountProcessed(ctx, id, schoolID)
	if err != nil {
		return err
	}
	if processed > 0 {
		return period.ErrHasProcessedItems
	}

	// Deleting the period cascades to its items.
	if err := s.periodRepo.Delete(ctx, id, schoolID); err != nil {
		return err
	}

	s.invalidate(ctx, schoolID, id)
	return nil
}

func (s *serviceImpl) Lock(ctx context.Context, id, reason string) error {
	return s.setLock(ctx, id, reason, true)
}

func (s *serviceImpl) Unlock(ctx context.Context, id, reason string) error {
	return s.setLock(ctx, id, reason, false)
}

func (s *serviceImpl) setLock(ctx context.Context, id, reason string, locked bool) error {
	if reason == "" {
		return period.ErrLockReasonRequired
	}

	schoolID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	p, err := s.periodRepo.GetByID(ctx, id, schoolID)
	if err != nil {
		return err
	}
	if !locked && !p.IsLocked {
		return period.ErrPeriodNotLocked
	}

	action := "lock"
	if !locked {
		action = "unlock"
	}

	// The lock flip and its audit row commit together.
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		if err := s.periodRepo.SetLock(txCtx, id, schoolID, locked, reason); err != nil {
			return err
		}
		return s.periodRepo.AppendAudit(txCtx, period.AuditEntry{
			ID:       uuid.NewString(),
			PeriodID: id,
			SchoolID: schoolID,
			Action:   action,
			Reason:   reason,
			ActorID:  userID,
		})
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, schoolID, id)
	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, schoolID, periodID string) {
	if err := s.cache.DeleteByPrefix(ctx, fmt.Sprintf("period:%s:%s", schoolID, periodID)); err != nil {
		slog.Debug("period cache invalidation failed", "error", err)
	}
}

func toResponse(p period.PayrollPeriod) period.PeriodResponse {
	var paidAt *string
	if p.PaidAt != nil {
		str := p.PaidAt.Format(time.RFC3339)
		paidAt = &str
	}

	return period.PeriodResponse{
		ID:               p.ID,
		SchoolID:         p.SchoolID,
		Month:            p.Month,
		Year:             p.Year,
		StartDate:        p.StartDate.Format("2006-01-02"),
		EndDate:          p.EndDate.Format("2006-01-02"),
		TotalWorkingDays: p.TotalWorkingDays,
		Weekends:         p.Weekends,
		Holidays:         p.Holidays,
		Status:           string(p.Status),
		IsLocked:         p.IsLocked,
		LockReason:       p.LockReason,
		PaidAt:           paidAt,
	}
}
