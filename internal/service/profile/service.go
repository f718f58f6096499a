package profile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/pkg/cache"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
	"github.com/vidyadesk/school-backend-go/internal/pkg/notify"
	"github.com/vidyadesk/school-backend-go/internal/repository/postgresql"
)

// Service manages employee payroll profiles and the change-approval flow.
// Employees stage edits to bank details and statutory IDs; an admin approves
// or rejects them. Canonical fields never change without an approval.
type Service interface {
	GetMine(ctx context.Context) (profile.ProfileResponse, error)
	Get(ctx context.Context, employeeID string) (profile.ProfileResponse, error)
	List(ctx context.Context) ([]profile.ProfileResponse, error)
	SubmitChange(ctx context.Context, req profile.SubmitChangeRequest) (profile.ProfileResponse, error)
	ReviewChange(ctx context.Context, req profile.ReviewChangeRequest) (profile.ProfileResponse, error)
}

type serviceImpl struct {
	db          *database.DB
	profileRepo profile.Repository
	notifier    notify.Notifier
	cache       cache.Cache
}

func NewService(db *database.DB, profileRepo profile.Repository, notifier notify.Notifier, c cache.Cache) Service {
	return &serviceImpl{
		db:          db,
		profileRepo: profileRepo,
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

func (s *serviceImpl) GetMine(ctx context.Context) (profile.ProfileResponse, error) {
	schoolID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.profileRepo.GetByUserID(ctx, userID, schoolID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	return profile.ToResponse(p), nil
}

func (s *serviceImpl) Get(ctx context.Context, employeeID string) (profile.ProfileResponse, error) {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.profileRepo.GetByID(ctx, employeeID, schoolID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	return profile.ToResponse(p), nil
}

func (s *serviceImpl) List(ctx context.Context) ([]profile.ProfileResponse, error) {
	schoolID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	profiles, err := s.profileRepo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	responses := make([]profile.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, profile.ToResponse(p))
	}

	return responses, nil
}

// SubmitChange stages a partial update on the caller's own profile. The
// change does not touch canonical fields until an admin approves it, and a
// profile with a change already pending rejects a second submission.
func (s *serviceImpl) SubmitChange(ctx context.Context, req profile.SubmitChangeRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}

	schoolID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.profileRepo.GetByUserID(ctx, userID, schoolID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	if err := p.StagePending(req.Bank, req.IDs, time.Now().UTC()); err != nil {
		return profile.ProfileResponse{}, err
	}

	updated, err := s.profileRepo.Update(ctx, p)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	if err := s.notifier.Notify(ctx, schoolID, []string{"admin", "principal", "director"},
		"Profile change submitted",
		fmt.Sprintf("%s submitted a profile change for approval.", updated.EmployeeName),
	); err != nil {
		slog.Warn("profile change notification failed", "school_id", schoolID, "error", err)
	}

	return profile.ToResponse(updated), nil
}

// ReviewChange approves or rejects a pending change. Approval copies every
// staged field onto the canonical profile and clears the pending state in a
// single transaction, so readers never observe a half-applied change.
func (s *serviceImpl) ReviewChange(ctx context.Context, req profile.ReviewChangeRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}

	schoolID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	p, err := s.profileRepo.GetByID(ctx, req.EmployeeID, schoolID)
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	switch req.Action {
	case "approve":
		if err := p.ApplyPending(); err != nil {
			return profile.ProfileResponse{}, err
		}
	case "reject":
		if err := p.RejectPending(*req.RejectionReason, time.Now().UTC()); err != nil {
			return profile.ProfileResponse{}, err
		}
	default:
		return profile.ProfileResponse{}, profile.ErrInvalidAction
	}

	var updated profile.EmployeeProfile
	err = postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		updated, err = s.profileRepo.Update(txCtx, p)
		return err
	})
	if err != nil {
		return profile.ProfileResponse{}, err
	}

	s.cache.DeleteByPrefix(ctx, fmt.Sprintf("report:%s", schoolID))

	title := "Profile change approved"
	if req.Action == "reject" {
		title = "Profile change rejected"
	}
	if err := s.notifier.Notify(ctx, schoolID, []string{"employee"},
		title,
		fmt.Sprintf("Profile change for %s was reviewed.", updated.EmployeeName),
	); err != nil {
		slog.Warn("profile review notification failed", "school_id", schoolID, "reviewer", userID, "error", err)
	}

	return profile.ToResponse(updated), nil
}
