package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	domainperiod "github.com/vidyadesk/school-backend-go/internal/domain/period"
	periodservice "github.com/vidyadesk/school-backend-go/internal/service/period"
)

// PayrollJobs contains the payroll-related cron jobs.
type PayrollJobs struct {
	payrollRepo payroll.Repository
	periodSvc   periodservice.Service
}

func NewPayrollJobs(payrollRepo payroll.Repository, periodSvc periodservice.Service) *PayrollJobs {
	return &PayrollJobs{
		payrollRepo: payrollRepo,
		periodSvc:   periodSvc,
	}
}

// RegisterJobs registers all payroll-related cron jobs.
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_create_payroll_periods", 1*time.Hour, j.AutoCreatePeriods)
}

// AutoCreatePeriods creates the current month's period for every school
// whose configured pay-cycle day is today. Schools that already have the
// period are skipped, so re-runs within the same day are harmless.
func (j *PayrollJobs) AutoCreatePeriods(ctx context.Context) error {
	now := time.Now().UTC()

	schools, err := j.payrollRepo.ListAutoCreateSchools(ctx, now.Day())
	if err != nil {
		return fmt.Errorf("failed to list schools for period auto-creation: %w", err)
	}
	if len(schools) == 0 {
		return nil
	}

	slog.Info("Cron: auto-creating payroll periods", "schools", len(schools), "day", now.Day())

	created := 0
	for _, settings := range schools {
		_, err := j.periodSvc.CreateForSchool(ctx, settings.SchoolID, int(now.Month()), now.Year())
		if err != nil {
			if errors.Is(err, domainperiod.ErrPeriodExists) {
				continue
			}
			slog.Error("Cron: period auto-creation failed", "school_id", settings.SchoolID, "error", err)
			continue
		}
		created++
	}

	slog.Info("Cron: payroll period auto-creation done", "created", created, "schools", len(schools))
	return nil
}
