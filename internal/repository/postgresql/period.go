package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vidyadesk/school-backend-go/internal/domain/period"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
)

type periodRepositoryImpl struct {
	db *database.DB
}

func NewPeriodRepository(db *database.DB) period.Repository {
	return &periodRepositoryImpl{db: db}
}

const periodColumns = `id, school_id, month, year, start_date, end_date,
	total_working_days, weekends, holidays, status, is_locked, lock_reason,
	paid_at, created_at, updated_at`

func scanPeriod(row pgx.Row) (period.PayrollPeriod, error) {
	var p period.PayrollPeriod
	err := row.Scan(
		&p.ID, &p.SchoolID, &p.Month, &p.Year, &p.StartDate, &p.EndDate,
		&p.TotalWorkingDays, &p.Weekends, &p.Holidays, &p.Status, &p.IsLocked, &p.LockReason,
		&p.PaidAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *periodRepositoryImpl) Create(ctx context.Context, p period.PayrollPeriod) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payroll_periods (id, school_id, month, year, start_date, end_date,
			total_working_days, weekends, holidays, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + periodColumns

	created, err := scanPeriod(q.QueryRow(ctx, query,
		p.ID, p.SchoolID, p.Month, p.Year, p.StartDate, p.EndDate,
		p.TotalWorkingDays, p.Weekends, p.Holidays, p.Status,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return period.PayrollPeriod{}, period.ErrPeriodExists
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return created, nil
}

func (r *periodRepositoryImpl) GetByID(ctx context.Context, id, schoolID string) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1 AND school_id = $2`

	p, err := scanPeriod(q.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.PayrollPeriod{}, period.ErrPeriodNotFound
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *periodRepositoryImpl) GetByMonthYear(ctx context.Context, schoolID string, month, year int) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE school_id = $1 AND month = $2 AND year = $3`

	p, err := scanPeriod(q.QueryRow(ctx, query, schoolID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.PayrollPeriod{}, period.ErrPeriodNotFound
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *periodRepositoryImpl) List(ctx context.Context, schoolID string, year *int) ([]period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE school_id = $1`
	args := []interface{}{schoolID}
	if year != nil {
		query += ` AND year = $2`
		args = append(args, *year)
	}
	query += ` ORDER BY year DESC, month DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	periods := make([]period.PayrollPeriod, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll periods: %w", err)
	}

	return periods, nil
}

func (r *periodRepositoryImpl) Update(ctx context.Context, p period.PayrollPeriod) (period.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET total_working_days = $3, weekends = $4, holidays = $5, status = $6,
			paid_at = $7, updated_at = NOW()
		WHERE id = $1 AND school_id = $2
		RETURNING ` + periodColumns

	updated, err := scanPeriod(q.QueryRow(ctx, query,
		p.ID, p.SchoolID, p.TotalWorkingDays, p.Weekends, p.Holidays, p.Status, p.PaidAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return period.PayrollPeriod{}, period.ErrPeriodNotFound
		}
		return period.PayrollPeriod{}, fmt.Errorf("failed to update payroll period: %w", err)
	}

	return updated, nil
}

func (r *periodRepositoryImpl) Delete(ctx context.Context, id, schoolID string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM payroll_periods WHERE id = $1 AND school_id = $2`, id, schoolID)
	if err != nil {
		return fmt.Errorf("failed to delete payroll period: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return period.ErrPeriodNotFound
	}

	return nil
}

func (r *periodRepositoryImpl) SetLock(ctx context.Context, id, schoolID string, locked bool, reason string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET is_locked = $3, lock_reason = $4, updated_at = NOW()
		WHERE id = $1 AND school_id = $2`

	var lockReason *string
	if locked {
		lockReason = &reason
	}

	commandTag, err := q.Exec(ctx, query, id, schoolID, locked, lockReason)
	if err != nil {
		return fmt.Errorf("failed to set period lock: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return period.ErrPeriodNotFound
	}

	return nil
}

func (r *periodRepositoryImpl) AppendAudit(ctx context.Context, entry period.AuditEntry) error {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	query := `
		INSERT INTO period_audit_log (id, period_id, school_id, action, reason, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := q.Exec(ctx, query,
		entry.ID, entry.PeriodID, entry.SchoolID, entry.Action, entry.Reason, entry.ActorID,
	); err != nil {
		return fmt.Errorf("failed to append period audit entry: %w", err)
	}

	return nil
}

func (r *periodRepositoryImpl) GetSummary(ctx context.Context, periodID, schoolID string) (period.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(gross_earnings), 0),
			   COALESCE(SUM(total_deductions), 0),
			   COALESCE(SUM(net_salary), 0),
			   COUNT(*) FILTER (WHERE payment_status = 'PENDING'),
			   COUNT(*) FILTER (WHERE payment_status = 'PROCESSED')
		FROM payroll_items
		WHERE period_id = $1 AND school_id = $2`

	var s period.Summary
	err := q.QueryRow(ctx, query, periodID, schoolID).Scan(
		&s.TotalGross, &s.TotalDeductions, &s.TotalNet, &s.PendingCount, &s.ProcessedCount,
	)
	if err != nil {
		return period.Summary{}, fmt.Errorf("failed to get period summary: %w", err)
	}

	return s, nil
}

func (r *periodRepositoryImpl) GetValidationSummary(ctx context.Context, periodID, schoolID string) (period.ValidationSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FILTER (WHERE readiness = 'READY'),
			   COUNT(*) FILTER (WHERE readiness = 'ON_HOLD_BANK'),
			   COUNT(*) FILTER (WHERE readiness = 'ON_HOLD_APPROVAL'),
			   COUNT(*) FILTER (WHERE readiness = 'SKIPPED_NO_STRUCTURE')
		FROM payroll_items
		WHERE period_id = $1 AND school_id = $2`

	var vs period.ValidationSummary
	err := q.QueryRow(ctx, query, periodID, schoolID).Scan(
		&vs.Ready, &vs.OnHoldBank, &vs.OnHoldApproval, &vs.SkippedNoStructure,
	)
	if err != nil {
		return period.ValidationSummary{}, fmt.Errorf("failed to get validation summary: %w", err)
	}

	return vs, nil
}
