package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/vidyadesk/school-backend-go/internal/domain/payroll"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
)

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepositoryImpl{db: db}
}

const settingsColumns = `id, school_id, auto_create_periods, pay_cycle_day,
	pf_rate_override, professional_tax, created_at, updated_at`

func scanSettings(row pgx.Row) (payroll.Settings, error) {
	var s payroll.Settings
	err := row.Scan(
		&s.ID, &s.SchoolID, &s.AutoCreatePeriods, &s.PayCycleDay,
		&s.PFRateOverride, &s.ProfessionalTax, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func (r *payrollRepositoryImpl) GetSettings(ctx context.Context, schoolID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingsColumns + ` FROM payroll_settings WHERE school_id = $1`

	s, err := scanSettings(q.QueryRow(ctx, query, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Settings{}, payroll.ErrSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollRepositoryImpl) UpsertSettings(ctx context.Context, settings payroll.Settings) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	if settings.ID == "" {
		settings.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payroll_settings (id, school_id, auto_create_periods, pay_cycle_day,
			pf_rate_override, professional_tax)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (school_id) DO UPDATE
		SET auto_create_periods = EXCLUDED.auto_create_periods,
			pay_cycle_day = EXCLUDED.pay_cycle_day,
			pf_rate_override = EXCLUDED.pf_rate_override,
			professional_tax = EXCLUDED.professional_tax,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	s, err := scanSettings(q.QueryRow(ctx, query,
		settings.ID, settings.SchoolID, settings.AutoCreatePeriods, settings.PayCycleDay,
		settings.PFRateOverride, settings.ProfessionalTax,
	))
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}

	return s, nil
}

func (r *payrollRepositoryImpl) ListAutoCreateSchools(ctx context.Context, payCycleDay int) ([]payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingsColumns + ` FROM payroll_settings
		WHERE auto_create_periods = TRUE AND pay_cycle_day = $1`

	rows, err := q.Query(ctx, query, payCycleDay)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-create schools: %w", err)
	}
	defer rows.Close()

	settings := make([]payroll.Settings, 0)
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll settings: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll settings: %w", err)
	}

	return settings, nil
}

const itemColumns = `i.id, i.period_id, i.profile_id, i.school_id, i.readiness,
	i.days_worked, i.days_absent,
	i.basic, i.hra, i.da, i.ta, i.medical, i.special, i.incentives, i.arrears, i.overtime,
	i.pf_employee, i.pf_employer, i.eps, i.epf, i.esi_employee, i.esi_employer,
	i.professional_tax, i.tds, i.loan_deduction, i.advance_deduction,
	i.pf_wages, i.gross_earnings, i.loss_of_pay, i.total_deductions, i.net_salary,
	i.esi_reason, i.loan_applications, i.payment_status, i.created_at, i.updated_at,
	p.employee_name, p.employee_code, p.uan, p.esi_number`

const itemJoin = ` FROM payroll_items i
	LEFT JOIN employee_profiles p ON p.id = i.profile_id`

func scanItem(row pgx.Row) (payroll.PayrollItem, error) {
	var i payroll.PayrollItem
	var loanAppsJSON []byte
	err := row.Scan(
		&i.ID, &i.PeriodID, &i.ProfileID, &i.SchoolID, &i.Readiness,
		&i.DaysWorked, &i.DaysAbsent,
		&i.Earnings.Basic, &i.Earnings.HRA, &i.Earnings.DA, &i.Earnings.TA,
		&i.Earnings.Medical, &i.Earnings.Special, &i.Earnings.Incentives,
		&i.Earnings.Arrears, &i.Earnings.Overtime,
		&i.Deductions.PFEmployee, &i.Deductions.PFEmployer, &i.Deductions.EPS, &i.Deductions.EPF,
		&i.Deductions.ESIEmployee, &i.Deductions.ESIEmployer,
		&i.Deductions.ProfessionalTax, &i.Deductions.TDS,
		&i.Deductions.LoanDeduction, &i.Deductions.AdvanceDeduction,
		&i.PFWages, &i.GrossEarnings, &i.LossOfPay, &i.TotalDeductions, &i.NetSalary,
		&i.ESIReason, &loanAppsJSON, &i.PaymentStatus, &i.CreatedAt, &i.UpdatedAt,
		&i.EmployeeName, &i.EmployeeCode, &i.UAN, &i.ESINumber,
	)
	if err != nil {
		return i, err
	}
	if loanAppsJSON != nil {
		if err := json.Unmarshal(loanAppsJSON, &i.LoanApplications); err != nil {
			return i, fmt.Errorf("failed to decode loan applications: %w", err)
		}
	}
	return i, nil
}

func (r *payrollRepositoryImpl) CreateItem(ctx context.Context, item payroll.PayrollItem) (payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	query := `
		INSERT INTO payroll_items (id, period_id, profile_id, school_id, readiness,
			days_worked, days_absent,
			basic, hra, da, ta, medical, special, incentives, arrears, overtime,
			pf_employee, pf_employer, eps, epf, esi_employee, esi_employer,
			professional_tax, tds, loan_deduction, advance_deduction,
			pf_wages, gross_earnings, loss_of_pay, total_deductions, net_salary,
			esi_reason, loan_applications, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34)
		RETURNING id`

	var loanAppsJSON []byte
	if len(item.LoanApplications) > 0 {
		var err error
		if loanAppsJSON, err = json.Marshal(item.LoanApplications); err != nil {
			return payroll.PayrollItem{}, fmt.Errorf("failed to encode loan applications: %w", err)
		}
	}

	err := q.QueryRow(ctx, query,
		item.ID, item.PeriodID, item.ProfileID, item.SchoolID, item.Readiness,
		item.DaysWorked, item.DaysAbsent,
		item.Earnings.Basic, item.Earnings.HRA, item.Earnings.DA, item.Earnings.TA,
		item.Earnings.Medical, item.Earnings.Special, item.Earnings.Incentives,
		item.Earnings.Arrears, item.Earnings.Overtime,
		item.Deductions.PFEmployee, item.Deductions.PFEmployer, item.Deductions.EPS, item.Deductions.EPF,
		item.Deductions.ESIEmployee, item.Deductions.ESIEmployer,
		item.Deductions.ProfessionalTax, item.Deductions.TDS,
		item.Deductions.LoanDeduction, item.Deductions.AdvanceDeduction,
		item.PFWages, item.GrossEarnings, item.LossOfPay, item.TotalDeductions, item.NetSalary,
		item.ESIReason, loanAppsJSON, item.PaymentStatus,
	).Scan(&item.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return payroll.PayrollItem{}, payroll.ErrItemAlreadyExists
		}
		return payroll.PayrollItem{}, fmt.Errorf("failed to create payroll item: %w", err)
	}

	return item, nil
}

func (r *payrollRepositoryImpl) GetItemByID(ctx context.Context, id, schoolID string) (payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + itemColumns + itemJoin + ` WHERE i.id = $1 AND i.school_id = $2`

	item, err := scanItem(q.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollItem{}, payroll.ErrItemNotFound
		}
		return payroll.PayrollItem{}, fmt.Errorf("failed to get payroll item: %w", err)
	}

	return item, nil
}

func (r *payrollRepositoryImpl) GetItemForEmployee(ctx context.Context, id, profileID, schoolID string) (payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + itemColumns + itemJoin + ` WHERE i.id = $1 AND i.profile_id = $2 AND i.school_id = $3`

	item, err := scanItem(q.QueryRow(ctx, query, id, profileID, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollItem{}, payroll.ErrItemNotFound
		}
		return payroll.PayrollItem{}, fmt.Errorf("failed to get payroll item: %w", err)
	}

	return item, nil
}

func (r *payrollRepositoryImpl) ListItemsByPeriod(ctx context.Context, periodID, schoolID string) ([]payroll.PayrollItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + itemColumns + itemJoin + `
		WHERE i.period_id = $1 AND i.school_id = $2
		ORDER BY p.employee_name`

	rows, err := q.Query(ctx, query, periodID, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll items: %w", err)
	}
	defer rows.Close()

	items := make([]payroll.PayrollItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payroll items: %w", err)
	}

	return items, nil
}

// DeleteItemsByPeriod removes only pending items; processed ones are part of
// the payment record and survive a recompute.
func (r *payrollRepositoryImpl) DeleteItemsByPeriod(ctx context.Context, periodID, schoolID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`DELETE FROM payroll_items WHERE period_id = $1 AND school_id = $2 AND payment_status = 'PENDING'`,
		periodID, schoolID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete payroll items: %w", err)
	}

	return nil
}

func (r *payrollRepositoryImpl) CountUnresolved(ctx context.Context, periodID, schoolID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM payroll_items WHERE period_id = $1 AND school_id = $2 AND readiness <> 'READY'`,
		periodID, schoolID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unresolved items: %w", err)
	}

	return count, nil
}

func (r *payrollRepositoryImpl) CountProcessed(ctx context.Context, periodID, schoolID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM payroll_items WHERE period_id = $1 AND school_id = $2 AND payment_status = 'PROCESSED'`,
		periodID, schoolID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count processed items: %w", err)
	}

	return count, nil
}

// MarkProcessed flips pending items to PROCESSED. A count mismatch (unknown
// id, or one already processed) is reported as an error; callers run this
// inside a transaction so the partial update never commits.
func (r *payrollRepositoryImpl) MarkProcessed(ctx context.Context, ids []string, schoolID string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx,
		`UPDATE payroll_items SET payment_status = 'PROCESSED', updated_at = NOW()
		 WHERE id = ANY($1) AND school_id = $2 AND payment_status = 'PENDING'`,
		ids, schoolID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark items processed: %w", err)
	}
	if int(commandTag.RowsAffected()) != len(ids) {
		return payroll.ErrItemNotFound
	}

	return nil
}

// GetAttendanceSummaries aggregates per-employee attendance over the period
// date range. Sanctioned leave counts as paid time.
func (r *payrollRepositoryImpl) GetAttendanceSummaries(ctx context.Context, schoolID string, from, to time.Time, profileIDs []string) ([]payroll.AttendanceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT profile_id,
			   COALESCE(SUM(CASE WHEN status = 'PRESENT' THEN day_fraction ELSE 0 END), 0),
			   COALESCE(SUM(CASE WHEN status = 'SANCTIONED_LEAVE' THEN day_fraction ELSE 0 END), 0)
		FROM attendance_records
		WHERE school_id = $1 AND date BETWEEN $2 AND $3 AND profile_id = ANY($4)
		GROUP BY profile_id`

	rows, err := q.Query(ctx, query, schoolID, from, to, profileIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance summaries: %w", err)
	}
	defer rows.Close()

	summaries := make([]payroll.AttendanceSummary, 0)
	for rows.Next() {
		var s payroll.AttendanceSummary
		if err := rows.Scan(&s.ProfileID, &s.DaysPresent, &s.SanctionedLeave); err != nil {
			return nil, fmt.Errorf("failed to scan attendance summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance summaries: %w", err)
	}

	return summaries, nil
}
