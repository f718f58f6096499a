package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vidyadesk/school-backend-go/internal/domain/profile"
	"github.com/vidyadesk/school-backend-go/internal/pkg/database"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.Repository {
	return &profileRepositoryImpl{db: db}
}

const profileColumns = `id, school_id, user_id, employee_name, employee_code, joining_date,
	bank_account_number, bank_ifsc_code, bank_name, bank_account_holder,
	pan, uan, esi_number, tax_regime, salary_structure_id,
	change_kind, bank_patch, id_patch, change_submitted_at, change_rejected_at, rejection_reason,
	created_at, updated_at`

func scanProfile(row pgx.Row) (profile.EmployeeProfile, error) {
	var p profile.EmployeeProfile
	var bankPatchJSON, idPatchJSON []byte

	err := row.Scan(
		&p.ID, &p.SchoolID, &p.UserID, &p.EmployeeName, &p.EmployeeCode, &p.JoiningDate,
		&p.Bank.AccountNumber, &p.Bank.IFSCCode, &p.Bank.BankName, &p.Bank.AccountHolder,
		&p.Statutory.PAN, &p.Statutory.UAN, &p.Statutory.ESINumber, &p.TaxRegime, &p.SalaryStructureID,
		&p.ChangeState.Kind, &bankPatchJSON, &idPatchJSON,
		&p.ChangeState.SubmittedAt, &p.ChangeState.RejectedAt, &p.ChangeState.RejectionReason,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return profile.EmployeeProfile{}, err
	}

	if bankPatchJSON != nil {
		var patch profile.BankPatch
		if err := json.Unmarshal(bankPatchJSON, &patch); err != nil {
			return profile.EmployeeProfile{}, fmt.Errorf("failed to decode bank patch: %w", err)
		}
		p.ChangeState.BankPatch = &patch
	}
	if idPatchJSON != nil {
		var patch profile.IDPatch
		if err := json.Unmarshal(idPatchJSON, &patch); err != nil {
			return profile.EmployeeProfile{}, fmt.Errorf("failed to decode id patch: %w", err)
		}
		p.ChangeState.IDPatch = &patch
	}

	return p, nil
}

func (r *profileRepositoryImpl) GetByID(ctx context.Context, id, schoolID string) (profile.EmployeeProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + ` FROM employee_profiles WHERE id = $1 AND school_id = $2`

	p, err := scanProfile(q.QueryRow(ctx, query, id, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.EmployeeProfile{}, profile.ErrProfileNotFound
		}
		return profile.EmployeeProfile{}, fmt.Errorf("failed to get employee profile: %w", err)
	}

	return p, nil
}

func (r *profileRepositoryImpl) GetByUserID(ctx context.Context, userID, schoolID string) (profile.EmployeeProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + ` FROM employee_profiles WHERE user_id = $1 AND school_id = $2`

	p, err := scanProfile(q.QueryRow(ctx, query, userID, schoolID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.EmployeeProfile{}, profile.ErrProfileNotFound
		}
		return profile.EmployeeProfile{}, fmt.Errorf("failed to get employee profile: %w", err)
	}

	return p, nil
}

func (r *profileRepositoryImpl) ListBySchool(ctx context.Context, schoolID string) ([]profile.EmployeeProfile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + ` FROM employee_profiles WHERE school_id = $1 ORDER BY employee_name`

	rows, err := q.Query(ctx, query, schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]profile.EmployeeProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employee profiles: %w", err)
	}

	return profiles, nil
}

// Update persists canonical fields and change state in one statement, so an
// approval that clears the pending patches can never leave them behind.
func (r *profileRepositoryImpl) Update(ctx context.Context, p profile.EmployeeProfile) (profile.EmployeeProfile, error) {
	q := GetQuerier(ctx, r.db)

	var bankPatchJSON, idPatchJSON []byte
	var err error
	if p.ChangeState.BankPatch != nil {
		if bankPatchJSON, err = json.Marshal(p.ChangeState.BankPatch); err != nil {
			return profile.EmployeeProfile{}, fmt.Errorf("failed to encode bank patch: %w", err)
		}
	}
	if p.ChangeState.IDPatch != nil {
		if idPatchJSON, err = json.Marshal(p.ChangeState.IDPatch); err != nil {
			return profile.EmployeeProfile{}, fmt.Errorf("failed to encode id patch: %w", err)
		}
	}

	query := `
		UPDATE employee_profiles
		SET bank_account_number = $3, bank_ifsc_code = $4, bank_name = $5, bank_account_holder = $6,
			pan = $7, uan = $8, esi_number = $9, tax_regime = $10, salary_structure_id = $11,
			change_kind = $12, bank_patch = $13, id_patch = $14,
			change_submitted_at = $15, change_rejected_at = $16, rejection_reason = $17,
			updated_at = NOW()
		WHERE id = $1 AND school_id = $2
		RETURNING ` + profileColumns

	updated, err := scanProfile(q.QueryRow(ctx, query,
		p.ID, p.SchoolID,
		p.Bank.AccountNumber, p.Bank.IFSCCode, p.Bank.BankName, p.Bank.AccountHolder,
		p.Statutory.PAN, p.Statutory.UAN, p.Statutory.ESINumber, p.TaxRegime, p.SalaryStructureID,
		p.ChangeState.Kind, bankPatchJSON, idPatchJSON,
		p.ChangeState.SubmittedAt, p.ChangeState.RejectedAt, p.ChangeState.RejectionReason,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.EmployeeProfile{}, profile.ErrProfileNotFound
		}
		return profile.EmployeeProfile{}, fmt.Errorf("failed to update employee profile: %w", err)
	}

	return updated, nil
}
