package payroll

import (
	"context"
	"time"
)

// Repository defines data access for payroll items and per-school settings.
// All methods take schoolID to prevent cross-school data access.
type Repository interface {
	// Settings
	GetSettings(ctx context.Context, schoolID string) (Settings, error)
	UpsertSettings(ctx context.Context, settings Settings) (Settings, error)
	ListAutoCreateSchools(ctx context.Context, payCycleDay int) ([]Settings, error)

	// Items
	CreateItem(ctx context.Context, item PayrollItem) (PayrollItem, error)
	GetItemByID(ctx context.Context, id, schoolID string) (PayrollItem, error)
	GetItemForEmployee(ctx context.Context, id, profileID, schoolID string) (PayrollItem, error)
	ListItemsByPeriod(ctx context.Context, periodID, schoolID string) ([]PayrollItem, error)
	DeleteItemsByPeriod(ctx context.Context, periodID, schoolID string) error
	CountUnresolved(ctx context.Context, periodID, schoolID string) (int, error)
	CountProcessed(ctx context.Context, periodID, schoolID string) (int, error)
	MarkProcessed(ctx context.Context, ids []string, schoolID string) error

	// Aggregations
	GetAttendanceSummaries(ctx context.Context, schoolID string, from, to time.Time, profileIDs []string) ([]AttendanceSummary, error)
}
