package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/shared"
)

// SalaryRecordFilter defines filtering options for salary record queries
type SalaryRecordFilter struct {
	shared.Filter
	EmployeeID *uuid.UUID
	Status     *SalaryStatus
}

// SalaryRecordRepository defines persistence operations for salary records.
//
// CreateBatch must persist records in request order with generated IDs
// back-filled. SaveWithLock performs an optimistic-locking update and
// returns shared.ErrConcurrencyConflict on a stale write.
type SalaryRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryRecord, error)
	FindAll(ctx context.Context, filter SalaryRecordFilter) ([]SalaryRecord, error)
	FindAllWithEmployee(ctx context.Context, filter SalaryRecordFilter) ([]SalaryWithEmployee, error)
	Count(ctx context.Context, filter SalaryRecordFilter) (int64, error)
	Create(ctx context.Context, record *SalaryRecord) error
	CreateBatch(ctx context.Context, records []*SalaryRecord) error
	Save(ctx context.Context, record *SalaryRecord) error
	SaveWithLock(ctx context.Context, record *SalaryRecord) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrphanedLedgerEntryRepository persists reconciliation audit records
type OrphanedLedgerEntryRepository interface {
	Create(ctx context.Context, orphan *OrphanedLedgerEntry) error
	FindUnresolved(ctx context.Context) ([]OrphanedLedgerEntry, error)
	Save(ctx context.Context, orphan *OrphanedLedgerEntry) error
}
