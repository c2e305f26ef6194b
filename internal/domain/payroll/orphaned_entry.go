package payroll

import (
	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/shared"
)

// OrphanReason classifies how a ledger entry lost its owning salary
type OrphanReason string

const (
	// OrphanReasonCleanupFailed means the salary side committed but the
	// subsequent ledger delete failed, leaving the entry behind.
	OrphanReasonCleanupFailed OrphanReason = "cleanup_failed"
	// OrphanReasonSalaryWriteFailed means the ledger entry was created
	// but the salary insert or update that should reference it failed.
	OrphanReasonSalaryWriteFailed OrphanReason = "salary_write_failed"
)

// OrphanedLedgerEntry is an audit record for a ledger entry that no
// longer has (or never got) a corresponding salary reference due to a
// partial failure. Operators use these records for manual cleanup; the
// write is best-effort and never blocks the primary operation.
type OrphanedLedgerEntry struct {
	shared.BaseEntity
	LedgerEntryID uuid.UUID    `json:"ledger_entry_id"`
	SalaryID      *uuid.UUID   `json:"salary_id"`
	Reason        OrphanReason `json:"reason"`
	Detail        string       `json:"detail"`
	Resolved      bool         `json:"resolved"`
}

// NewOrphanedLedgerEntry records an orphaned ledger entry for later cleanup
func NewOrphanedLedgerEntry(ledgerEntryID uuid.UUID, salaryID *uuid.UUID, reason OrphanReason, detail string) *OrphanedLedgerEntry {
	return &OrphanedLedgerEntry{
		BaseEntity:    shared.NewBaseEntity(),
		LedgerEntryID: ledgerEntryID,
		SalaryID:      salaryID,
		Reason:        reason,
		Detail:        detail,
	}
}

// MarkResolved flags the orphan as manually reconciled
func (o *OrphanedLedgerEntry) MarkResolved() {
	o.Resolved = true
}
