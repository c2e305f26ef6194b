package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/shared"
)

// LedgerEntryFilter defines filtering options for ledger entry queries
type LedgerEntryFilter struct {
	shared.Filter
	Type     *EntryType
	Category string
	FromDate *time.Time
	ToDate   *time.Time
}

// LedgerTotals holds aggregate figures over a set of ledger entries
type LedgerTotals struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	EntryCount   int64           `json:"entry_count"`
}

// MonthlyLedgerTotals holds aggregate figures for one calendar month
type MonthlyLedgerTotals struct {
	Month        string          `json:"month"` // YYYY-MM
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	NetAmount    decimal.Decimal `json:"net_amount"`
	EntryCount   int64           `json:"entry_count"`
}

// LedgerEntryRepository defines persistence operations for ledger entries.
//
// CreateBatch must persist and return entries in request order with their
// generated IDs back-filled; salary reconciliation pairs batch-created
// entries to their source salaries by index and depends on this contract.
type LedgerEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)
	FindAll(ctx context.Context, filter LedgerEntryFilter) ([]LedgerEntry, error)
	Count(ctx context.Context, filter LedgerEntryFilter) (int64, error)
	Create(ctx context.Context, entry *LedgerEntry) error
	CreateBatch(ctx context.Context, entries []*LedgerEntry) error
	Save(ctx context.Context, entry *LedgerEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
	Totals(ctx context.Context, from, to *time.Time) (*LedgerTotals, error)
	MonthlyTotals(ctx context.Context, months int) ([]MonthlyLedgerTotals, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}
