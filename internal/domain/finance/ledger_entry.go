package finance

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/domain/shared/valueobject"
)

// EntryType represents the direction of a ledger entry
type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// IsValid checks if the type is a valid EntryType
func (t EntryType) IsValid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// CategoryPayroll is the fixed category for ledger entries produced by
// salary reconciliation. Entries in this category are owned by exactly one
// salary record; all other categories are free text.
const CategoryPayroll = "employee payroll"

// LedgerEntry represents one bookkeeping transaction in the general
// finance log. It is an aggregate root: entries created as a side effect
// of payroll are created and deleted only through the salary workflow,
// while stand-alone entries are managed directly by operators.
type LedgerEntry struct {
	shared.BaseAggregateRoot
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Type            EntryType       `json:"type"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes"`
}

// NewLedgerEntry creates a new ledger entry
func NewLedgerEntry(
	title string,
	amount valueobject.Money,
	transactionDate time.Time,
	entryType EntryType,
	category string,
	notes string,
) (*LedgerEntry, error) {
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Entry type must be income or expense")
	}
	if transactionDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}

	return &LedgerEntry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Title:             title,
		Amount:            amount.Amount(),
		TransactionDate:   transactionDate,
		Type:              entryType,
		Category:          category,
		Notes:             notes,
	}, nil
}

// Update replaces the entry's mutable fields
func (e *LedgerEntry) Update(
	title string,
	amount valueobject.Money,
	transactionDate time.Time,
	entryType EntryType,
	category string,
	notes string,
) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if !entryType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Entry type must be income or expense")
	}
	if transactionDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}

	e.Title = title
	e.Amount = amount.Amount()
	e.TransactionDate = transactionDate
	e.Type = entryType
	e.Category = category
	e.Notes = notes
	e.Touch()
	return nil
}

// SyncFromSalary updates the amount and transaction date to match the
// owning salary record. Used when a paid salary's amount or pay date is
// edited so the ledger entry stays consistent with its source.
func (e *LedgerEntry) SyncFromSalary(amount valueobject.Money, payDate time.Time) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	e.Amount = amount.Amount()
	e.TransactionDate = payDate
	e.Touch()
	return nil
}

// IsPayroll returns true if the entry was produced by salary reconciliation
func (e *LedgerEntry) IsPayroll() bool {
	return e.Category == CategoryPayroll
}

// GetAmountMoney returns amount as Money
func (e *LedgerEntry) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyTHB(e.Amount)
}
