package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/finance"
)

// LedgerEntryModel is the persistence model for the LedgerEntry aggregate root.
type LedgerEntryModel struct {
	AggregateModel
	Title           string            `gorm:"type:varchar(200);not null"`
	Amount          decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	TransactionDate time.Time         `gorm:"not null;index"`
	Type            finance.EntryType `gorm:"type:varchar(10);not null;index"`
	Category        string            `gorm:"type:varchar(100);index"`
	Notes           string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToDomain() *finance.LedgerEntry {
	return &finance.LedgerEntry{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Amount:            m.Amount,
		TransactionDate:   m.TransactionDate,
		Type:              m.Type,
		Category:          m.Category,
		Notes:             m.Notes,
	}
}

// LedgerEntryModelFromDomain creates a persistence model from a domain LedgerEntry.
func LedgerEntryModelFromDomain(e *finance.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{
		Title:           e.Title,
		Amount:          e.Amount,
		TransactionDate: e.TransactionDate,
		Type:            e.Type,
		Category:        e.Category,
		Notes:           e.Notes,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}
