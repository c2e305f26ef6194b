package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/payroll"
)

// SalaryRecordModel is the persistence model for the SalaryRecord aggregate root.
type SalaryRecordModel struct {
	AggregateModel
	EmployeeID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	PayDate       time.Time            `gorm:"not null;index"`
	PeriodStart   time.Time            `gorm:"not null"`
	PeriodEnd     time.Time            `gorm:"not null"`
	Notes         string               `gorm:"type:text"`
	Status        payroll.SalaryStatus `gorm:"type:varchar(10);not null;index"`
	LedgerEntryID *uuid.UUID           `gorm:"type:uuid;uniqueIndex"`
}

// TableName returns the table name for GORM
func (SalaryRecordModel) TableName() string {
	return "salary_records"
}

// ToDomain converts the persistence model to a domain SalaryRecord entity.
func (m *SalaryRecordModel) ToDomain() *payroll.SalaryRecord {
	return &payroll.SalaryRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		EmployeeID:        m.EmployeeID,
		Amount:            m.Amount,
		PayDate:           m.PayDate,
		PeriodStart:       m.PeriodStart,
		PeriodEnd:         m.PeriodEnd,
		Notes:             m.Notes,
		Status:            m.Status,
		LedgerEntryID:     m.LedgerEntryID,
	}
}

// SalaryRecordModelFromDomain creates a persistence model from a domain SalaryRecord.
func SalaryRecordModelFromDomain(s *payroll.SalaryRecord) *SalaryRecordModel {
	m := &SalaryRecordModel{
		EmployeeID:    s.EmployeeID,
		Amount:        s.Amount,
		PayDate:       s.PayDate,
		PeriodStart:   s.PeriodStart,
		PeriodEnd:     s.PeriodEnd,
		Notes:         s.Notes,
		Status:        s.Status,
		LedgerEntryID: s.LedgerEntryID,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// SalaryWithEmployeeRow is the scan target for the salary-employee join.
type SalaryWithEmployeeRow struct {
	SalaryRecordModel
	EmployeeName      string `gorm:"column:employee_name"`
	EmployeeAvatarURL string `gorm:"column:employee_avatar_url"`
}

// ToDomain converts the join row to a domain SalaryWithEmployee.
func (r *SalaryWithEmployeeRow) ToDomain() payroll.SalaryWithEmployee {
	return payroll.SalaryWithEmployee{
		SalaryRecord:      *r.SalaryRecordModel.ToDomain(),
		EmployeeName:      r.EmployeeName,
		EmployeeAvatarURL: r.EmployeeAvatarURL,
	}
}

// OrphanedLedgerEntryModel is the persistence model for reconciliation audit records.
type OrphanedLedgerEntryModel struct {
	BaseModel
	LedgerEntryID uuid.UUID            `gorm:"type:uuid;not null;index"`
	SalaryID      *uuid.UUID           `gorm:"type:uuid;index"`
	Reason        payroll.OrphanReason `gorm:"type:varchar(30);not null"`
	Detail        string               `gorm:"type:text"`
	Resolved      bool                 `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (OrphanedLedgerEntryModel) TableName() string {
	return "orphaned_ledger_entries"
}

// ToDomain converts the persistence model to a domain OrphanedLedgerEntry.
func (m *OrphanedLedgerEntryModel) ToDomain() *payroll.OrphanedLedgerEntry {
	return &payroll.OrphanedLedgerEntry{
		BaseEntity:    m.BaseModel.ToDomain(),
		LedgerEntryID: m.LedgerEntryID,
		SalaryID:      m.SalaryID,
		Reason:        m.Reason,
		Detail:        m.Detail,
		Resolved:      m.Resolved,
	}
}

// OrphanedLedgerEntryModelFromDomain creates a persistence model from a domain OrphanedLedgerEntry.
func OrphanedLedgerEntryModelFromDomain(o *payroll.OrphanedLedgerEntry) *OrphanedLedgerEntryModel {
	m := &OrphanedLedgerEntryModel{
		LedgerEntryID: o.LedgerEntryID,
		SalaryID:      o.SalaryID,
		Reason:        o.Reason,
		Detail:        o.Detail,
		Resolved:      o.Resolved,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	return m
}
