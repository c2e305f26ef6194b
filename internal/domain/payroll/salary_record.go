package payroll

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/domain/shared/valueobject"
)

// SalaryStatus represents the payment status of a salary record
type SalaryStatus string

const (
	SalaryStatusPending SalaryStatus = "pending"
	SalaryStatusPaid    SalaryStatus = "paid"
)

// IsValid checks if the status is a valid SalaryStatus
func (s SalaryStatus) IsValid() bool {
	return s == SalaryStatusPending || s == SalaryStatusPaid
}

// String returns the string representation of SalaryStatus
func (s SalaryStatus) String() string {
	return string(s)
}

// SalaryRecord represents one payroll disbursement for one employee
// covering one pay period. It is the sole authority over its linked
// ledger entry: paid records reference exactly one entry, pending
// records reference none.
type SalaryRecord struct {
	shared.BaseAggregateRoot
	EmployeeID    uuid.UUID       `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	PayDate       time.Time       `json:"pay_date"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	Notes         string          `json:"notes"`
	Status        SalaryStatus    `json:"status"`
	LedgerEntryID *uuid.UUID      `json:"ledger_entry_id"`
}

// NewSalaryRecord creates a new salary record. The ledger reference is
// never set on construction; callers attach it via MarkPaid after the
// backing ledger entry exists.
func NewSalaryRecord(
	employeeID uuid.UUID,
	amount valueobject.Money,
	payDate time.Time,
	periodStart time.Time,
	periodEnd time.Time,
	notes string,
) (*SalaryRecord, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if payDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_PAY_DATE", "Pay date is required")
	}
	if periodStart.IsZero() || periodEnd.IsZero() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Pay period is required")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot be before period start")
	}

	return &SalaryRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		Amount:            amount.Amount(),
		PayDate:           payDate,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		Notes:             notes,
		Status:            SalaryStatusPending,
	}, nil
}

// MarkPaid transitions the record to paid, attaching the backing ledger
// entry. The entry must already exist; this ordering is what keeps a
// partial failure on the orphan-ledger side of the invariant.
func (s *SalaryRecord) MarkPaid(ledgerEntryID uuid.UUID) error {
	if s.Status == SalaryStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Salary record is already paid")
	}
	if ledgerEntryID == uuid.Nil {
		return shared.NewDomainError("INVALID_LEDGER_REF", "Ledger entry ID cannot be empty")
	}

	s.Status = SalaryStatusPaid
	s.LedgerEntryID = &ledgerEntryID
	s.Touch()
	return nil
}

// MarkPending transitions the record back to pending and clears the
// ledger reference. It returns the previously referenced entry ID so the
// caller can delete it after the salary side has committed.
func (s *SalaryRecord) MarkPending() *uuid.UUID {
	previous := s.LedgerEntryID
	s.Status = SalaryStatusPending
	s.LedgerEntryID = nil
	s.Touch()
	return previous
}

// UpdateDetails replaces the record's payment fields
func (s *SalaryRecord) UpdateDetails(
	amount valueobject.Money,
	payDate time.Time,
	periodStart time.Time,
	periodEnd time.Time,
	notes string,
) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if payDate.IsZero() {
		return shared.NewDomainError("INVALID_PAY_DATE", "Pay date is required")
	}
	if periodEnd.Before(periodStart) {
		return shared.NewDomainError("INVALID_PERIOD", "Period end cannot be before period start")
	}

	s.Amount = amount.Amount()
	s.PayDate = payDate
	s.PeriodStart = periodStart
	s.PeriodEnd = periodEnd
	s.Notes = notes
	s.Touch()
	return nil
}

// IsPaid returns true if the record is in paid status
func (s *SalaryRecord) IsPaid() bool {
	return s.Status == SalaryStatusPaid
}

// IsConsistent reports whether the paid status and the ledger reference
// agree: paid records must carry a reference, pending records must not.
func (s *SalaryRecord) IsConsistent() bool {
	if s.Status == SalaryStatusPaid {
		return s.LedgerEntryID != nil
	}
	return s.LedgerEntryID == nil
}

// GetAmountMoney returns amount as Money
func (s *SalaryRecord) GetAmountMoney() valueobject.Money {
	return valueobject.NewMoneyTHB(s.Amount)
}

// LedgerTitle derives the title for the backing ledger entry from the
// employee's display name.
func (s *SalaryRecord) LedgerTitle(employeeName string) string {
	if employeeName == "" {
		employeeName = "N/A"
	}
	return fmt.Sprintf("Employee payroll: %s", employeeName)
}

// LedgerNotes synthesizes the notes for the backing ledger entry from
// the pay period and the record's own notes.
func (s *SalaryRecord) LedgerNotes() string {
	notes := fmt.Sprintf("Payout for period %s to %s. %s",
		s.PeriodStart.Format("2006-01-02"),
		s.PeriodEnd.Format("2006-01-02"),
		s.Notes,
	)
	return strings.TrimSpace(notes)
}

// SalaryWithEmployee joins a salary record with employee display fields
// for presentation. Read-only; reconciliation never depends on it.
type SalaryWithEmployee struct {
	SalaryRecord
	EmployeeName      string `json:"employee_name"`
	EmployeeAvatarURL string `json:"employee_avatar_url"`
}
