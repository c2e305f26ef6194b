package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/directory"
	"github.com/worklane/backend/internal/domain/finance"
	"github.com/worklane/backend/internal/domain/payroll"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// Warning codes surfaced on otherwise-successful operations. Cleanup
// failures never roll back the committed salary mutation; they leave an
// orphaned ledger entry behind and are reported for manual reconciliation.
const (
	WarningLedgerCleanupFailed = "LEDGER_CLEANUP_FAILED"
)

// LedgerWriteError reports a failed ledger create. It is fatal to the
// enclosing operation: no salary state has been mutated and the whole
// operation is safe to retry.
type LedgerWriteError struct {
	Err error
}

func (e *LedgerWriteError) Error() string {
	return fmt.Sprintf("ledger write failed: %v", e.Err)
}

func (e *LedgerWriteError) Unwrap() error {
	return e.Err
}

// BulkReconciliationError reports a salary batch-insert that failed after
// the ledger batch-create succeeded. Every listed entry is orphaned and
// needs manual reconciliation.
type BulkReconciliationError struct {
	OrphanedEntryIDs []uuid.UUID
	Err              error
}

func (e *BulkReconciliationError) Error() string {
	return fmt.Sprintf("salary batch insert failed, %d ledger entries orphaned: %v", len(e.OrphanedEntryIDs), e.Err)
}

func (e *BulkReconciliationError) Unwrap() error {
	return e.Err
}

// SalaryService owns the SalaryRecord <-> LedgerEntry invariant. Every
// operation re-reads authoritative state before acting; the stores are
// shared with other operator sessions.
type SalaryService struct {
	salaryRepo   payroll.SalaryRecordRepository
	ledgerRepo   finance.LedgerEntryRepository
	employeeRepo directory.EmployeeRepository
	orphanRepo   payroll.OrphanedLedgerEntryRepository
	logger       *zap.Logger
}

// NewSalaryService creates a new SalaryService
func NewSalaryService(
	salaryRepo payroll.SalaryRecordRepository,
	ledgerRepo finance.LedgerEntryRepository,
	employeeRepo directory.EmployeeRepository,
	orphanRepo payroll.OrphanedLedgerEntryRepository,
	logger *zap.Logger,
) *SalaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaryService{
		salaryRepo:   salaryRepo,
		ledgerRepo:   ledgerRepo,
		employeeRepo: employeeRepo,
		orphanRepo:   orphanRepo,
		logger:       logger,
	}
}

// ===================== Requests / Responses =====================

// CreateSalaryRequest represents a request to create one salary record
type CreateSalaryRequest struct {
	EmployeeID  uuid.UUID       `json:"employee_id" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PayDate     time.Time       `json:"pay_date" binding:"required"`
	PeriodStart time.Time       `json:"period_start" binding:"required"`
	PeriodEnd   time.Time       `json:"period_end" binding:"required"`
	Notes       string          `json:"notes"`
	Status      string          `json:"status" binding:"required,oneof=pending paid"`
}

// UpdateSalaryRequest represents a partial update to a salary record.
// Nil fields keep their current value.
type UpdateSalaryRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	PayDate     *time.Time       `json:"pay_date"`
	PeriodStart *time.Time       `json:"period_start"`
	PeriodEnd   *time.Time       `json:"period_end"`
	Notes       *string          `json:"notes"`
	Status      *string          `json:"status" binding:"omitempty,oneof=pending paid"`
}

// BulkSalaryItem is one employee's payout inside a bulk run
type BulkSalaryItem struct {
	EmployeeID uuid.UUID       `json:"employee_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Notes      string          `json:"notes"`
	Status     string          `json:"status" binding:"required,oneof=pending paid"`
}

// BulkCreateSalariesRequest creates salary records for many employees at
// once, sharing a pay date and pay period.
type BulkCreateSalariesRequest struct {
	PayDate     time.Time        `json:"pay_date" binding:"required"`
	PeriodStart time.Time        `json:"period_start" binding:"required"`
	PeriodEnd   time.Time        `json:"period_end" binding:"required"`
	Items       []BulkSalaryItem `json:"items" binding:"required,min=1,dive"`
}

// SalaryResponse represents a salary record in API responses
type SalaryResponse struct {
	ID            uuid.UUID       `json:"id"`
	EmployeeID    uuid.UUID       `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	PayDate       time.Time       `json:"pay_date"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	LedgerEntryID *uuid.UUID      `json:"ledger_entry_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// SalaryWithEmployeeResponse adds employee display fields for listings
type SalaryWithEmployeeResponse struct {
	SalaryResponse
	EmployeeName      string `json:"employee_name"`
	EmployeeAvatarURL string `json:"employee_avatar_url,omitempty"`
}

// OperationResult is the outcome of a mutation that may carry a
// non-fatal cleanup warning.
type OperationResult struct {
	Salary  *SalaryResponse `json:"salary,omitempty"`
	Warning string          `json:"warning,omitempty"`
}

// BulkCreateResult summarizes a bulk payout run
type BulkCreateResult struct {
	PaidCreated    int `json:"paid_created"`
	PendingCreated int `json:"pending_created"`
}

// SalaryListFilter defines filtering options for salary listings
type SalaryListFilter struct {
	EmployeeID *uuid.UUID
	Status     string
	Page       int
	PageSize   int
}

// ===================== Operations =====================

// TransitionStatus moves a salary record between pending and paid,
// keeping the linked ledger entry in sync.
//
// pending -> paid: the ledger entry is created first; only then is the
// salary updated to reference it. A ledger failure aborts with nothing
// mutated; a salary failure after the ledger create leaves a detectable
// orphan entry, which is recorded for cleanup.
//
// paid -> pending: the salary is updated first (status cleared, reference
// dropped); only then is the entry deleted. A delete failure is non-fatal
// and reported as a warning, again leaving a detectable orphan rather
// than a dangling reference.
func (s *SalaryService) TransitionStatus(ctx context.Context, salaryID uuid.UUID, newStatus payroll.SalaryStatus) (*OperationResult, error) {
	if !newStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Status must be pending or paid")
	}

	salary, err := s.salaryRepo.FindByID(ctx, salaryID)
	if err != nil {
		return nil, err
	}

	// Idempotent no-op.
	if salary.Status == newStatus {
		return &OperationResult{Salary: toSalaryResponse(salary)}, nil
	}

	if newStatus == payroll.SalaryStatusPaid {
		return s.transitionToPaid(ctx, salary)
	}
	return s.transitionToPending(ctx, salary)
}

func (s *SalaryService) transitionToPaid(ctx context.Context, salary *payroll.SalaryRecord) (*OperationResult, error) {
	// Double-invocation guard: a pending record already carrying a
	// reference is treated as paid rather than given a duplicate entry.
	if salary.LedgerEntryID != nil {
		s.logger.Warn("salary already carries a ledger reference, skipping transition",
			zap.String("salary_id", salary.ID.String()),
			zap.String("ledger_entry_id", salary.LedgerEntryID.String()))
		return &OperationResult{Salary: toSalaryResponse(salary)}, nil
	}

	entry, err := s.createPayrollEntry(ctx, salary)
	if err != nil {
		return nil, err
	}

	if err := salary.MarkPaid(entry.GetID()); err != nil {
		return nil, err
	}
	if err := s.salaryRepo.SaveWithLock(ctx, salary); err != nil {
		// The entry exists but nothing references it. Record the orphan
		// so an operator can reconcile; the error still propagates.
		s.recordOrphan(ctx, entry.GetID(), &salary.ID, payroll.OrphanReasonSalaryWriteFailed, err.Error())
		return nil, err
	}

	return &OperationResult{Salary: toSalaryResponse(salary)}, nil
}

func (s *SalaryService) transitionToPending(ctx context.Context, salary *payroll.SalaryRecord) (*OperationResult, error) {
	entryID := salary.MarkPending()
	if err := s.salaryRepo.SaveWithLock(ctx, salary); err != nil {
		return nil, err
	}

	result := &OperationResult{Salary: toSalaryResponse(salary)}
	if entryID != nil {
		if err := s.ledgerRepo.Delete(ctx, *entryID); err != nil {
			s.logger.Warn("failed to delete ledger entry after pending transition",
				zap.String("salary_id", salary.ID.String()),
				zap.String("ledger_entry_id", entryID.String()),
				zap.Error(err))
			s.recordOrphan(ctx, *entryID, &salary.ID, payroll.OrphanReasonCleanupFailed, err.Error())
			result.Warning = WarningLedgerCleanupFailed
		}
	}
	return result, nil
}

// Create inserts one salary record. An initial status of paid creates
// the backing ledger entry first and aborts if that write fails.
func (s *SalaryService) Create(ctx context.Context, req CreateSalaryRequest) (*SalaryResponse, error) {
	status := payroll.SalaryStatus(req.Status)
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Status must be pending or paid")
	}

	salary, err := payroll.NewSalaryRecord(
		req.EmployeeID,
		valueobject.NewMoneyTHB(req.Amount),
		req.PayDate,
		req.PeriodStart,
		req.PeriodEnd,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if status == payroll.SalaryStatusPaid {
		entry, err := s.createPayrollEntry(ctx, salary)
		if err != nil {
			return nil, err
		}
		if err := salary.MarkPaid(entry.GetID()); err != nil {
			return nil, err
		}
		if err := s.salaryRepo.Create(ctx, salary); err != nil {
			s.recordOrphan(ctx, entry.GetID(), nil, payroll.OrphanReasonSalaryWriteFailed, err.Error())
			return nil, err
		}
		return toSalaryResponse(salary), nil
	}

	if err := s.salaryRepo.Create(ctx, salary); err != nil {
		return nil, err
	}
	return toSalaryResponse(salary), nil
}

// Update applies a partial edit, re-reading the authoritative record to
// decide which reconciliation side effects the edit implies.
func (s *SalaryService) Update(ctx context.Context, salaryID uuid.UUID, req UpdateSalaryRequest) (*OperationResult, error) {
	salary, err := s.salaryRepo.FindByID(ctx, salaryID)
	if err != nil {
		return nil, err
	}

	currentStatus := salary.Status
	newStatus := currentStatus
	if req.Status != nil {
		newStatus = payroll.SalaryStatus(*req.Status)
		if !newStatus.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Status must be pending or paid")
		}
	}

	// Merge partial fields over the current record.
	amount := salary.Amount
	if req.Amount != nil {
		amount = *req.Amount
	}
	payDate := salary.PayDate
	if req.PayDate != nil {
		payDate = *req.PayDate
	}
	periodStart := salary.PeriodStart
	if req.PeriodStart != nil {
		periodStart = *req.PeriodStart
	}
	periodEnd := salary.PeriodEnd
	if req.PeriodEnd != nil {
		periodEnd = *req.PeriodEnd
	}
	notes := salary.Notes
	if req.Notes != nil {
		notes = *req.Notes
	}

	amountChanged := !salary.Amount.Equal(amount)
	payDateChanged := !salary.PayDate.Equal(payDate)

	previousEntryID := salary.LedgerEntryID
	if err := salary.UpdateDetails(valueobject.NewMoneyTHB(amount), payDate, periodStart, periodEnd, notes); err != nil {
		return nil, err
	}

	switch {
	case currentStatus == payroll.SalaryStatusPending && newStatus == payroll.SalaryStatusPaid:
		entry, err := s.createPayrollEntry(ctx, salary)
		if err != nil {
			return nil, err
		}
		if err := salary.MarkPaid(entry.GetID()); err != nil {
			return nil, err
		}
		if err := s.salaryRepo.SaveWithLock(ctx, salary); err != nil {
			s.recordOrphan(ctx, entry.GetID(), &salary.ID, payroll.OrphanReasonSalaryWriteFailed, err.Error())
			return nil, err
		}
		return &OperationResult{Salary: toSalaryResponse(salary)}, nil

	case currentStatus == payroll.SalaryStatusPaid && newStatus == payroll.SalaryStatusPending:
		salary.MarkPending()
		if err := s.salaryRepo.SaveWithLock(ctx, salary); err != nil {
			return nil, err
		}
		result := &OperationResult{Salary: toSalaryResponse(salary)}
		if previousEntryID != nil {
			if err := s.ledgerRepo.Delete(ctx, *previousEntryID); err != nil {
				s.logger.Warn("failed to delete ledger entry after pending transition",
					zap.String("salary_id", salary.ID.String()),
					zap.String("ledger_entry_id", previousEntryID.String()),
					zap.Error(err))
				s.recordOrphan(ctx, *previousEntryID, &salary.ID, payroll.OrphanReasonCleanupFailed, err.Error())
				result.Warning = WarningLedgerCleanupFailed
			}
		}
		return result, nil

	case currentStatus == payroll.SalaryStatusPaid && newStatus == payroll.SalaryStatusPaid:
		// Keep the backing entry consistent with its source salary.
		if previousEntryID == nil {
			// Detected invariant violation: paid without a backing entry.
			// Logged and tolerated; the salary edit itself still applies.
			s.logger.Error("paid salary has no ledger reference",
				zap.String("salary_id", salary.ID.String()))
		} else if amountChanged || payDateChanged {
			if err := s.syncLedgerEntry(ctx, *previousEntryID, salary); err != nil {
				return nil, err
			}
		}
		if err := s.salaryRepo.SaveWithLock(ctx, salary); err != nil {
			return nil, err
		}
		return &OperationResult{Salary: toSalaryResponse(salary)}, nil

	default: // pending -> pending
		if err := s.salaryRepo.SaveWithLock(ctx, salary); err != nil {
			return nil, err
		}
		return &OperationResult{Salary: toSalaryResponse(salary)}, nil
	}
}

// Delete removes a salary record and, afterward, its linked ledger entry.
// Entry deletion failure is non-fatal: the salary delete has already
// committed and the orphan is recorded for cleanup.
func (s *SalaryService) Delete(ctx context.Context, salaryID uuid.UUID) (*OperationResult, error) {
	salary, err := s.salaryRepo.FindByID(ctx, salaryID)
	if err != nil {
		return nil, err
	}

	if err := s.salaryRepo.Delete(ctx, salaryID); err != nil {
		return nil, err
	}

	result := &OperationResult{}
	if salary.LedgerEntryID != nil {
		if err := s.ledgerRepo.Delete(ctx, *salary.LedgerEntryID); err != nil {
			s.logger.Warn("failed to delete ledger entry after salary delete",
				zap.String("salary_id", salaryID.String()),
				zap.String("ledger_entry_id", salary.LedgerEntryID.String()),
				zap.Error(err))
			s.recordOrphan(ctx, *salary.LedgerEntryID, &salaryID, payroll.OrphanReasonCleanupFailed, err.Error())
			result.Warning = WarningLedgerCleanupFailed
		}
	}
	return result, nil
}

// BulkCreate runs one payout for many employees. Ledger entries for the
// paid subset are batch-created first, in input order, and paired to
// their salaries by index; the repository contract guarantees the store
// returns created entries in request order. If the ledger batch fails,
// nothing is created. If the salary batch fails afterward, every created
// entry is orphaned and the error names them.
func (s *SalaryService) BulkCreate(ctx context.Context, req BulkCreateSalariesRequest) (*BulkCreateResult, error) {
	paidRecords := make([]*payroll.SalaryRecord, 0, len(req.Items))
	pendingRecords := make([]*payroll.SalaryRecord, 0, len(req.Items))

	for i, item := range req.Items {
		status := payroll.SalaryStatus(item.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS",
				fmt.Sprintf("Item %d: status must be pending or paid", i))
		}
		record, err := payroll.NewSalaryRecord(
			item.EmployeeID,
			valueobject.NewMoneyTHB(item.Amount),
			req.PayDate,
			req.PeriodStart,
			req.PeriodEnd,
			item.Notes,
		)
		if err != nil {
			return nil, err
		}
		if status == payroll.SalaryStatusPaid {
			paidRecords = append(paidRecords, record)
		} else {
			pendingRecords = append(pendingRecords, record)
		}
	}

	if len(paidRecords) > 0 {
		entries := make([]*finance.LedgerEntry, len(paidRecords))
		for i, record := range paidRecords {
			entry, err := s.buildPayrollEntry(ctx, record)
			if err != nil {
				return nil, err
			}
			entries[i] = entry
		}

		if err := s.ledgerRepo.CreateBatch(ctx, entries); err != nil {
			return nil, &LedgerWriteError{Err: err}
		}

		// Pair by index; CreateBatch preserves input order.
		for i, record := range paidRecords {
			if err := record.MarkPaid(entries[i].GetID()); err != nil {
				return nil, err
			}
		}

		all := append(append([]*payroll.SalaryRecord{}, paidRecords...), pendingRecords...)
		if err := s.salaryRepo.CreateBatch(ctx, all); err != nil {
			orphaned := make([]uuid.UUID, len(entries))
			for i, entry := range entries {
				orphaned[i] = entry.GetID()
				s.recordOrphan(ctx, entry.GetID(), nil, payroll.OrphanReasonSalaryWriteFailed, err.Error())
			}
			return nil, &BulkReconciliationError{OrphanedEntryIDs: orphaned, Err: err}
		}
	} else if len(pendingRecords) > 0 {
		if err := s.salaryRepo.CreateBatch(ctx, pendingRecords); err != nil {
			return nil, err
		}
	}

	return &BulkCreateResult{
		PaidCreated:    len(paidRecords),
		PendingCreated: len(pendingRecords),
	}, nil
}

// List returns salary records joined with employee display fields
func (s *SalaryService) List(ctx context.Context, filter SalaryListFilter) ([]SalaryWithEmployeeResponse, int64, error) {
	domainFilter := payroll.SalaryRecordFilter{EmployeeID: filter.EmployeeID}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = "pay_date"
	domainFilter.OrderDir = "desc"
	if filter.Status != "" {
		status := payroll.SalaryStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Status must be pending or paid")
		}
		domainFilter.Status = &status
	}

	records, err := s.salaryRepo.FindAllWithEmployee(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.salaryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SalaryWithEmployeeResponse, len(records))
	for i, r := range records {
		responses[i] = SalaryWithEmployeeResponse{
			SalaryResponse:    *toSalaryResponse(&r.SalaryRecord),
			EmployeeName:      r.EmployeeName,
			EmployeeAvatarURL: r.EmployeeAvatarURL,
		}
	}
	return responses, total, nil
}

// GetByID returns one salary record
func (s *SalaryService) GetByID(ctx context.Context, salaryID uuid.UUID) (*SalaryResponse, error) {
	salary, err := s.salaryRepo.FindByID(ctx, salaryID)
	if err != nil {
		return nil, err
	}
	return toSalaryResponse(salary), nil
}

// ListOrphans returns unresolved reconciliation issues for operators
func (s *SalaryService) ListOrphans(ctx context.Context) ([]payroll.OrphanedLedgerEntry, error) {
	return s.orphanRepo.FindUnresolved(ctx)
}

// ===================== Helpers =====================

// buildPayrollEntry constructs (without persisting) the ledger entry
// backing a salary payout.
func (s *SalaryService) buildPayrollEntry(ctx context.Context, salary *payroll.SalaryRecord) (*finance.LedgerEntry, error) {
	return finance.NewLedgerEntry(
		salary.LedgerTitle(s.employeeName(ctx, salary.EmployeeID)),
		salary.GetAmountMoney(),
		salary.PayDate,
		finance.EntryTypeExpense,
		finance.CategoryPayroll,
		salary.LedgerNotes(),
	)
}

// createPayrollEntry builds and persists the backing ledger entry.
// A persistence failure is wrapped as LedgerWriteError: fatal, nothing
// else mutated, safe to retry.
func (s *SalaryService) createPayrollEntry(ctx context.Context, salary *payroll.SalaryRecord) (*finance.LedgerEntry, error) {
	entry, err := s.buildPayrollEntry(ctx, salary)
	if err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, &LedgerWriteError{Err: err}
	}
	return entry, nil
}

// syncLedgerEntry copies the salary's amount and pay date onto its
// backing entry. A missing entry is the same invariant violation as a
// nil reference: logged, tolerated, the salary edit proceeds.
func (s *SalaryService) syncLedgerEntry(ctx context.Context, entryID uuid.UUID, salary *payroll.SalaryRecord) error {
	entry, err := s.ledgerRepo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("paid salary references a missing ledger entry",
				zap.String("salary_id", salary.ID.String()),
				zap.String("ledger_entry_id", entryID.String()))
			return nil
		}
		return err
	}
	if err := entry.SyncFromSalary(salary.GetAmountMoney(), salary.PayDate); err != nil {
		return err
	}
	return s.ledgerRepo.Save(ctx, entry)
}

func (s *SalaryService) employeeName(ctx context.Context, employeeID uuid.UUID) string {
	employee, err := s.employeeRepo.FindByID(ctx, employeeID)
	if err != nil || employee == nil {
		return ""
	}
	return employee.FullName
}

// recordOrphan writes a reconciliation audit record. Best-effort: a
// failure here is only logged, never allowed to mask the primary error.
func (s *SalaryService) recordOrphan(ctx context.Context, entryID uuid.UUID, salaryID *uuid.UUID, reason payroll.OrphanReason, detail string) {
	orphan := payroll.NewOrphanedLedgerEntry(entryID, salaryID, reason, detail)
	if err := s.orphanRepo.Create(ctx, orphan); err != nil {
		s.logger.Error("failed to record orphaned ledger entry",
			zap.String("ledger_entry_id", entryID.String()),
			zap.Error(err))
	}
}

func toSalaryResponse(salary *payroll.SalaryRecord) *SalaryResponse {
	return &SalaryResponse{
		ID:            salary.ID,
		EmployeeID:    salary.EmployeeID,
		Amount:        salary.Amount,
		PayDate:       salary.PayDate,
		PeriodStart:   salary.PeriodStart,
		PeriodEnd:     salary.PeriodEnd,
		Notes:         salary.Notes,
		Status:        salary.Status.String(),
		LedgerEntryID: salary.LedgerEntryID,
		CreatedAt:     salary.CreatedAt,
		UpdatedAt:     salary.UpdatedAt,
		Version:       salary.Version,
	}
}
