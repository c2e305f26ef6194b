package payroll

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/worklane/backend/internal/domain/directory"
	"github.com/worklane/backend/internal/domain/finance"
	"github.com/worklane/backend/internal/domain/payroll"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// ===================== Mocks =====================

type mockSalaryRepo struct {
	mock.Mock
}

func (m *mockSalaryRepo) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payroll.SalaryRecord), args.Error(1)
}

func (m *mockSalaryRepo) FindAll(ctx context.Context, filter payroll.SalaryRecordFilter) ([]payroll.SalaryRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.SalaryRecord), args.Error(1)
}

func (m *mockSalaryRepo) FindAllWithEmployee(ctx context.Context, filter payroll.SalaryRecordFilter) ([]payroll.SalaryWithEmployee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.SalaryWithEmployee), args.Error(1)
}

func (m *mockSalaryRepo) Count(ctx context.Context, filter payroll.SalaryRecordFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSalaryRepo) Create(ctx context.Context, record *payroll.SalaryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockSalaryRepo) CreateBatch(ctx context.Context, records []*payroll.SalaryRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *mockSalaryRepo) Save(ctx context.Context, record *payroll.SalaryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockSalaryRepo) SaveWithLock(ctx context.Context, record *payroll.SalaryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockSalaryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockLedgerRepo struct {
	mock.Mock
}

func (m *mockLedgerRepo) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerEntry), args.Error(1)
}

func (m *mockLedgerRepo) FindAll(ctx context.Context, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.LedgerEntry), args.Error(1)
}

func (m *mockLedgerRepo) Count(ctx context.Context, filter finance.LedgerEntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerRepo) Create(ctx context.Context, entry *finance.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockLedgerRepo) CreateBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *mockLedgerRepo) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockLedgerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockLedgerRepo) Totals(ctx context.Context, from, to *time.Time) (*finance.LedgerTotals, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.LedgerTotals), args.Error(1)
}

func (m *mockLedgerRepo) MonthlyTotals(ctx context.Context, months int) ([]finance.MonthlyLedgerTotals, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]finance.MonthlyLedgerTotals), args.Error(1)
}

func (m *mockLedgerRepo) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*directory.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) FindAll(ctx context.Context, filter directory.EmployeeFilter) ([]directory.Employee, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) Count(ctx context.Context, filter directory.EmployeeFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *directory.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *mockEmployeeRepo) Save(ctx context.Context, employee *directory.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockEmployeeRepo) DistinctPositions(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type mockOrphanRepo struct {
	mock.Mock
}

func (m *mockOrphanRepo) Create(ctx context.Context, orphan *payroll.OrphanedLedgerEntry) error {
	args := m.Called(ctx, orphan)
	return args.Error(0)
}

func (m *mockOrphanRepo) FindUnresolved(ctx context.Context) ([]payroll.OrphanedLedgerEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payroll.OrphanedLedgerEntry), args.Error(1)
}

func (m *mockOrphanRepo) Save(ctx context.Context, orphan *payroll.OrphanedLedgerEntry) error {
	args := m.Called(ctx, orphan)
	return args.Error(0)
}

// ===================== Fixtures =====================

type serviceFixture struct {
	service      *SalaryService
	salaryRepo   *mockSalaryRepo
	ledgerRepo   *mockLedgerRepo
	employeeRepo *mockEmployeeRepo
	orphanRepo   *mockOrphanRepo
}

func newFixture() *serviceFixture {
	salaryRepo := new(mockSalaryRepo)
	ledgerRepo := new(mockLedgerRepo)
	employeeRepo := new(mockEmployeeRepo)
	orphanRepo := new(mockOrphanRepo)
	return &serviceFixture{
		service:      NewSalaryService(salaryRepo, ledgerRepo, employeeRepo, orphanRepo, zap.NewNop()),
		salaryRepo:   salaryRepo,
		ledgerRepo:   ledgerRepo,
		employeeRepo: employeeRepo,
		orphanRepo:   orphanRepo,
	}
}

func (f *serviceFixture) expectEmployee(name string) uuid.UUID {
	employee := &directory.Employee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          name,
	}
	f.employeeRepo.On("FindByID", mock.Anything, employee.ID).Return(employee, nil)
	return employee.ID
}

func newPendingSalary(t *testing.T, employeeID uuid.UUID) *payroll.SalaryRecord {
	t.Helper()
	salary, err := payroll.NewSalaryRecord(
		employeeID,
		valueobject.NewMoneyTHB(decimal.NewFromInt(45000)),
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		"February payout",
	)
	require.NoError(t, err)
	return salary
}

func newPaidSalary(t *testing.T, employeeID uuid.UUID) (*payroll.SalaryRecord, uuid.UUID) {
	t.Helper()
	salary := newPendingSalary(t, employeeID)
	entryID := uuid.New()
	require.NoError(t, salary.MarkPaid(entryID))
	return salary, entryID
}

// ===================== TransitionStatus =====================

func TestTransitionStatus_PendingToPaid(t *testing.T) {
	t.Run("creates ledger entry before updating salary", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Somchai Jaidee")
		salary := newPendingSalary(t, employeeID)

		var createdEntry *finance.LedgerEntry
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.AnythingOfType("*finance.LedgerEntry")).
			Run(func(args mock.Arguments) {
				createdEntry = args.Get(1).(*finance.LedgerEntry)
			}).Return(nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)

		result, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPaid)

		require.NoError(t, err)
		require.NotNil(t, createdEntry)
		assert.Equal(t, "Employee payroll: Somchai Jaidee", createdEntry.Title)
		assert.Equal(t, finance.EntryTypeExpense, createdEntry.Type)
		assert.Equal(t, finance.CategoryPayroll, createdEntry.Category)
		assert.True(t, createdEntry.Amount.Equal(decimal.NewFromInt(45000)))
		assert.Equal(t, salary.PayDate, createdEntry.TransactionDate)
		assert.Equal(t, "Payout for period 2024-02-01 to 2024-02-29. February payout", createdEntry.Notes)

		require.NotNil(t, salary.LedgerEntryID)
		assert.Equal(t, createdEntry.GetID(), *salary.LedgerEntryID)
		assert.Equal(t, payroll.SalaryStatusPaid, salary.Status)
		assert.True(t, salary.IsConsistent())
		assert.Empty(t, result.Warning)
		f.salaryRepo.AssertCalled(t, "SaveWithLock", mock.Anything, salary)
	})

	t.Run("falls back to N/A when employee lookup fails", func(t *testing.T) {
		f := newFixture()
		employeeID := uuid.New()
		salary := newPendingSalary(t, employeeID)

		var createdEntry *finance.LedgerEntry
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.employeeRepo.On("FindByID", mock.Anything, employeeID).Return(nil, shared.NewDomainError("NOT_FOUND", "Employee not found"))
		f.ledgerRepo.On("Create", mock.Anything, mock.AnythingOfType("*finance.LedgerEntry")).
			Run(func(args mock.Arguments) {
				createdEntry = args.Get(1).(*finance.LedgerEntry)
			}).Return(nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)

		_, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPaid)

		require.NoError(t, err)
		assert.Equal(t, "Employee payroll: N/A", createdEntry.Title)
	})

	t.Run("aborts with nothing mutated when ledger create fails", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Somchai Jaidee")
		salary := newPendingSalary(t, employeeID)

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPaid)

		var writeErr *LedgerWriteError
		require.ErrorAs(t, err, &writeErr)
		assert.Equal(t, payroll.SalaryStatusPending, salary.Status)
		assert.Nil(t, salary.LedgerEntryID)
		f.salaryRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		f.orphanRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("records orphan when salary write fails after entry created", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Somchai Jaidee")
		salary := newPendingSalary(t, employeeID)

		var createdEntry *finance.LedgerEntry
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.AnythingOfType("*finance.LedgerEntry")).
			Run(func(args mock.Arguments) {
				createdEntry = args.Get(1).(*finance.LedgerEntry)
			}).Return(nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(errors.New("write timeout"))
		f.orphanRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *payroll.OrphanedLedgerEntry) bool {
			return o.Reason == payroll.OrphanReasonSalaryWriteFailed && o.LedgerEntryID == createdEntry.GetID()
		})).Return(nil)

		_, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPaid)

		require.Error(t, err)
		f.orphanRepo.AssertExpectations(t)
		// Nothing references the entry; the failure mode is the orphan side.
		f.ledgerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("skips duplicate entry when pending record already carries a reference", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())
		salary.Status = payroll.SalaryStatusPending // stale status, reference intact

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)

		result, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPaid)

		require.NoError(t, err)
		assert.Equal(t, entryID, *result.Salary.LedgerEntryID)
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.salaryRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("propagates concurrency conflict from stale write", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Somchai Jaidee")
		salary := newPendingSalary(t, employeeID)

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(shared.ErrConcurrencyConflict)
		f.orphanRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPaid)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestTransitionStatus_PaidToPending(t *testing.T) {
	t.Run("commits salary before deleting ledger entry", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())

		saved := false
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).
			Run(func(mock.Arguments) { saved = true }).Return(nil)
		f.ledgerRepo.On("Delete", mock.Anything, entryID).
			Run(func(mock.Arguments) {
				assert.True(t, saved, "salary must commit before the entry delete")
			}).Return(nil)

		result, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPending)

		require.NoError(t, err)
		assert.Equal(t, payroll.SalaryStatusPending, salary.Status)
		assert.Nil(t, salary.LedgerEntryID)
		assert.Empty(t, result.Warning)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("keeps transition successful when entry delete fails", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)
		f.ledgerRepo.On("Delete", mock.Anything, entryID).Return(errors.New("row locked"))
		f.orphanRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *payroll.OrphanedLedgerEntry) bool {
			return o.Reason == payroll.OrphanReasonCleanupFailed && o.LedgerEntryID == entryID
		})).Return(nil)

		result, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPending)

		require.NoError(t, err)
		assert.Equal(t, WarningLedgerCleanupFailed, result.Warning)
		assert.Equal(t, payroll.SalaryStatusPending, salary.Status)
		f.orphanRepo.AssertExpectations(t)
	})

	t.Run("does not touch ledger when salary write fails", func(t *testing.T) {
		f := newFixture()
		salary, _ := newPaidSalary(t, uuid.New())

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(shared.ErrConcurrencyConflict)

		_, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPending)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		f.ledgerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTransitionStatus_NoOpAndErrors(t *testing.T) {
	t.Run("same status is a no-op", func(t *testing.T) {
		f := newFixture()
		salary := newPendingSalary(t, uuid.New())
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)

		result, err := f.service.TransitionStatus(context.Background(), salary.ID, payroll.SalaryStatusPending)

		require.NoError(t, err)
		assert.Equal(t, "pending", result.Salary.Status)
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.salaryRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.TransitionStatus(context.Background(), uuid.New(), payroll.SalaryStatus("archived"))
		assert.Error(t, err)
	})

	t.Run("returns not found for missing salary", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.salaryRepo.On("FindByID", mock.Anything, id).Return(nil, shared.NewDomainError("NOT_FOUND", "Salary record not found"))

		_, err := f.service.TransitionStatus(context.Background(), id, payroll.SalaryStatusPaid)
		assert.Error(t, err)
	})
}

// ===================== Create =====================

func TestCreateSalary(t *testing.T) {
	basePayDate := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	periodStart := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	t.Run("pending salary never touches the ledger", func(t *testing.T) {
		f := newFixture()
		f.salaryRepo.On("Create", mock.Anything, mock.AnythingOfType("*payroll.SalaryRecord")).Return(nil)

		resp, err := f.service.Create(context.Background(), CreateSalaryRequest{
			EmployeeID:  uuid.New(),
			Amount:      decimal.NewFromInt(30000),
			PayDate:     basePayDate,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Status:      "pending",
		})

		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Nil(t, resp.LedgerEntryID)
		f.ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("paid salary creates ledger entry first", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Nina K.")

		ledgerCreated := false
		f.ledgerRepo.On("Create", mock.Anything, mock.AnythingOfType("*finance.LedgerEntry")).
			Run(func(mock.Arguments) { ledgerCreated = true }).Return(nil)
		f.salaryRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *payroll.SalaryRecord) bool {
			return s.IsPaid() && s.LedgerEntryID != nil
		})).Run(func(mock.Arguments) {
			assert.True(t, ledgerCreated, "ledger entry must exist before the salary insert")
		}).Return(nil)

		resp, err := f.service.Create(context.Background(), CreateSalaryRequest{
			EmployeeID:  employeeID,
			Amount:      decimal.NewFromInt(52000),
			PayDate:     basePayDate,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Notes:       "includes overtime",
			Status:      "paid",
		})

		require.NoError(t, err)
		assert.Equal(t, "paid", resp.Status)
		require.NotNil(t, resp.LedgerEntryID)
	})

	t.Run("paid salary aborts when ledger create fails", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Nina K.")
		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		_, err := f.service.Create(context.Background(), CreateSalaryRequest{
			EmployeeID:  employeeID,
			Amount:      decimal.NewFromInt(52000),
			PayDate:     basePayDate,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Status:      "paid",
		})

		var writeErr *LedgerWriteError
		require.ErrorAs(t, err, &writeErr)
		f.salaryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("records orphan when salary insert fails after entry created", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Nina K.")

		f.ledgerRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.salaryRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("constraint violation"))
		f.orphanRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *payroll.OrphanedLedgerEntry) bool {
			return o.Reason == payroll.OrphanReasonSalaryWriteFailed
		})).Return(nil)

		_, err := f.service.Create(context.Background(), CreateSalaryRequest{
			EmployeeID:  employeeID,
			Amount:      decimal.NewFromInt(52000),
			PayDate:     basePayDate,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Status:      "paid",
		})

		require.Error(t, err)
		f.orphanRepo.AssertExpectations(t)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture()
		_, err := f.service.Create(context.Background(), CreateSalaryRequest{
			EmployeeID:  uuid.New(),
			Amount:      decimal.NewFromInt(-5),
			PayDate:     basePayDate,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
			Status:      "pending",
		})
		assert.Error(t, err)
	})
}

// ===================== Update =====================

func TestUpdateSalary(t *testing.T) {
	t.Run("paid to paid syncs amount and date onto linked entry", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())
		entry, err := finance.NewLedgerEntry(
			"Employee payroll: Somchai Jaidee",
			salary.GetAmountMoney(),
			salary.PayDate,
			finance.EntryTypeExpense,
			finance.CategoryPayroll,
			salary.LedgerNotes(),
		)
		require.NoError(t, err)

		newAmount := decimal.NewFromInt(48000)
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.ledgerRepo.On("FindByID", mock.Anything, entryID).Return(entry, nil)
		f.ledgerRepo.On("Save", mock.Anything, entry).Return(nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)

		_, err = f.service.Update(context.Background(), salary.ID, UpdateSalaryRequest{Amount: &newAmount})

		require.NoError(t, err)
		assert.True(t, entry.Amount.Equal(newAmount))
		f.ledgerRepo.AssertCalled(t, "Save", mock.Anything, entry)
	})

	t.Run("paid to paid with unchanged amount and date skips the ledger", func(t *testing.T) {
		f := newFixture()
		salary, _ := newPaidSalary(t, uuid.New())
		notes := "corrected notes"

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)

		_, err := f.service.Update(context.Background(), salary.ID, UpdateSalaryRequest{Notes: &notes})

		require.NoError(t, err)
		assert.Equal(t, "corrected notes", salary.Notes)
		f.ledgerRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.ledgerRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("paid to paid tolerates a missing linked entry", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())
		newAmount := decimal.NewFromInt(51000)

		// The repo error arrives wrapped; detection must not depend on
		// the exact sentinel value.
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.ledgerRepo.On("FindByID", mock.Anything, entryID).Return(nil, fmt.Errorf("load ledger entry: %w", shared.ErrNotFound))
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)

		_, err := f.service.Update(context.Background(), salary.ID, UpdateSalaryRequest{Amount: &newAmount})

		require.NoError(t, err)
		assert.True(t, salary.Amount.Equal(newAmount))
	})

	t.Run("pending to paid creates entry with updated fields", func(t *testing.T) {
		f := newFixture()
		employeeID := f.expectEmployee("Somchai Jaidee")
		salary := newPendingSalary(t, employeeID)
		newAmount := decimal.NewFromInt(60000)
		status := "paid"

		var createdEntry *finance.LedgerEntry
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.ledgerRepo.On("Create", mock.Anything, mock.AnythingOfType("*finance.LedgerEntry")).
			Run(func(args mock.Arguments) {
				createdEntry = args.Get(1).(*finance.LedgerEntry)
			}).Return(nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)

		_, err := f.service.Update(context.Background(), salary.ID, UpdateSalaryRequest{
			Amount: &newAmount,
			Status: &status,
		})

		require.NoError(t, err)
		assert.True(t, createdEntry.Amount.Equal(newAmount), "entry must reflect the updated amount")
		assert.True(t, salary.IsPaid())
		assert.Equal(t, createdEntry.GetID(), *salary.LedgerEntryID)
	})

	t.Run("paid to pending deletes entry after salary commits", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())
		status := "pending"

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)
		f.ledgerRepo.On("Delete", mock.Anything, entryID).Return(nil)

		result, err := f.service.Update(context.Background(), salary.ID, UpdateSalaryRequest{Status: &status})

		require.NoError(t, err)
		assert.Empty(t, result.Warning)
		assert.Nil(t, salary.LedgerEntryID)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("paid to pending surfaces cleanup warning on delete failure", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())
		status := "pending"

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("SaveWithLock", mock.Anything, salary).Return(nil)
		f.ledgerRepo.On("Delete", mock.Anything, entryID).Return(errors.New("row locked"))
		f.orphanRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		result, err := f.service.Update(context.Background(), salary.ID, UpdateSalaryRequest{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, WarningLedgerCleanupFailed, result.Warning)
	})
}

// ===================== Delete =====================

func TestDeleteSalary(t *testing.T) {
	t.Run("deletes salary then linked entry", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())

		salaryDeleted := false
		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("Delete", mock.Anything, salary.ID).
			Run(func(mock.Arguments) { salaryDeleted = true }).Return(nil)
		f.ledgerRepo.On("Delete", mock.Anything, entryID).
			Run(func(mock.Arguments) {
				assert.True(t, salaryDeleted, "salary delete must commit first")
			}).Return(nil)

		result, err := f.service.Delete(context.Background(), salary.ID)

		require.NoError(t, err)
		assert.Empty(t, result.Warning)
		f.ledgerRepo.AssertExpectations(t)
	})

	t.Run("pending salary leaves the ledger alone", func(t *testing.T) {
		f := newFixture()
		salary := newPendingSalary(t, uuid.New())

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("Delete", mock.Anything, salary.ID).Return(nil)

		_, err := f.service.Delete(context.Background(), salary.ID)

		require.NoError(t, err)
		f.ledgerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("entry delete failure is a warning, not an error", func(t *testing.T) {
		f := newFixture()
		salary, entryID := newPaidSalary(t, uuid.New())

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("Delete", mock.Anything, salary.ID).Return(nil)
		f.ledgerRepo.On("Delete", mock.Anything, entryID).Return(errors.New("timeout"))
		f.orphanRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *payroll.OrphanedLedgerEntry) bool {
			return o.Reason == payroll.OrphanReasonCleanupFailed && o.LedgerEntryID == entryID
		})).Return(nil)

		result, err := f.service.Delete(context.Background(), salary.ID)

		require.NoError(t, err)
		assert.Equal(t, WarningLedgerCleanupFailed, result.Warning)
		f.orphanRepo.AssertExpectations(t)
	})

	t.Run("salary delete failure aborts before the ledger", func(t *testing.T) {
		f := newFixture()
		salary, _ := newPaidSalary(t, uuid.New())

		f.salaryRepo.On("FindByID", mock.Anything, salary.ID).Return(salary, nil)
		f.salaryRepo.On("Delete", mock.Anything, salary.ID).Return(errors.New("deadlock"))

		_, err := f.service.Delete(context.Background(), salary.ID)

		require.Error(t, err)
		f.ledgerRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

// ===================== BulkCreate =====================

func bulkRequest(items []BulkSalaryItem) BulkCreateSalariesRequest {
	return BulkCreateSalariesRequest{
		PayDate:     time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		PeriodStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		Items:       items,
	}
}

func TestBulkCreateSalaries(t *testing.T) {
	t.Run("pairs ledger entries to paid salaries by index", func(t *testing.T) {
		f := newFixture()
		alice := f.expectEmployee("Alice")
		bob := f.expectEmployee("Bob")
		carol := f.expectEmployee("Carol")

		var batchEntries []*finance.LedgerEntry
		f.ledgerRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*finance.LedgerEntry")).
			Run(func(args mock.Arguments) {
				batchEntries = args.Get(1).([]*finance.LedgerEntry)
			}).Return(nil)

		var batchSalaries []*payroll.SalaryRecord
		f.salaryRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*payroll.SalaryRecord")).
			Run(func(args mock.Arguments) {
				batchSalaries = args.Get(1).([]*payroll.SalaryRecord)
			}).Return(nil)

		result, err := f.service.BulkCreate(context.Background(), bulkRequest([]BulkSalaryItem{
			{EmployeeID: alice, Amount: decimal.NewFromInt(40000), Status: "paid"},
			{EmployeeID: bob, Amount: decimal.NewFromInt(35000), Status: "pending"},
			{EmployeeID: carol, Amount: decimal.NewFromInt(55000), Status: "paid"},
		}))

		require.NoError(t, err)
		assert.Equal(t, 2, result.PaidCreated)
		assert.Equal(t, 1, result.PendingCreated)

		// Two entries for the paid subset, in input order.
		require.Len(t, batchEntries, 2)
		assert.Equal(t, "Employee payroll: Alice", batchEntries[0].Title)
		assert.True(t, batchEntries[0].Amount.Equal(decimal.NewFromInt(40000)))
		assert.Equal(t, "Employee payroll: Carol", batchEntries[1].Title)
		assert.True(t, batchEntries[1].Amount.Equal(decimal.NewFromInt(55000)))

		// Each paid salary references the entry at its own index.
		require.Len(t, batchSalaries, 3)
		require.NotNil(t, batchSalaries[0].LedgerEntryID)
		assert.Equal(t, batchEntries[0].GetID(), *batchSalaries[0].LedgerEntryID)
		require.NotNil(t, batchSalaries[1].LedgerEntryID)
		assert.Equal(t, batchEntries[1].GetID(), *batchSalaries[1].LedgerEntryID)
		assert.Nil(t, batchSalaries[2].LedgerEntryID)
		for _, s := range batchSalaries {
			assert.True(t, s.IsConsistent())
		}
	})

	t.Run("all pending skips the ledger entirely", func(t *testing.T) {
		f := newFixture()
		f.salaryRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*payroll.SalaryRecord")).Return(nil)

		result, err := f.service.BulkCreate(context.Background(), bulkRequest([]BulkSalaryItem{
			{EmployeeID: uuid.New(), Amount: decimal.NewFromInt(30000), Status: "pending"},
			{EmployeeID: uuid.New(), Amount: decimal.NewFromInt(31000), Status: "pending"},
		}))

		require.NoError(t, err)
		assert.Equal(t, 0, result.PaidCreated)
		assert.Equal(t, 2, result.PendingCreated)
		f.ledgerRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("ledger batch failure creates nothing", func(t *testing.T) {
		f := newFixture()
		alice := f.expectEmployee("Alice")
		f.ledgerRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		_, err := f.service.BulkCreate(context.Background(), bulkRequest([]BulkSalaryItem{
			{EmployeeID: alice, Amount: decimal.NewFromInt(40000), Status: "paid"},
		}))

		var writeErr *LedgerWriteError
		require.ErrorAs(t, err, &writeErr)
		f.salaryRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("salary batch failure orphans every created entry", func(t *testing.T) {
		f := newFixture()
		alice := f.expectEmployee("Alice")
		bob := f.expectEmployee("Bob")

		var batchEntries []*finance.LedgerEntry
		f.ledgerRepo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*finance.LedgerEntry")).
			Run(func(args mock.Arguments) {
				batchEntries = args.Get(1).([]*finance.LedgerEntry)
			}).Return(nil)
		f.salaryRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(errors.New("batch insert failed"))
		f.orphanRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *payroll.OrphanedLedgerEntry) bool {
			return o.Reason == payroll.OrphanReasonSalaryWriteFailed
		})).Return(nil)

		_, err := f.service.BulkCreate(context.Background(), bulkRequest([]BulkSalaryItem{
			{EmployeeID: alice, Amount: decimal.NewFromInt(40000), Status: "paid"},
			{EmployeeID: bob, Amount: decimal.NewFromInt(35000), Status: "paid"},
		}))

		var bulkErr *BulkReconciliationError
		require.ErrorAs(t, err, &bulkErr)
		require.Len(t, bulkErr.OrphanedEntryIDs, 2)
		assert.Equal(t, batchEntries[0].GetID(), bulkErr.OrphanedEntryIDs[0])
		assert.Equal(t, batchEntries[1].GetID(), bulkErr.OrphanedEntryIDs[1])
		f.orphanRepo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("rejects invalid item before any write", func(t *testing.T) {
		f := newFixture()

		_, err := f.service.BulkCreate(context.Background(), bulkRequest([]BulkSalaryItem{
			{EmployeeID: uuid.New(), Amount: decimal.NewFromInt(40000), Status: "paid"},
			{EmployeeID: uuid.New(), Amount: decimal.NewFromInt(-1), Status: "pending"},
		}))

		require.Error(t, err)
		f.ledgerRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		f.salaryRepo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})
}

// ===================== List =====================

func TestListSalaries(t *testing.T) {
	t.Run("returns records with employee display fields", func(t *testing.T) {
		f := newFixture()
		salary := newPendingSalary(t, uuid.New())
		rows := []payroll.SalaryWithEmployee{
			{SalaryRecord: *salary, EmployeeName: "Alice", EmployeeAvatarURL: "https://cdn.example.com/a.png"},
		}

		f.salaryRepo.On("FindAllWithEmployee", mock.Anything, mock.Anything).Return(rows, nil)
		f.salaryRepo.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil)

		responses, total, err := f.service.List(context.Background(), SalaryListFilter{Page: 1, PageSize: 20})

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, responses, 1)
		assert.Equal(t, "Alice", responses[0].EmployeeName)
		assert.Equal(t, salary.ID, responses[0].ID)
	})

	t.Run("rejects invalid status filter", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.service.List(context.Background(), SalaryListFilter{Status: "archived"})
		assert.Error(t, err)
	})
}
