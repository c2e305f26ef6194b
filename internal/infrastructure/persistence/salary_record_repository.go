package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/payroll"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSalaryRecordRepository implements SalaryRecordRepository using GORM
type GormSalaryRecordRepository struct {
	db *gorm.DB
}

// NewGormSalaryRecordRepository creates a new GormSalaryRecordRepository
func NewGormSalaryRecordRepository(db *gorm.DB) *GormSalaryRecordRepository {
	return &GormSalaryRecordRepository{db: db}
}

// FindByID finds a salary record by its ID
func (r *GormSalaryRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryRecord, error) {
	var model models.SalaryRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds salary records with filtering
func (r *GormSalaryRecordRepository) FindAll(ctx context.Context, filter payroll.SalaryRecordFilter) ([]payroll.SalaryRecord, error) {
	var recordModels []models.SalaryRecordModel
	query := r.db.WithContext(ctx).Model(&models.SalaryRecordModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]payroll.SalaryRecord, len(recordModels))
	for i, model := range recordModels {
		records[i] = *model.ToDomain()
	}
	return records, nil
}

// FindAllWithEmployee finds salary records joined with employee display
// fields. Records whose employee was deleted still appear, with empty
// display fields.
func (r *GormSalaryRecordRepository) FindAllWithEmployee(ctx context.Context, filter payroll.SalaryRecordFilter) ([]payroll.SalaryWithEmployee, error) {
	var rows []models.SalaryWithEmployeeRow
	query := r.db.WithContext(ctx).Model(&models.SalaryRecordModel{}).
		Select("salary_records.*, COALESCE(employees.full_name, '') as employee_name, COALESCE(employees.avatar_url, '') as employee_avatar_url").
		Joins("LEFT JOIN employees ON employees.id = salary_records.employee_id")
	query = r.applyFilter(query, filter)

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	results := make([]payroll.SalaryWithEmployee, len(rows))
	for i, row := range rows {
		results[i] = row.ToDomain()
	}
	return results, nil
}

// Count counts salary records matching the filter
func (r *GormSalaryRecordRepository) Count(ctx context.Context, filter payroll.SalaryRecordFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SalaryRecordModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new salary record
func (r *GormSalaryRecordRepository) Create(ctx context.Context, record *payroll.SalaryRecord) error {
	model := models.SalaryRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateBatch inserts multiple salary records in a single transaction,
// preserving the order of the input slice.
func (r *GormSalaryRecordRepository) CreateBatch(ctx context.Context, records []*payroll.SalaryRecord) error {
	if len(records) == 0 {
		return nil
	}

	recordModels := make([]*models.SalaryRecordModel, len(records))
	for i, record := range records {
		recordModels[i] = models.SalaryRecordModelFromDomain(record)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recordModels).Error
	})
}

// Save updates an existing salary record without a version check
func (r *GormSalaryRecordRepository) Save(ctx context.Context, record *payroll.SalaryRecord) error {
	model := models.SalaryRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock updates the salary record with optimistic locking. The
// update only applies when the stored version matches the version the
// record was loaded with; a stale write returns
// shared.ErrConcurrencyConflict and leaves the row untouched. On success
// the in-memory record's version is bumped to match the row.
func (r *GormSalaryRecordRepository) SaveWithLock(ctx context.Context, record *payroll.SalaryRecord) error {
	loadedVersion := record.GetVersion()

	model := models.SalaryRecordModelFromDomain(record)
	model.Version = loadedVersion + 1

	result := r.db.WithContext(ctx).Model(&models.SalaryRecordModel{}).
		Where("id = ? AND version = ?", record.GetID(), loadedVersion).
		Updates(map[string]interface{}{
			"employee_id":     model.EmployeeID,
			"amount":          model.Amount,
			"pay_date":        model.PayDate,
			"period_start":    model.PeriodStart,
			"period_end":      model.PeriodEnd,
			"notes":           model.Notes,
			"status":          model.Status,
			"ledger_entry_id": model.LedgerEntryID,
			"updated_at":      model.UpdatedAt,
			"version":         model.Version,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	record.IncrementVersion()
	return nil
}

// Delete removes a salary record
func (r *GormSalaryRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SalaryRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter conditions to query
func (r *GormSalaryRecordRepository) applyFilter(query *gorm.DB, filter payroll.SalaryRecordFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, SalaryRecordSortFields, "pay_date")
	sortOrder := ValidateSortOrder(filter.OrderDir, "DESC")
	query = query.Order(fmt.Sprintf("salary_records.%s %s", sortField, sortOrder))

	// Apply pagination
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormSalaryRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter payroll.SalaryRecordFilter) *gorm.DB {
	if filter.EmployeeID != nil {
		query = query.Where("salary_records.employee_id = ?", *filter.EmployeeID)
	}

	if filter.Status != nil {
		query = query.Where("salary_records.status = ?", *filter.Status)
	}

	if from, ok := filter.Filters["pay_date_from"].(time.Time); ok {
		query = query.Where("salary_records.pay_date >= ?", from)
	}
	if to, ok := filter.Filters["pay_date_to"].(time.Time); ok {
		query = query.Where("salary_records.pay_date <= ?", to)
	}

	return query
}
