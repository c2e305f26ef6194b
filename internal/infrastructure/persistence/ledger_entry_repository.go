package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/finance"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByID finds a ledger entry by its ID
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds ledger entries with filtering
func (r *GormLedgerEntryRepository) FindAll(ctx context.Context, filter finance.LedgerEntryFilter) ([]finance.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]finance.LedgerEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// Count counts ledger entries matching the filter
func (r *GormLedgerEntryRepository) Count(ctx context.Context, filter finance.LedgerEntryFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new ledger entry
func (r *GormLedgerEntryRepository) Create(ctx context.Context, entry *finance.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// CreateBatch inserts multiple ledger entries in a single transaction,
// preserving the order of the input slice. Callers pair the persisted
// entries back to their sources by index, so the slice is never reordered.
func (r *GormLedgerEntryRepository) CreateBatch(ctx context.Context, entries []*finance.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}

	entryModels := make([]*models.LedgerEntryModel, len(entries))
	for i, entry := range entries {
		entryModels[i] = models.LedgerEntryModelFromDomain(entry)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entryModels).Error
	})
}

// Save updates an existing ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *finance.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a ledger entry
func (r *GormLedgerEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LedgerEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Totals computes income, expense and net figures over an optional date range
func (r *GormLedgerEntryRepository) Totals(ctx context.Context, from, to *time.Time) (*finance.LedgerTotals, error) {
	var result struct {
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		EntryCount   int64
	}

	query := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Select(
			"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_expense, "+
				"COUNT(*) as entry_count",
			finance.EntryTypeIncome, finance.EntryTypeExpense,
		)
	if from != nil {
		query = query.Where("transaction_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("transaction_date <= ?", *to)
	}

	if err := query.Scan(&result).Error; err != nil {
		return nil, err
	}

	return &finance.LedgerTotals{
		TotalIncome:  result.TotalIncome,
		TotalExpense: result.TotalExpense,
		NetAmount:    result.TotalIncome.Sub(result.TotalExpense),
		EntryCount:   result.EntryCount,
	}, nil
}

// MonthlyTotals computes per-month aggregates for the most recent N months
// that contain entries, newest first.
func (r *GormLedgerEntryRepository) MonthlyTotals(ctx context.Context, months int) ([]finance.MonthlyLedgerTotals, error) {
	if months <= 0 {
		months = 12
	}

	var rows []struct {
		Month        string
		TotalIncome  decimal.Decimal
		TotalExpense decimal.Decimal
		EntryCount   int64
	}

	monthExpr := monthBucketExpr(r.db)
	err := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Select(
			monthExpr+" as month, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_income, "+
				"COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0) as total_expense, "+
				"COUNT(*) as entry_count",
			finance.EntryTypeIncome, finance.EntryTypeExpense,
		).
		Group(monthExpr).
		Order("month DESC").
		Limit(months).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make([]finance.MonthlyLedgerTotals, len(rows))
	for i, row := range rows {
		totals[i] = finance.MonthlyLedgerTotals{
			Month:        row.Month,
			TotalIncome:  row.TotalIncome,
			TotalExpense: row.TotalExpense,
			NetAmount:    row.TotalIncome.Sub(row.TotalExpense),
			EntryCount:   row.EntryCount,
		}
	}
	return totals, nil
}

// monthBucketExpr returns the SQL expression that buckets transaction_date
// into a "YYYY-MM" string for the connected dialect. sqlite has no to_char.
func monthBucketExpr(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "strftime('%Y-%m', transaction_date)"
	}
	return "to_char(transaction_date, 'YYYY-MM')"
}

// DistinctCategories returns every category in use, alphabetically
func (r *GormLedgerEntryRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.LedgerEntryModel{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// applyFilter applies filter conditions to query
func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter finance.LedgerEntryFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply sorting with whitelist validation to prevent SQL injection
	sortField := ValidateSortField(filter.OrderBy, LedgerEntrySortFields, "transaction_date")
	sortOrder := ValidateSortOrder(filter.OrderDir, "DESC")
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

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
func (r *GormLedgerEntryRepository) applyFilterWithoutPagination(query *gorm.DB, filter finance.LedgerEntryFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(notes) LIKE ?)", searchPattern, searchPattern)
	}

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.FromDate != nil {
		query = query.Where("transaction_date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("transaction_date <= ?", *filter.ToDate)
	}

	return query
}
