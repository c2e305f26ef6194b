package persistence

import (
	"context"

	"github.com/worklane/backend/internal/domain/payroll"
	"github.com/worklane/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrphanedLedgerEntryRepository implements OrphanedLedgerEntryRepository using GORM
type GormOrphanedLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormOrphanedLedgerEntryRepository creates a new GormOrphanedLedgerEntryRepository
func NewGormOrphanedLedgerEntryRepository(db *gorm.DB) *GormOrphanedLedgerEntryRepository {
	return &GormOrphanedLedgerEntryRepository{db: db}
}

// Create inserts a new orphan audit record
func (r *GormOrphanedLedgerEntryRepository) Create(ctx context.Context, orphan *payroll.OrphanedLedgerEntry) error {
	model := models.OrphanedLedgerEntryModelFromDomain(orphan)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindUnresolved returns all orphan records awaiting manual cleanup, oldest first
func (r *GormOrphanedLedgerEntryRepository) FindUnresolved(ctx context.Context) ([]payroll.OrphanedLedgerEntry, error) {
	var orphanModels []models.OrphanedLedgerEntryModel
	if err := r.db.WithContext(ctx).
		Where("resolved = ?", false).
		Order("created_at ASC").
		Find(&orphanModels).Error; err != nil {
		return nil, err
	}
	orphans := make([]payroll.OrphanedLedgerEntry, len(orphanModels))
	for i, model := range orphanModels {
		orphans[i] = *model.ToDomain()
	}
	return orphans, nil
}

// Save updates an orphan audit record
func (r *GormOrphanedLedgerEntryRepository) Save(ctx context.Context, orphan *payroll.OrphanedLedgerEntry) error {
	model := models.OrphanedLedgerEntryModelFromDomain(orphan)
	return r.db.WithContext(ctx).Save(model).Error
}
