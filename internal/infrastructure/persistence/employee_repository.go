package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/directory"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by ID
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds employees with filtering
func (r *GormEmployeeRepository) FindAll(ctx context.Context, filter directory.EmployeeFilter) ([]directory.Employee, error) {
	var employeeModels []models.EmployeeModel
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&employeeModels).Error; err != nil {
		return nil, err
	}
	employees := make([]directory.Employee, len(employeeModels))
	for i, model := range employeeModels {
		employees[i] = *model.ToDomain()
	}
	return employees, nil
}

// Count counts employees matching the filter
func (r *GormEmployeeRepository) Count(ctx context.Context, filter directory.EmployeeFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new employee
func (r *GormEmployeeRepository) Create(ctx context.Context, employee *directory.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *directory.Employee) error {
	model := models.EmployeeModelFromDomain(employee)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes an employee
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EmployeeModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DistinctPositions returns every position in use, alphabetically
func (r *GormEmployeeRepository) DistinctPositions(ctx context.Context) ([]string, error) {
	var positions []string
	err := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
		Distinct("position").
		Where("position <> ''").
		Order("position ASC").
		Pluck("position", &positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

// applyFilter applies filter conditions to query
func (r *GormEmployeeRepository) applyFilter(query *gorm.DB, filter directory.EmployeeFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// The directory reads like a roster: alphabetical unless asked otherwise
	sortField := ValidateSortField(filter.OrderBy, EmployeeSortFields, "full_name")
	sortOrder := ValidateSortOrder(filter.OrderDir, "ASC")
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

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
func (r *GormEmployeeRepository) applyFilterWithoutPagination(query *gorm.DB, filter directory.EmployeeFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?)", searchPattern, searchPattern)
	}

	if filter.Position != "" {
		query = query.Where("position = ?", filter.Position)
	}

	return query
}
