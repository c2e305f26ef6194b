package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/project"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds projects with filtering
func (r *GormProjectRepository) FindAll(ctx context.Context, filter project.ProjectFilter) ([]project.Project, error) {
	var projectModels []models.ProjectModel
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{})
	query = r.applyFilter(query, filter)

	if err := query.Find(&projectModels).Error; err != nil {
		return nil, err
	}
	projects := make([]project.Project, len(projectModels))
	for i, model := range projectModels {
		projects[i] = *model.ToDomain()
	}
	return projects, nil
}

// Count counts projects matching the filter
func (r *GormProjectRepository) Count(ctx context.Context, filter project.ProjectFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new project
func (r *GormProjectRepository) Create(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing project
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a project
func (r *GormProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProjectModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus returns per-status project totals for the dashboard
func (r *GormProjectRepository) CountByStatus(ctx context.Context) (*project.StatusCounts, error) {
	var rows []struct {
		Status project.Status
		Count  int64
	}

	err := r.db.WithContext(ctx).Model(&models.ProjectModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &project.StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case project.StatusTodo:
			counts.Todo = row.Count
		case project.StatusInProgress:
			counts.InProgress = row.Count
		case project.StatusCompleted:
			counts.Completed = row.Count
		case project.StatusCancelled:
			counts.Cancelled = row.Count
		}
	}
	return counts, nil
}

// applyFilter applies filter conditions to query
func (r *GormProjectRepository) applyFilter(query *gorm.DB, filter project.ProjectFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ProjectSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir, "DESC")
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
func (r *GormProjectRepository) applyFilterWithoutPagination(query *gorm.DB, filter project.ProjectFilter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", searchPattern, searchPattern)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	return query
}
