package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/shared"
)

// ProjectFilter defines filtering options for project queries
type ProjectFilter struct {
	shared.Filter
	Status *Status
}

// StatusCounts holds the per-status project totals for the dashboard
type StatusCounts struct {
	Total      int64 `json:"total"`
	Todo       int64 `json:"todo"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Cancelled  int64 `json:"cancelled"`
}

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindAll(ctx context.Context, filter ProjectFilter) ([]Project, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
	Create(ctx context.Context, project *Project) error
	Save(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}
