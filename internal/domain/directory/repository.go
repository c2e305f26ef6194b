package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/shared"
)

// EmployeeFilter defines filtering options for directory queries
type EmployeeFilter struct {
	shared.Filter
	Position string
}

// EmployeeRepository defines persistence operations for employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindAll(ctx context.Context, filter EmployeeFilter) ([]Employee, error)
	Count(ctx context.Context, filter EmployeeFilter) (int64, error)
	Create(ctx context.Context, employee *Employee) error
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	DistinctPositions(ctx context.Context) ([]string, error)
}
