package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/project"
	"github.com/worklane/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProjectService manages the project tracker
type ProjectService struct {
	projectRepo project.ProjectRepository
	logger      *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo project.ProjectRepository, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{projectRepo: projectRepo, logger: logger}
}

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// UpdateProjectRequest represents a request to update a project
type UpdateProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" binding:"required,oneof=todo in_progress completed cancelled"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectListFilter defines filtering options for project listings
type ProjectListFilter struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

// Create adds a new project in todo status
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*ProjectResponse, error) {
	p, err := project.NewProject(req.Name, req.Description, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if err := s.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// Update replaces a project's fields and status
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Description, req.StartDate, req.EndDate, project.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// Delete removes a project
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.projectRepo.Delete(ctx, id)
}

// GetByID returns one project
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*ProjectResponse, error) {
	p, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(p), nil
}

// List returns projects matching the filter
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) (*shared.Paginated[ProjectResponse], error) {
	domainFilter := project.ProjectFilter{}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = "created_at"
	domainFilter.OrderDir = "desc"

	if filter.Status != "" {
		status := project.Status(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Unknown project status")
		}
		domainFilter.Status = &status
	}

	projects, err := s.projectRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.projectRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = *toProjectResponse(&projects[i])
	}
	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.Limit())
	return &result, nil
}

// StatusCounts returns the per-status totals for the dashboard
func (s *ProjectService) StatusCounts(ctx context.Context) (*project.StatusCounts, error) {
	return s.projectRepo.CountByStatus(ctx)
}

func toProjectResponse(p *project.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      p.Status.String(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
