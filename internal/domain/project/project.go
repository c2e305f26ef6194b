package project

import (
	"strings"
	"time"

	"github.com/worklane/backend/internal/domain/shared"
)

// Status represents the lifecycle state of a project
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// IsValid checks if the status is a valid project Status
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// AllStatuses lists every project status, in dashboard display order
func AllStatuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusCompleted, StatusCancelled}
}

// Project represents one tracked project
type Project struct {
	shared.BaseAggregateRoot
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      Status     `json:"status"`
}

// NewProject creates a new project in todo status
func NewProject(name, description string, startDate, endDate *time.Time) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}

	return &Project{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		StartDate:         startDate,
		EndDate:           endDate,
		Status:            StatusTodo,
	}, nil
}

// Update replaces the project's mutable fields
func (p *Project) Update(name, description string, startDate, endDate *time.Time, status Status) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Project status is not valid")
	}
	if startDate != nil && endDate != nil && endDate.Before(*startDate) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}

	p.Name = name
	p.Description = description
	p.StartDate = startDate
	p.EndDate = endDate
	p.Status = status
	p.Touch()
	return nil
}
