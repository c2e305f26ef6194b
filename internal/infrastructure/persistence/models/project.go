package models

import (
	"time"

	"github.com/worklane/backend/internal/domain/project"
)

// ProjectModel is the persistence model for the Project aggregate root.
type ProjectModel struct {
	AggregateModel
	Name        string         `gorm:"type:varchar(200);not null"`
	Description string         `gorm:"type:text"`
	StartDate   *time.Time     `gorm:"index"`
	EndDate     *time.Time     `gorm:"index"`
	Status      project.Status `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project entity.
func (m *ProjectModel) ToDomain() *project.Project {
	return &project.Project{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		Status:            m.Status,
	}
}

// ProjectModelFromDomain creates a persistence model from a domain Project.
func ProjectModelFromDomain(p *project.Project) *ProjectModel {
	m := &ProjectModel{
		Name:        p.Name,
		Description: p.Description,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Status:      p.Status,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
