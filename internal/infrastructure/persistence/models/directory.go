package models

import (
	"github.com/worklane/backend/internal/domain/directory"
)

// EmployeeModel is the persistence model for the Employee aggregate root.
// Skills are stored as a JSON document so the column works the same on
// PostgreSQL and the SQLite test databases.
type EmployeeModel struct {
	AggregateModel
	FullName          string   `gorm:"type:varchar(120);not null;index"`
	Position          string   `gorm:"type:varchar(100);not null;index"`
	Email             string   `gorm:"type:varchar(200)"`
	Description       string   `gorm:"type:text"`
	BankAccountNumber string   `gorm:"type:varchar(50)"`
	Skills            []string `gorm:"serializer:json;type:text"`
	AvatarURL         string   `gorm:"type:varchar(500)"`
	GithubURL         string   `gorm:"type:varchar(500)"`
	LinkedinURL       string   `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee entity.
func (m *EmployeeModel) ToDomain() *directory.Employee {
	return &directory.Employee{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FullName:          m.FullName,
		Position:          m.Position,
		Email:             m.Email,
		Description:       m.Description,
		BankAccountNumber: m.BankAccountNumber,
		Skills:            m.Skills,
		AvatarURL:         m.AvatarURL,
		GithubURL:         m.GithubURL,
		LinkedinURL:       m.LinkedinURL,
	}
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee.
func EmployeeModelFromDomain(e *directory.Employee) *EmployeeModel {
	m := &EmployeeModel{
		FullName:          e.FullName,
		Position:          e.Position,
		Email:             e.Email,
		Description:       e.Description,
		BankAccountNumber: e.BankAccountNumber,
		Skills:            e.Skills,
		AvatarURL:         e.AvatarURL,
		GithubURL:         e.GithubURL,
		LinkedinURL:       e.LinkedinURL,
	}
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	return m
}
