package directory

import (
	"strings"

	"github.com/worklane/backend/internal/domain/shared"
)

// Employee represents one person in the team directory. Payroll
// references employees by ID; the directory itself carries no payroll
// state.
type Employee struct {
	shared.BaseAggregateRoot
	FullName          string   `json:"full_name"`
	Position          string   `json:"position"`
	Email             string   `json:"email"`
	Description       string   `json:"description"`
	BankAccountNumber string   `json:"bank_account_number"`
	Skills            []string `json:"skills"`
	AvatarURL         string   `json:"avatar_url"`
	GithubURL         string   `json:"github_url"`
	LinkedinURL       string   `json:"linkedin_url"`
}

// NewEmployee creates a new employee profile
func NewEmployee(fullName, position, email string) (*Employee, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(fullName) > 120 {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 120 characters")
	}
	if position == "" {
		return nil, shared.NewDomainError("INVALID_POSITION", "Position cannot be empty")
	}

	return &Employee{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		Position:          position,
		Email:             email,
	}, nil
}

// UpdateProfile replaces the employee's profile fields
func (e *Employee) UpdateProfile(fullName, position, email, description, bankAccountNumber string, skills []string, githubURL, linkedinURL string) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if position == "" {
		return shared.NewDomainError("INVALID_POSITION", "Position cannot be empty")
	}

	e.FullName = fullName
	e.Position = position
	e.Email = email
	e.Description = description
	e.BankAccountNumber = bankAccountNumber
	e.Skills = skills
	e.GithubURL = githubURL
	e.LinkedinURL = linkedinURL
	e.Touch()
	return nil
}

// SetAvatarURL updates the avatar location after an upload
func (e *Employee) SetAvatarURL(url string) {
	e.AvatarURL = url
	e.Touch()
}
