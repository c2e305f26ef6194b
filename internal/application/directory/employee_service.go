package directory

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/worklane/backend/internal/domain/directory"
	"github.com/worklane/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ObjectStorageService abstracts the avatar object store. Implemented by
// the S3-compatible storage in infrastructure; tests use a stub.
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file.
	// Returns the upload URL and its expiration time.
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file.
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

const avatarUploadExpiry = 15 * time.Minute

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// EmployeeService manages the team directory
type EmployeeService struct {
	employeeRepo directory.EmployeeRepository
	storage      ObjectStorageService
	logger       *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo directory.EmployeeRepository, storage ObjectStorageService, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employeeRepo: employeeRepo,
		storage:      storage,
		logger:       logger,
	}
}

// CreateEmployeeRequest represents a request to create an employee
type CreateEmployeeRequest struct {
	FullName          string   `json:"full_name" binding:"required,max=120"`
	Position          string   `json:"position" binding:"required"`
	Email             string   `json:"email" binding:"omitempty,email"`
	Description       string   `json:"description"`
	BankAccountNumber string   `json:"bank_account_number"`
	Skills            []string `json:"skills"`
	GithubURL         string   `json:"github_url" binding:"omitempty,url"`
	LinkedinURL       string   `json:"linkedin_url" binding:"omitempty,url"`
}

// UpdateEmployeeRequest represents a request to update an employee
type UpdateEmployeeRequest struct {
	FullName          string   `json:"full_name" binding:"required,max=120"`
	Position          string   `json:"position" binding:"required"`
	Email             string   `json:"email" binding:"omitempty,email"`
	Description       string   `json:"description"`
	BankAccountNumber string   `json:"bank_account_number"`
	Skills            []string `json:"skills"`
	GithubURL         string   `json:"github_url" binding:"omitempty,url"`
	LinkedinURL       string   `json:"linkedin_url" binding:"omitempty,url"`
}

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID                uuid.UUID `json:"id"`
	FullName          string    `json:"full_name"`
	Position          string    `json:"position"`
	Email             string    `json:"email,omitempty"`
	Description       string    `json:"description,omitempty"`
	BankAccountNumber string    `json:"bank_account_number,omitempty"`
	Skills            []string  `json:"skills"`
	AvatarURL         string    `json:"avatar_url,omitempty"`
	GithubURL         string    `json:"github_url,omitempty"`
	LinkedinURL       string    `json:"linkedin_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EmployeeListFilter defines filtering options for directory listings
type EmployeeListFilter struct {
	Search   string
	Position string
	Page     int
	PageSize int
}

// AvatarUploadResponse carries a presigned upload target
type AvatarUploadResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Create adds a new employee to the directory
func (s *EmployeeService) Create(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := directory.NewEmployee(req.FullName, req.Position, req.Email)
	if err != nil {
		return nil, err
	}
	if err := employee.UpdateProfile(
		req.FullName, req.Position, req.Email,
		req.Description, req.BankAccountNumber, req.Skills,
		req.GithubURL, req.LinkedinURL,
	); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// Update replaces an employee's profile
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req UpdateEmployeeRequest) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := employee.UpdateProfile(
		req.FullName, req.Position, req.Email,
		req.Description, req.BankAccountNumber, req.Skills,
		req.GithubURL, req.LinkedinURL,
	); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// Delete removes an employee from the directory. Salary history keeps
// its employee ID; listings fall back to N/A for the display name.
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	if employee.AvatarURL != "" && s.storage != nil {
		if err := s.storage.DeleteObject(ctx, avatarKeyFromURL(employee.AvatarURL)); err != nil {
			s.logger.Warn("failed to delete avatar object",
				zap.String("employee_id", id.String()),
				zap.Error(err))
		}
	}
	return nil
}

// GetByID returns one employee
func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*EmployeeResponse, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// List returns employees matching the filter
func (s *EmployeeService) List(ctx context.Context, filter EmployeeListFilter) (*shared.Paginated[EmployeeResponse], error) {
	domainFilter := directory.EmployeeFilter{Position: filter.Position}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = "full_name"
	domainFilter.OrderDir = "asc"

	employees, err := s.employeeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.employeeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = *toEmployeeResponse(&employees[i])
	}
	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.Limit())
	return &result, nil
}

// Positions returns the distinct positions in use, for filter dropdowns
func (s *EmployeeService) Positions(ctx context.Context) ([]string, error) {
	return s.employeeRepo.DistinctPositions(ctx)
}

// RequestAvatarUpload issues a presigned upload URL for a new avatar
func (s *EmployeeService) RequestAvatarUpload(ctx context.Context, id uuid.UUID, contentType string) (*AvatarUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Avatar must be a JPEG, PNG or WebP image")
	}
	if _, err := s.employeeRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s/%s%s", id, uuid.New(), ext)
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, avatarUploadExpiry)
	if err != nil {
		return nil, err
	}
	return &AvatarUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: key,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmAvatarUpload records an uploaded avatar against the employee
// after verifying the object actually landed in storage.
func (s *EmployeeService) ConfirmAvatarUpload(ctx context.Context, id uuid.UUID, storageKey string) (*EmployeeResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	if !strings.HasPrefix(storageKey, fmt.Sprintf("avatars/%s/", id)) {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this employee")
	}

	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("OBJECT_NOT_FOUND", "Uploaded avatar was not found in storage")
	}

	previous := employee.AvatarURL
	employee.SetAvatarURL(storageKey)
	if err := s.employeeRepo.Save(ctx, employee); err != nil {
		return nil, err
	}

	if previous != "" && previous != storageKey {
		if err := s.storage.DeleteObject(ctx, avatarKeyFromURL(previous)); err != nil {
			s.logger.Warn("failed to delete previous avatar",
				zap.String("employee_id", id.String()),
				zap.Error(err))
		}
	}
	return toEmployeeResponse(employee), nil
}

// AvatarDownloadURL resolves a presigned download URL for the stored avatar
func (s *EmployeeService) AvatarDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	if s.storage == nil {
		return "", shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		return "", err
	}
	if employee.AvatarURL == "" {
		return "", shared.NewDomainError("NOT_FOUND", "Employee has no avatar")
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, avatarKeyFromURL(employee.AvatarURL), time.Hour)
	return url, err
}

// avatarKeyFromURL tolerates both bare storage keys and full URLs in the
// stored avatar field.
func avatarKeyFromURL(value string) string {
	if !strings.Contains(value, "://") {
		return value
	}
	parts := strings.SplitN(value, "://", 2)
	if i := strings.Index(parts[1], "/"); i >= 0 {
		return strings.TrimPrefix(path.Clean(parts[1][i:]), "/")
	}
	return value
}

func toEmployeeResponse(employee *directory.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		ID:                employee.ID,
		FullName:          employee.FullName,
		Position:          employee.Position,
		Email:             employee.Email,
		Description:       employee.Description,
		BankAccountNumber: employee.BankAccountNumber,
		Skills:            employee.Skills,
		AvatarURL:         employee.AvatarURL,
		GithubURL:         employee.GithubURL,
		LinkedinURL:       employee.LinkedinURL,
		CreatedAt:         employee.CreatedAt,
		UpdatedAt:         employee.UpdatedAt,
	}
}
