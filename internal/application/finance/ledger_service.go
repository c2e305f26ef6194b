package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/worklane/backend/internal/domain/finance"
	"github.com/worklane/backend/internal/domain/shared"
	"github.com/worklane/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// StatsCache caches computed ledger statistics. Implementations are
// best-effort: a miss or error just falls through to the repository.
type StatsCache interface {
	GetStats(ctx context.Context, key string) (*LedgerStatsResponse, bool)
	SetStats(ctx context.Context, key string, stats *LedgerStatsResponse, ttl time.Duration)
	Invalidate(ctx context.Context)
}

const statsCacheKey = "finance:stats"
const statsCacheTTL = 5 * time.Minute

// monthlySummaryMonths is the window shown on the dashboard chart.
const monthlySummaryMonths = 12

// LedgerService manages general bookkeeping entries. Payroll-owned
// entries flow through the salary workflow; this service covers direct
// operator bookkeeping plus read models for both.
type LedgerService struct {
	ledgerRepo finance.LedgerEntryRepository
	cache      StatsCache
	logger     *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(ledgerRepo finance.LedgerEntryRepository, cache StatsCache, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		ledgerRepo: ledgerRepo,
		cache:      cache,
		logger:     logger,
	}
}

// CreateLedgerEntryRequest represents a request to create a ledger entry
type CreateLedgerEntryRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=income expense"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes"`
}

// UpdateLedgerEntryRequest represents a request to update a ledger entry
type UpdateLedgerEntryRequest struct {
	Title           string          `json:"title" binding:"required,max=200"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=income expense"`
	Category        string          `json:"category"`
	Notes           string          `json:"notes"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Type            string          `json:"type"`
	Category        string          `json:"category,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LedgerListFilter defines filtering options for ledger listings
type LedgerListFilter struct {
	Search   string
	Type     string
	Category string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	PageSize int
}

// LedgerStatsResponse aggregates the figures shown on the dashboard
type LedgerStatsResponse struct {
	Totals  finance.LedgerTotals          `json:"totals"`
	Monthly []finance.MonthlyLedgerTotals `json:"monthly"`
}

// Create inserts a stand-alone ledger entry
func (s *LedgerService) Create(ctx context.Context, req CreateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := finance.NewLedgerEntry(
		req.Title,
		valueobject.NewMoneyTHB(req.Amount),
		req.TransactionDate,
		finance.EntryType(req.Type),
		req.Category,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return toLedgerEntryResponse(entry), nil
}

// Update replaces a ledger entry's fields
func (s *LedgerService) Update(ctx context.Context, id uuid.UUID, req UpdateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entry.Update(
		req.Title,
		valueobject.NewMoneyTHB(req.Amount),
		req.TransactionDate,
		finance.EntryType(req.Type),
		req.Category,
		req.Notes,
	); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	s.invalidateStats(ctx)
	return toLedgerEntryResponse(entry), nil
}

// Delete removes a ledger entry
func (s *LedgerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.ledgerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.ledgerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateStats(ctx)
	return nil
}

// GetByID returns one ledger entry
func (s *LedgerService) GetByID(ctx context.Context, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLedgerEntryResponse(entry), nil
}

// List returns ledger entries ordered by transaction date, newest first
func (s *LedgerService) List(ctx context.Context, filter LedgerListFilter) (*shared.Paginated[LedgerEntryResponse], error) {
	domainFilter := finance.LedgerEntryFilter{
		Category: filter.Category,
		FromDate: filter.FromDate,
		ToDate:   filter.ToDate,
	}
	domainFilter.Search = filter.Search
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.OrderBy = "transaction_date"
	domainFilter.OrderDir = "desc"

	if filter.Type != "" {
		entryType := finance.EntryType(filter.Type)
		if !entryType.IsValid() {
			return nil, shared.NewDomainError("INVALID_TYPE", "Entry type must be income or expense")
		}
		domainFilter.Type = &entryType
	}

	entries, err := s.ledgerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.ledgerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = *toLedgerEntryResponse(&entries[i])
	}

	result := shared.NewPaginated(responses, total, domainFilter.Page, domainFilter.Limit())
	return &result, nil
}

// Stats returns overall totals plus the trailing monthly summary,
// cached because the dashboard polls it.
func (s *LedgerService) Stats(ctx context.Context) (*LedgerStatsResponse, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetStats(ctx, statsCacheKey); ok {
			return cached, nil
		}
	}

	totals, err := s.ledgerRepo.Totals(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	monthly, err := s.ledgerRepo.MonthlyTotals(ctx, monthlySummaryMonths)
	if err != nil {
		return nil, err
	}

	stats := &LedgerStatsResponse{Totals: *totals, Monthly: monthly}
	if s.cache != nil {
		s.cache.SetStats(ctx, statsCacheKey, stats, statsCacheTTL)
	}
	return stats, nil
}

// Categories returns the distinct category names in use
func (s *LedgerService) Categories(ctx context.Context) ([]string, error) {
	return s.ledgerRepo.DistinctCategories(ctx)
}

func (s *LedgerService) invalidateStats(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func toLedgerEntryResponse(entry *finance.LedgerEntry) *LedgerEntryResponse {
	return &LedgerEntryResponse{
		ID:              entry.ID,
		Title:           entry.Title,
		Amount:          entry.Amount,
		TransactionDate: entry.TransactionDate,
		Type:            entry.Type.String(),
		Category:        entry.Category,
		Notes:           entry.Notes,
		CreatedAt:       entry.CreatedAt,
		UpdatedAt:       entry.UpdatedAt,
	}
}
