package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	financeapp "github.com/worklane/backend/internal/application/finance"
)

// LedgerHandler handles finance ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	ledgerService *financeapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *financeapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// ledgerListQuery binds the ledger listing query parameters
type ledgerListQuery struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=income expense"`
	Category string `form:"category"`
	FromDate string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List godoc
// @Summary      List ledger entries
// @Description  Paginated ledger entries, newest transaction first
// @Tags         finance
// @Produce      json
// @Param        search query string false "Search term (title, notes)"
// @Param        type query string false "Entry type" Enums(income, expense)
// @Param        category query string false "Category"
// @Param        from_date query string false "From date (YYYY-MM-DD)" format(date)
// @Param        to_date query string false "To date (YYYY-MM-DD)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]financeapp.LedgerEntryResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /finance/entries [get]
func (h *LedgerHandler) List(c *gin.Context) {
	var q ledgerListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 20
	}

	filter := financeapp.LedgerListFilter{
		Search:   q.Search,
		Type:     q.Type,
		Category: q.Category,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.FromDate != "" {
		from, err := time.Parse("2006-01-02", q.FromDate)
		if err != nil {
			h.BadRequest(c, "Invalid from_date format, expected YYYY-MM-DD")
			return
		}
		filter.FromDate = &from
	}
	if q.ToDate != "" {
		to, err := time.Parse("2006-01-02", q.ToDate)
		if err != nil {
			h.BadRequest(c, "Invalid to_date format, expected YYYY-MM-DD")
			return
		}
		// Inclusive upper bound: extend to the end of the day
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.ToDate = &to
	}

	result, err := h.ledgerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, q.Page, q.PageSize)
}

// GetByID godoc
// @Summary      Get ledger entry by ID
// @Tags         finance
// @Produce      json
// @Param        id path string true "Ledger entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=financeapp.LedgerEntryResponse}
// @Security     BearerAuth
// @Router       /finance/entries/{id} [get]
func (h *LedgerHandler) GetByID(c *gin.Context) {
	entryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid ledger entry ID format")
		return
	}

	entry, err := h.ledgerService.GetByID(c.Request.Context(), entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Create godoc
// @Summary      Create a ledger entry
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateLedgerEntryRequest true "Ledger entry"
// @Success      201 {object} dto.Response{data=financeapp.LedgerEntryResponse}
// @Security     BearerAuth
// @Router       /finance/entries [post]
func (h *LedgerHandler) Create(c *gin.Context) {
	var req financeapp.CreateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.ledgerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Update godoc
// @Summary      Update a ledger entry
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Ledger entry ID" format(uuid)
// @Param        request body financeapp.UpdateLedgerEntryRequest true "Ledger entry"
// @Success      200 {object} dto.Response{data=financeapp.LedgerEntryResponse}
// @Security     BearerAuth
// @Router       /finance/entries/{id} [put]
func (h *LedgerHandler) Update(c *gin.Context) {
	entryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid ledger entry ID format")
		return
	}

	var req financeapp.UpdateLedgerEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.ledgerService.Update(c.Request.Context(), entryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Delete godoc
// @Summary      Delete a ledger entry
// @Tags         finance
// @Produce      json
// @Param        id path string true "Ledger entry ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /finance/entries/{id} [delete]
func (h *LedgerHandler) Delete(c *gin.Context) {
	entryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid ledger entry ID format")
		return
	}

	if err := h.ledgerService.Delete(c.Request.Context(), entryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats godoc
// @Summary      Ledger statistics
// @Description  Overall income/expense/net totals plus the trailing
// @Description  twelve-month summary for the dashboard
// @Tags         finance
// @Produce      json
// @Success      200 {object} dto.Response{data=financeapp.LedgerStatsResponse}
// @Security     BearerAuth
// @Router       /finance/stats [get]
func (h *LedgerHandler) Stats(c *gin.Context) {
	stats, err := h.ledgerService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Categories godoc
// @Summary      List distinct ledger categories
// @Tags         finance
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Security     BearerAuth
// @Router       /finance/categories [get]
func (h *LedgerHandler) Categories(c *gin.Context) {
	categories, err := h.ledgerService.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}
