package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payrollapp "github.com/worklane/backend/internal/application/payroll"
	"github.com/worklane/backend/internal/domain/payroll"
)

// SalaryHandler handles payroll API endpoints
type SalaryHandler struct {
	BaseHandler
	salaryService *payrollapp.SalaryService
}

// NewSalaryHandler creates a new SalaryHandler
func NewSalaryHandler(salaryService *payrollapp.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaryService: salaryService}
}

// salaryListQuery binds the salary listing query parameters
type salaryListQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending paid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// transitionStatusRequest is the body of a status transition
type transitionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending paid"`
}

// orphanedEntryResponse represents an unresolved orphaned ledger entry
type orphanedEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	LedgerEntryID uuid.UUID  `json:"ledger_entry_id"`
	SalaryID      *uuid.UUID `json:"salary_id,omitempty"`
	Reason        string     `json:"reason"`
	Detail        string     `json:"detail,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// List godoc
// @Summary      List salary records
// @Description  Paginated salary records joined with employee display fields
// @Tags         salaries
// @Produce      json
// @Param        employee_id query string false "Employee ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, paid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]payrollapp.SalaryWithEmployeeResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /salaries [get]
func (h *SalaryHandler) List(c *gin.Context) {
	var q salaryListQuery
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

	filter := payrollapp.SalaryListFilter{
		Status:   q.Status,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.EmployeeID != "" {
		employeeID, err := uuid.Parse(q.EmployeeID)
		if err != nil {
			h.BadRequest(c, "Invalid employee ID format")
			return
		}
		filter.EmployeeID = &employeeID
	}

	salaries, total, err := h.salaryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, salaries, total, q.Page, q.PageSize)
}

// GetByID godoc
// @Summary      Get salary record by ID
// @Tags         salaries
// @Produce      json
// @Param        id path string true "Salary record ID" format(uuid)
// @Success      200 {object} dto.Response{data=payrollapp.SalaryResponse}
// @Security     BearerAuth
// @Router       /salaries/{id} [get]
func (h *SalaryHandler) GetByID(c *gin.Context) {
	salaryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid salary record ID format")
		return
	}

	salary, err := h.salaryService.GetByID(c.Request.Context(), salaryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, salary)
}

// Create godoc
// @Summary      Create a salary record
// @Description  Creating with status paid also records the backing ledger entry
// @Tags         salaries
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.CreateSalaryRequest true "Salary record"
// @Success      201 {object} dto.Response{data=payrollapp.SalaryResponse}
// @Security     BearerAuth
// @Router       /salaries [post]
func (h *SalaryHandler) Create(c *gin.Context) {
	var req payrollapp.CreateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	salary, err := h.salaryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, salary)
}

// Update godoc
// @Summary      Update a salary record
// @Description  Partial update; a status change keeps the ledger in sync
// @Tags         salaries
// @Accept       json
// @Produce      json
// @Param        id path string true "Salary record ID" format(uuid)
// @Param        request body payrollapp.UpdateSalaryRequest true "Fields to update"
// @Success      200 {object} dto.Response{data=payrollapp.SalaryResponse}
// @Security     BearerAuth
// @Router       /salaries/{id} [put]
func (h *SalaryHandler) Update(c *gin.Context) {
	salaryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid salary record ID format")
		return
	}

	var req payrollapp.UpdateSalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.salaryService.Update(c.Request.Context(), salaryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Warning != "" {
		h.SuccessWithWarning(c, result.Salary, result.Warning)
		return
	}
	h.Success(c, result.Salary)
}

// TransitionStatus godoc
// @Summary      Transition a salary record between pending and paid
// @Description  pending to paid records a ledger entry first; paid to pending
// @Description  clears the salary first and then removes the entry
// @Tags         salaries
// @Accept       json
// @Produce      json
// @Param        id path string true "Salary record ID" format(uuid)
// @Param        request body transitionStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=payrollapp.SalaryResponse}
// @Security     BearerAuth
// @Router       /salaries/{id}/status [patch]
func (h *SalaryHandler) TransitionStatus(c *gin.Context) {
	salaryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid salary record ID format")
		return
	}

	var req transitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.salaryService.TransitionStatus(c.Request.Context(), salaryID, payroll.SalaryStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Warning != "" {
		h.SuccessWithWarning(c, result.Salary, result.Warning)
		return
	}
	h.Success(c, result.Salary)
}

// Delete godoc
// @Summary      Delete a salary record
// @Description  Also removes the linked ledger entry; a failed entry delete
// @Description  is reported as a warning, not an error
// @Tags         salaries
// @Produce      json
// @Param        id path string true "Salary record ID" format(uuid)
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /salaries/{id} [delete]
func (h *SalaryHandler) Delete(c *gin.Context) {
	salaryID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid salary record ID format")
		return
	}

	result, err := h.salaryService.Delete(c.Request.Context(), salaryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.Warning != "" {
		h.SuccessWithWarning(c, nil, result.Warning)
		return
	}
	h.NoContent(c)
}

// BulkCreate godoc
// @Summary      Create salary records for many employees at once
// @Description  Ledger entries for the paid subset are batch-created before
// @Description  the salary records; a failure after that point reports the
// @Description  orphaned entry IDs
// @Tags         salaries
// @Accept       json
// @Produce      json
// @Param        request body payrollapp.BulkCreateSalariesRequest true "Bulk payout"
// @Success      201 {object} dto.Response{data=payrollapp.BulkCreateResult}
// @Security     BearerAuth
// @Router       /salaries/bulk [post]
func (h *SalaryHandler) BulkCreate(c *gin.Context) {
	var req payrollapp.BulkCreateSalariesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.salaryService.BulkCreate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListOrphans godoc
// @Summary      List unresolved orphaned ledger entries
// @Description  Reconciliation issues left behind by partial failures,
// @Description  oldest first
// @Tags         salaries
// @Produce      json
// @Success      200 {object} dto.Response{data=[]orphanedEntryResponse}
// @Security     BearerAuth
// @Router       /salaries/orphans [get]
func (h *SalaryHandler) ListOrphans(c *gin.Context) {
	orphans, err := h.salaryService.ListOrphans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]orphanedEntryResponse, len(orphans))
	for i, o := range orphans {
		responses[i] = orphanedEntryResponse{
			ID:            o.ID,
			LedgerEntryID: o.LedgerEntryID,
			SalaryID:      o.SalaryID,
			Reason:        string(o.Reason),
			Detail:        o.Detail,
			CreatedAt:     o.CreatedAt,
		}
	}
	h.Success(c, responses)
}
