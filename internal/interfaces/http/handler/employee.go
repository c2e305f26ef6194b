package handler

import (
	"github.com/gin-gonic/gin"
	directoryapp "github.com/worklane/backend/internal/application/directory"
)

// EmployeeHandler handles team directory API endpoints
type EmployeeHandler struct {
	BaseHandler
	employeeService *directoryapp.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employeeService *directoryapp.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// employeeListQuery binds the directory listing query parameters
type employeeListQuery struct {
	Search   string `form:"search"`
	Position string `form:"position"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// avatarUploadRequest asks for a presigned avatar upload URL
type avatarUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// avatarConfirmRequest confirms a completed avatar upload
type avatarConfirmRequest struct {
	StorageKey string `json:"storage_key" binding:"required"`
}

// List godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        search query string false "Search term (name, email)"
// @Param        position query string false "Position filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]directoryapp.EmployeeResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	var q employeeListQuery
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

	result, err := h.employeeService.List(c.Request.Context(), directoryapp.EmployeeListFilter{
		Search:   q.Search,
		Position: q.Position,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, q.Page, q.PageSize)
}

// GetByID godoc
// @Summary      Get employee by ID
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=directoryapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetByID(c *gin.Context) {
	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	employee, err := h.employeeService.GetByID(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Create godoc
// @Summary      Add an employee to the directory
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body directoryapp.CreateEmployeeRequest true "Employee profile"
// @Success      201 {object} dto.Response{data=directoryapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req directoryapp.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, employee)
}

// Update godoc
// @Summary      Update an employee profile
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body directoryapp.UpdateEmployeeRequest true "Employee profile"
// @Success      200 {object} dto.Response{data=directoryapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c *gin.Context) {
	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req directoryapp.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.Update(c.Request.Context(), employeeID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// Delete godoc
// @Summary      Remove an employee from the directory
// @Description  Salary history keeps its employee reference; listings show
// @Description  an empty display name afterwards
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c *gin.Context) {
	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	if err := h.employeeService.Delete(c.Request.Context(), employeeID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Positions godoc
// @Summary      List distinct positions in use
// @Tags         employees
// @Produce      json
// @Success      200 {object} dto.Response{data=[]string}
// @Security     BearerAuth
// @Router       /employees/positions [get]
func (h *EmployeeHandler) Positions(c *gin.Context) {
	positions, err := h.employeeService.Positions(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, positions)
}

// RequestAvatarUpload godoc
// @Summary      Request a presigned avatar upload URL
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body avatarUploadRequest true "Avatar content type"
// @Success      200 {object} dto.Response{data=directoryapp.AvatarUploadResponse}
// @Security     BearerAuth
// @Router       /employees/{id}/avatar/upload-url [post]
func (h *EmployeeHandler) RequestAvatarUpload(c *gin.Context) {
	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req avatarUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	upload, err := h.employeeService.RequestAvatarUpload(c.Request.Context(), employeeID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// ConfirmAvatarUpload godoc
// @Summary      Confirm a completed avatar upload
// @Description  Verifies the object exists in storage before recording it
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body avatarConfirmRequest true "Uploaded storage key"
// @Success      200 {object} dto.Response{data=directoryapp.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees/{id}/avatar/confirm [post]
func (h *EmployeeHandler) ConfirmAvatarUpload(c *gin.Context) {
	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	var req avatarConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	employee, err := h.employeeService.ConfirmAvatarUpload(c.Request.Context(), employeeID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, employee)
}

// AvatarDownloadURL godoc
// @Summary      Resolve a presigned avatar download URL
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=object}
// @Security     BearerAuth
// @Router       /employees/{id}/avatar [get]
func (h *EmployeeHandler) AvatarDownloadURL(c *gin.Context) {
	employeeID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid employee ID format")
		return
	}

	url, err := h.employeeService.AvatarDownloadURL(c.Request.Context(), employeeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"download_url": url})
}
