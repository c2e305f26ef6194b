package handler

import (
	"github.com/gin-gonic/gin"
	projectapp "github.com/worklane/backend/internal/application/project"
)

// ProjectHandler handles project tracker API endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// projectListQuery binds the project listing query parameters
type projectListQuery struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=todo in_progress completed cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List godoc
// @Summary      List projects
// @Tags         projects
// @Produce      json
// @Param        search query string false "Search term (name, description)"
// @Param        status query string false "Status" Enums(todo, in_progress, completed, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]projectapp.ProjectResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var q projectListQuery
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

	result, err := h.projectService.List(c.Request.Context(), projectapp.ProjectListFilter{
		Search:   q.Search,
		Status:   q.Status,
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
// @Summary      Get project by ID
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), projectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, project)
}

// Create godoc
// @Summary      Create a project
// @Description  New projects start in todo status
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body projectapp.CreateProjectRequest true "Project"
// @Success      201 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req projectapp.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, project)
}

// Update godoc
// @Summary      Update a project
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Param        request body projectapp.UpdateProjectRequest true "Project"
// @Success      200 {object} dto.Response{data=projectapp.ProjectResponse}
// @Security     BearerAuth
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	var req projectapp.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), projectID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, project)
}

// Delete godoc
// @Summary      Delete a project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), projectID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// StatusCounts godoc
// @Summary      Project counts per status
// @Description  Totals shown on the dashboard
// @Tags         projects
// @Produce      json
// @Success      200 {object} dto.Response{data=project.StatusCounts}
// @Security     BearerAuth
// @Router       /projects/stats [get]
func (h *ProjectHandler) StatusCounts(c *gin.Context) {
	counts, err := h.projectService.StatusCounts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}
