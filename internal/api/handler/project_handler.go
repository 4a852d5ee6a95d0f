package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"project-hub/internal/dto"
	"project-hub/internal/service"
	"project-hub/pkg/response"
)

// ProjectHandler 项目模块 HTTP 处理器
type ProjectHandler struct {
	projectSvc service.ProjectService
}

// NewProjectHandler 创建 ProjectHandler
func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

// ListProjects 获取项目列表（教职工全部，学生仅参与的项目）
// GET /api/projects
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	projects, err := h.projectSvc.List(c.Request.Context(), callerID, role)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, projects)
}

// CreateProject 创建项目
// POST /api/projects
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNameRequired), errors.Is(err, dto.ErrInvalidDeadline):
			h.handleProjectError(c, err)
		default:
			response.ErrorWithDetails(c, http.StatusInternalServerError, "Internal Server Error", "Failed to create project")
		}
		return
	}
	response.Created(c, project)
}

// GetProject 获取项目详情
// GET /api/projects/:id
func (h *ProjectHandler) GetProject(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id", "Project not found")
	if !ok {
		return
	}

	project, err := h.projectSvc.Get(c.Request.Context(), id, callerID, role)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, project)
}

// UpdateProject 更新项目
// PUT /api/projects/:id
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := MustGetID(c, "id", "Project not found")
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.projectSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, project)
}

// DeleteProject 删除项目（任务与成员关系一并删除）
// DELETE /api/projects/:id
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id", "Project not found")
	if !ok {
		return
	}

	if err := h.projectSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Project deleted successfully")
}

// AddMember 分配项目成员
// POST /api/projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := MustGetID(c, "id", "Project not found")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !validID(req.UserID) {
		response.NotFound(c, "User not found")
		return
	}

	project, err := h.projectSvc.AddMember(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.OK(c, project)
}

// RemoveMember 移除项目成员
// DELETE /api/projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	id, ok := MustGetID(c, "id", "Project not found")
	if !ok {
		return
	}
	userID, ok := MustGetID(c, "userId", "User not found")
	if !ok {
		return
	}

	if err := h.projectSvc.RemoveMember(c.Request.Context(), id, userID); err != nil {
		h.handleProjectError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Member removed successfully")
}

func (h *ProjectHandler) handleProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, "Project not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, service.ErrProjectForbidden):
		response.Forbidden(c)
	case errors.Is(err, service.ErrProjectNameRequired):
		response.BadRequest(c, "Project name is required")
	case errors.Is(err, dto.ErrInvalidDeadline):
		response.BadRequest(c, "deadline must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, "status must be one of: pending, in_progress, completed")
	default:
		response.InternalError(c)
	}
}
