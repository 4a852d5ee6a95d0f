package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"project-hub/internal/dto"
	"project-hub/internal/service"
	"project-hub/pkg/response"
)

// TaskHandler 任务模块 HTTP 处理器
type TaskHandler struct {
	taskSvc service.TaskService
}

// NewTaskHandler 创建 TaskHandler
func NewTaskHandler(taskSvc service.TaskService) *TaskHandler {
	return &TaskHandler{taskSvc: taskSvc}
}

// ListTasks 获取任务列表
// GET /api/tasks?projectId=xxx
func (h *TaskHandler) ListTasks(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.TaskListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.ProjectID != "" && !validID(req.ProjectID) {
		response.NotFound(c, "Project not found")
		return
	}

	tasks, err := h.taskSvc.List(c.Request.Context(), req.ProjectID, callerID, role)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, tasks)
}

// CreateTask 创建任务
// POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !validID(req.ProjectID) {
		response.NotFound(c, "Project not found")
		return
	}
	if req.UserID != "" && !validID(req.UserID) {
		response.NotFound(c, "User not found")
		return
	}

	task, err := h.taskSvc.Create(c.Request.Context(), &req, callerID, role)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.Created(c, task)
}

// UpdateTask 更新任务
// PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id", "Task not found")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	task, err := h.taskSvc.Update(c.Request.Context(), id, &req, callerID, role)
	if err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.OK(c, task)
}

// DeleteTask 删除任务
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id", "Task not found")
	if !ok {
		return
	}

	if err := h.taskSvc.Delete(c.Request.Context(), id, callerID, role); err != nil {
		h.handleTaskError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Task deleted successfully")
}

func (h *TaskHandler) handleTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		response.NotFound(c, "Task not found")
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, "Project not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, service.ErrTaskForbidden), errors.Is(err, service.ErrProjectForbidden):
		response.Forbidden(c)
	case errors.Is(err, service.ErrTaskTitleRequired):
		response.BadRequest(c, "title is required")
	case errors.Is(err, service.ErrAssigneeNotMember):
		response.BadRequest(c, "Assignee is not a member of the project")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, "status must be one of: TODO, IN_PROGRESS, COMPLETED")
	default:
		response.InternalError(c)
	}
}
