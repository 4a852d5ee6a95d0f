package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"project-hub/internal/dto"
	"project-hub/internal/service"
	"project-hub/pkg/response"
)

// UserHandler 用户管理 HTTP 处理器（仅教职工）
type UserHandler struct {
	userSvc   service.UserService
	exportSvc service.ExportService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, exportSvc service.ExportService) *UserHandler {
	return &UserHandler{userSvc: userSvc, exportSvc: exportSvc}
}

// ListUsers 获取全部用户
// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, users)
}

// CreateUser 创建用户
// POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser 更新用户
// PUT /api/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id", "User not found")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.OK(c, user)
}

// DeleteUser 删除用户
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	id, ok := MustGetID(c, "id", "User not found")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "User deleted successfully")
}

// BulkCreateUsers 批量创建学生账号
// POST /api/users/bulk
func (h *UserHandler) BulkCreateUsers(c *gin.Context) {
	var req dto.BulkCreateUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if msg := bindErrorMessage(err); strings.HasPrefix(msg, "users ") {
			response.BadRequest(c, "Users must be a non-empty array")
			return
		}
		badRequest(c, err)
		return
	}

	h.bulkCreate(c, req.Users)
}

// ImportUsers 从 .csv / .xlsx 文件导入学生账号
// POST /api/users/import
func (h *UserHandler) ImportUsers(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer f.Close()

	rows, err := h.userSvc.ParseImportFile(filepath.Base(fh.Filename), f)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	h.bulkCreate(c, rows)
}

func (h *UserHandler) bulkCreate(c *gin.Context, rows []dto.BulkUserRow) {
	count, err := h.userSvc.BulkCreate(c.Request.Context(), rows)
	if err != nil {
		h.handleUserError(c, err)
		return
	}
	response.Created(c, dto.BulkCreateUsersResponse{
		Message: "Users created successfully",
		Count:   count,
	})
}

// ExportUsers 导出全部用户
// GET /api/users/export?format=csv|xlsx
func (h *UserHandler) ExportUsers(c *gin.Context) {
	var req dto.UserExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	buf, filename, err := h.exportSvc.ExportUsers(c.Request.Context(), req.Format)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if strings.HasSuffix(filename, ".xlsx") {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	var dupErr *service.DuplicateEmailsError
	var rowErr *service.InvalidRowError

	switch {
	case errors.As(err, &dupErr):
		response.ErrorWithDetails(c, http.StatusConflict, "Some emails already exist", strings.Join(dupErr.Emails, ", "))
	case errors.As(err, &rowErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, "Invalid user data",
			fmt.Sprintf("row %d: %s", rowErr.Row, userFieldMessage(rowErr.Reason)))
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "User not found")
	case errors.Is(err, service.ErrEmailExists):
		response.Conflict(c, "Email already exists")
	case errors.Is(err, service.ErrUserSelfDelete):
		response.BadRequest(c, "You cannot delete your own account")
	case errors.Is(err, service.ErrUserSelfDemote):
		response.BadRequest(c, "You cannot change your own role")
	case errors.Is(err, service.ErrBulkEmpty):
		response.BadRequest(c, "Users must be a non-empty array")
	case errors.Is(err, service.ErrImportTooManyRows):
		response.BadRequest(c, "Too many rows in import file")
	case errors.Is(err, service.ErrImportFormat):
		response.BadRequest(c, "Only .csv and .xlsx files are supported")
	case errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, "Import file must have an email column and a name or firstName column")
	case errors.Is(err, service.ErrImportNoData):
		response.BadRequest(c, "Import file contains no rows")
	case errors.Is(err, service.ErrExportFormat):
		response.BadRequest(c, "format must be one of: csv, xlsx")
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrNameRequired):
		response.BadRequest(c, userFieldMessage(err))
	default:
		response.InternalError(c)
	}
}

// userFieldMessage 单字段校验错误的客户端文案
func userFieldMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidEmail):
		return "Invalid email address"
	case errors.Is(err, service.ErrPasswordTooShort):
		return "Password must be at least 8 characters long"
	case errors.Is(err, service.ErrPasswordTooLong):
		return "Password must be at most 72 bytes long"
	case errors.Is(err, service.ErrInvalidRole):
		return "Role must be one of: student, staff"
	case errors.Is(err, service.ErrNameRequired):
		return "Name is required"
	default:
		return "Invalid value"
	}
}
