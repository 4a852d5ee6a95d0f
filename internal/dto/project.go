package dto

import (
	"errors"
	"strings"
	"time"
)

// ── 项目模块 DTO ──

// ErrInvalidDeadline 截止日期格式错误
var ErrInvalidDeadline = errors.New("invalid deadline")

// CreateProjectRequest 创建项目请求（前端以 title 提交，兼容 name）
type CreateProjectRequest struct {
	Title       string `json:"title"       binding:"max=200"`
	Name        string `json:"name"        binding:"max=200"`
	Description string `json:"description" binding:"max=5000"`
	Deadline    string `json:"deadline"    binding:"omitempty,deadline"`
}

// ProjectName 取 title，缺省时取 name
func (r *CreateProjectRequest) ProjectName() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return strings.TrimSpace(r.Name)
}

// UpdateProjectRequest 更新项目请求（仅更新非 nil 字段；deadline 传空串表示清除）
type UpdateProjectRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=1,max=200"`
	Name        *string `json:"name"        binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=5000"`
	Status      *string `json:"status"      binding:"omitempty,oneof=pending in_progress completed"`
	Deadline    *string `json:"deadline"    binding:"omitempty,deadline"`
}

// ProjectName 取 title，缺省时取 name；均为 nil 时返回 nil
func (r *UpdateProjectRequest) ProjectName() *string {
	if r.Title != nil {
		return r.Title
	}
	return r.Name
}

// AddMemberRequest 分配项目成员请求
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// ProjectBrief 项目基本信息
type ProjectBrief struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Deadline    *time.Time `json:"deadline"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ProjectResponse 项目详情（含成员与任务）
type ProjectResponse struct {
	ProjectBrief
	Users []UserBrief `json:"users"`
	Tasks []TaskBrief `json:"tasks"`
}

// ParseDeadline 解析截止日期，支持 YYYY-MM-DD 与 RFC3339；空串返回 nil
func ParseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	return nil, ErrInvalidDeadline
}
