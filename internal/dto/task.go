package dto

import "time"

// ── 任务模块 DTO ──

// CreateTaskRequest 创建任务请求，userId 缺省为当前用户
type CreateTaskRequest struct {
	Title     string `json:"title"     binding:"required,max=200"`
	ProjectID string `json:"projectId" binding:"required"`
	UserID    string `json:"userId"`
	Status    string `json:"status"    binding:"omitempty,oneof=TODO IN_PROGRESS COMPLETED"`
}

// UpdateTaskRequest 更新任务请求
type UpdateTaskRequest struct {
	Title  *string `json:"title"  binding:"omitempty,min=1,max=200"`
	Status *string `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS COMPLETED"`
}

// TaskListRequest 任务列表查询参数
type TaskListRequest struct {
	ProjectID string `form:"projectId"`
}

// TaskResponse 任务信息
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	UserID    string    `json:"userId"`
	ProjectID string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskBrief 嵌套在项目中的任务简要信息
type TaskBrief struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}
