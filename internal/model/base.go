package model

import "time"

// ── 角色与状态枚举 ──

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
)

const (
	ProjectStatusPending    = "pending"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

const (
	TaskStatusTodo       = "TODO"
	TaskStatusInProgress = "IN_PROGRESS"
	TaskStatusCompleted  = "COMPLETED"
)

// ValidRole 判断角色是否合法
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleStaff
}

// ValidProjectStatus 判断项目状态是否合法（三种状态之间可自由切换）
func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}

// ValidTaskStatus 判断任务状态是否合法
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// BaseModel 通用时间戳字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}
