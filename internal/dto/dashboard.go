package dto

import "time"

// ── 仪表盘 DTO ──

// DashboardStats 四项计数（同一事务快照）
type DashboardStats struct {
	TotalProjects   int64 `json:"totalProjects"`
	TasksInProgress int64 `json:"tasksInProgress"`
	CompletedTasks  int64 `json:"completedTasks"`
	TeamMembers     int64 `json:"teamMembers"`
}

// ActivityResponse 动态流条目
type ActivityResponse struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	UserID    *string       `json:"userId"`
	ProjectID *string       `json:"projectId"`
	TaskID    *string       `json:"taskId"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *UserBrief    `json:"user,omitempty"`
	Project   *ProjectBrief `json:"project,omitempty"`
	Task      *TaskBrief    `json:"task,omitempty"`
}

// DashboardResponse 仪表盘聚合响应
type DashboardResponse struct {
	User             UserResponse       `json:"user"`
	Stats            DashboardStats     `json:"stats"`
	RecentActivities []ActivityResponse `json:"recentActivities"`
	Tasks            []TaskResponse     `json:"tasks"`
	Projects         []ProjectBrief     `json:"projects"`
}
