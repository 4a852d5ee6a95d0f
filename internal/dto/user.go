package dto

import "time"

// ── 用户模块 DTO ──

// CreateUserRequest 管理端创建用户请求
type CreateUserRequest struct {
	Name     string `json:"name"     binding:"required,max=200"`
	Email    string `json:"email"    binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role"     binding:"required,oneof=student staff"`
}

// UpdateUserRequest 更新用户请求（仅更新非 nil 字段）
type UpdateUserRequest struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=200"`
	Email    *string `json:"email"    binding:"omitempty,email,max=255"`
	Role     *string `json:"role"     binding:"omitempty,oneof=student staff"`
	Password *string `json:"password" binding:"omitempty,min=8,max=72"`
}

// BulkUserRow 批量导入的单行原始数据
// role 字段会被忽略：批量导入的账号一律为学生
type BulkUserRow struct {
	Name      string `json:"name"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

// BulkCreateUsersRequest 批量创建用户请求
type BulkCreateUsersRequest struct {
	Users []BulkUserRow `json:"users" binding:"required,min=1"`
}

// BulkCreateUsersResponse 批量创建结果
type BulkCreateUsersResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// UserExportRequest 导出参数
type UserExportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// UserResponse 用户信息响应（脱敏，不含密码哈希）
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserBrief 嵌套在项目/动态中的用户简要信息
type UserBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
