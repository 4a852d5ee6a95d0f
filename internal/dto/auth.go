package dto

import "time"

// ── 认证模块 DTO ──

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功响应（Token 同时写入 Cookie）
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// RegisterRequest 教职工自助注册请求
// 邮箱格式与密码长度在 Service 中按顺序校验，以保持错误提示与前端一致
type RegisterRequest struct {
	Name     string `json:"name"     binding:"required"`
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"     binding:"required,eq=staff"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// SessionUser 会话中携带的用户信息
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SessionResponse 当前会话
type SessionResponse struct {
	User    SessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

// SignupCodeRequest 登录页安全码校验请求
type SignupCodeRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric"`
}

// SignupCodeResponse 安全码校验结果
type SignupCodeResponse struct {
	Valid bool `json:"valid"`
}
