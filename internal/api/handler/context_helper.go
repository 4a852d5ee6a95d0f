package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"project-hub/pkg/jwt"
	"project-hub/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 会话中间件未注入时写入 401 响应并返回 false，调用方应直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, "user_id")
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

// MustGetCaller 同时提取 user_id 与 role
func MustGetCaller(c *gin.Context) (userID, role string, ok bool) {
	if userID, ok = MustGetUserID(c); !ok {
		return "", "", false
	}
	if role, ok = MustGetRole(c); !ok {
		return "", "", false
	}
	return userID, role, true
}

// MustGetClaims 提取会话中间件解析出的 Token 声明
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("session_claims")
	if !exists {
		response.Unauthorized(c)
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c)
		return nil, false
	}
	return claims, true
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c)
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c)
		return "", false
	}
	return s, true
}

// MustGetID 提取路径中的资源 ID。
// 非 UUID 的 ID 不可能存在，直接写入 404 响应并返回 false。
func MustGetID(c *gin.Context, param, notFound string) (string, bool) {
	id := c.Param(param)
	if !validID(id) {
		response.NotFound(c, notFound)
		return "", false
	}
	return id, true
}

// validID 仅接受 36 位标准格式的 UUID
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
