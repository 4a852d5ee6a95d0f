package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"project-hub/pkg/jwt"
	"project-hub/pkg/response"
)

// Session 会话解析中间件
// 依次从 Authorization: Bearer <token> 与会话 Cookie 中读取 Token。
// 缺失、无效或过期时不拦截，请求以匿名身份继续，由 RequireSession 决定是否拒绝。
func Session(jwtMgr *jwt.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cookieName != "" {
			if v, err := c.Cookie(cookieName); err == nil {
				token = v
			}
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}

		// 将会话信息注入上下文
		c.Set("user_id", claims.UserID())
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("session_claims", claims)

		c.Next()
	}
}

// RequireSession 拒绝匿名请求，响应体固定为 {"error":"Unauthorized"}
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v, ok := c.Get("user_id"); !ok || v == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole 角色权限中间件
// 检查当前用户是否具有指定角色之一。角色取自会话 Token，修改角色后需重新登录才生效。
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c)
		c.Abort()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
