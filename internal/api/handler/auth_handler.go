package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"project-hub/config"
	"project-hub/internal/dto"
	"project-hub/internal/service"
	"project-hub/pkg/response"
)

// 注册接口沿用前端约定的 {message} 提示文案
const (
	msgRegisterInvalid   = "Invalid input. Please provide all required fields and ensure the role is staff."
	msgRegisterEmail     = "Please enter a valid email address."
	msgRegisterDuplicate = "An account with this email already exists. Please use a different email."
	msgRegisterShort     = "Password must be at least 8 characters long."
	msgRegisterLong      = "Password must be at most 72 bytes long."
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc      service.AuthService
	cookie       config.CookieConfig
	authFailures prometheus.Counter
}

// NewAuthHandler 创建 AuthHandler，authFailures 可为 nil
func NewAuthHandler(authSvc service.AuthService, cookie config.CookieConfig, authFailures prometheus.Counter) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookie: cookie, authFailures: authFailures}
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.authFailures != nil {
				h.authFailures.Inc()
			}
			response.Error(c, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		response.InternalError(c)
		return
	}

	h.setSessionCookie(c, resp.Token, int(time.Until(resp.ExpiresAt).Seconds()))
	response.OK(c, resp)
}

// Logout 退出登录（清除会话 Cookie）
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.Message(c, http.StatusOK, "Logged out successfully")
}

// Session 获取当前会话
// GET /api/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}
	response.OK(c, service.SessionFromClaims(claims))
}

// VerifySignupCode 登录页安全码校验
// POST /api/auth/signup-code
func (h *AuthHandler) VerifySignupCode(c *gin.Context) {
	var req dto.SignupCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 格式不符直接视为无效，不提示具体原因
		response.OK(c, dto.SignupCodeResponse{Valid: false})
		return
	}
	response.OK(c, dto.SignupCodeResponse{Valid: h.authSvc.VerifySignupCode(req.Code)})
}

// Register 教职工自助注册
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Message(c, http.StatusBadRequest, msgRegisterInvalid)
		return
	}

	resp, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleRegisterError(c, err)
		return
	}

	response.Created(c, resp)
}

func (h *AuthHandler) handleRegisterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRole), errors.Is(err, service.ErrNameRequired):
		response.Message(c, http.StatusBadRequest, msgRegisterInvalid)
	case errors.Is(err, service.ErrInvalidEmail):
		response.Message(c, http.StatusBadRequest, msgRegisterEmail)
	case errors.Is(err, service.ErrEmailExists):
		response.Message(c, http.StatusConflict, msgRegisterDuplicate)
	case errors.Is(err, service.ErrPasswordTooShort):
		response.Message(c, http.StatusBadRequest, msgRegisterShort)
	case errors.Is(err, service.ErrPasswordTooLong):
		response.Message(c, http.StatusBadRequest, msgRegisterLong)
	default:
		response.InternalError(c)
	}
}

// setSessionCookie 写入 HttpOnly 会话 Cookie，maxAge<0 表示删除
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(parseSameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, token, maxAge, "/", h.cookie.Domain, h.cookie.Secure, true)
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
