package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"project-hub/config"
	"project-hub/internal/dto"
	"project-hub/internal/model"
	"project-hub/internal/repository"
	pkgerrors "project-hub/pkg/errors"
	"project-hub/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	// Authenticate 校验邮箱与密码，成功返回用户（不含密码哈希）
	Authenticate(ctx context.Context, email, password string) (*dto.UserResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	// VerifySignupCode 登录页安全码比对，仅供界面使用
	VerifySignupCode(code string) bool
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		logger: logger,
	}
}

// ────────────────────── Authenticate ──────────────────────

func (s *authService) Authenticate(ctx context.Context, email, password string) (*dto.UserResponse, error) {
	user, err := s.verify(ctx, email, password)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// verify 邮箱不存在与密码错误返回同一错误
func (s *authService) verify(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	// 1. 校验凭据
	user, err := s.verify(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 签发会话 Token
	token, expiresAt, err := s.jwtMgr.IssueSessionToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.logger.Error("签发会话 Token 失败", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("用户登录", zap.String("user_id", user.ID), zap.String("role", user.Role))

	return &dto.LoginResponse{
		User:      dto.ToUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// ────────────────────── Register ──────────────────────

// Register 教职工自助注册
// 校验顺序：角色 → 邮箱格式 → 邮箱唯一 → 密码长度
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if req.Role != model.RoleStaff {
		return nil, ErrInvalidRole
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleStaff,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("教职工注册", zap.String("user_id", user.ID))

	return &dto.RegisterResponse{
		Message: "User created successfully",
		UserID:  user.ID,
	}, nil
}

// ────────────────────── 安全码 ──────────────────────

func (s *authService) VerifySignupCode(code string) bool {
	expected := s.cfg.Auth.StaffSignupCode
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(expected)) == 1
}

// SessionFromClaims 由已解析的 Token 声明构造会话响应
func SessionFromClaims(claims *jwt.Claims) *dto.SessionResponse {
	var expires time.Time
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return &dto.SessionResponse{
		User: dto.SessionUser{
			ID:    claims.UserID(),
			Email: claims.Email,
			Role:  claims.Role,
		},
		Expires: expires,
	}
}
