package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"project-hub/config"
	"project-hub/internal/dto"
	"project-hub/internal/model"
	"project-hub/pkg/jwt"
)

// ── 测试辅助 ──

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{BaseURL: "http://localhost:8080"},
		Auth: config.AuthConfig{
			SessionSecret:       "test-secret-key-for-unit-testing-2026",
			SessionTTL:          time.Hour,
			BcryptCost:          bcrypt.MinCost,
			BulkDefaultPassword: "defaultPassword",
			StaffSignupCode:     "111111",
		},
	}
}

func setupTestAuthService() (AuthService, *mockRepos, *jwt.Manager) {
	cfg := testConfig()
	repo, mocks := newMockRepository()
	jwtMgr := jwt.NewManager(&cfg.Auth)
	svc := NewAuthService(cfg, repo, jwtMgr, zap.NewNop())
	return svc, mocks, jwtMgr
}

func createTestUser(m *mockRepos, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		Name:         "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	_ = m.users.Create(context.Background(), user)
	return user
}

// ── Authenticate ──

func TestAuthenticate_Success(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	stored := createTestUser(m, "alice@example.com", "password123", model.RoleStaff)

	user, err := svc.Authenticate(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Authenticate 应成功，但返回错误: %v", err)
	}
	if user.ID != stored.ID {
		t.Errorf("期望 ID=%s，实际=%s", stored.ID, user.ID)
	}
	if user.Role != model.RoleStaff {
		t.Errorf("期望 Role=staff，实际=%s", user.Role)
	}
}

func TestAuthenticate_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	createTestUser(m, "alice@example.com", "password123", model.RoleStaff)

	_, errWrong := svc.Authenticate(context.Background(), "alice@example.com", "wrong_password")
	_, errUnknown := svc.Authenticate(context.Background(), "nobody@example.com", "password123")

	if !errors.Is(errWrong, ErrInvalidCredentials) {
		t.Errorf("密码错误期望 ErrInvalidCredentials，实际: %v", errWrong)
	}
	if errWrong != errUnknown {
		t.Errorf("密码错误与邮箱不存在应返回同一错误: %v vs %v", errWrong, errUnknown)
	}
}

func TestAuthenticate_EmptyInput(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if _, err := svc.Authenticate(context.Background(), "", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("空邮箱期望 ErrInvalidCredentials，实际: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "alice@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("空密码期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Login ──

func TestLogin_IssuesParsableToken(t *testing.T) {
	svc, m, jwtMgr := setupTestAuthService()
	stored := createTestUser(m, "alice@example.com", "password123", model.RoleStudent)

	result, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if result.Token == "" {
		t.Fatal("Token 不应为空")
	}
	if !result.ExpiresAt.After(time.Now()) {
		t.Errorf("ExpiresAt 应晚于当前时间: %v", result.ExpiresAt)
	}

	claims, err := jwtMgr.ParseToken(result.Token)
	if err != nil {
		t.Fatalf("签发的 Token 应可解析: %v", err)
	}
	if claims.UserID() != stored.ID || claims.Role != model.RoleStudent {
		t.Errorf("Token 声明不匹配: sub=%s role=%s", claims.UserID(), claims.Role)
	}

	session := SessionFromClaims(claims)
	if session.User.Email != "alice@example.com" {
		t.Errorf("会话邮箱不匹配: %s", session.User.Email)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	createTestUser(m, "alice@example.com", "password123", model.RoleStudent)

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong_password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

// ── Register ──

func validRegister() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:     "Dr. Staff",
		Email:    "staff@example.com",
		Password: "password123",
		Role:     model.RoleStaff,
	}
}

func TestRegister_Success(t *testing.T) {
	svc, m, _ := setupTestAuthService()

	resp, err := svc.Register(context.Background(), validRegister())
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if resp.Message != "User created successfully" || resp.UserID == "" {
		t.Errorf("响应不符合预期: %+v", resp)
	}

	stored := m.users.users[resp.UserID]
	if stored == nil {
		t.Fatal("用户应已写入")
	}
	if stored.Role != model.RoleStaff {
		t.Errorf("期望 Role=staff，实际=%s", stored.Role)
	}
	if stored.PasswordHash == "password123" {
		t.Error("密码不应明文存储")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")); err != nil {
		t.Errorf("密码哈希校验失败: %v", err)
	}
}

func TestRegister_RoleNotStaff(t *testing.T) {
	svc, m, _ := setupTestAuthService()

	for _, role := range []string{"student", "admin", ""} {
		req := validRegister()
		req.Role = role
		if _, err := svc.Register(context.Background(), req); !errors.Is(err, ErrInvalidRole) {
			t.Errorf("role=%q 期望 ErrInvalidRole，实际: %v", role, err)
		}
	}
	if len(m.users.users) != 0 {
		t.Errorf("不应写入任何用户，实际 %d", len(m.users.users))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if _, err := svc.Register(context.Background(), validRegister()); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}
	if _, err := svc.Register(context.Background(), validRegister()); !errors.Is(err, ErrEmailExists) {
		t.Errorf("重复注册期望 ErrEmailExists，实际: %v", err)
	}
}

func TestRegister_ValidationOrder(t *testing.T) {
	svc, m, _ := setupTestAuthService()
	createTestUser(m, "taken@example.com", "password123", model.RoleStaff)

	tests := []struct {
		name    string
		mutate  func(r *dto.RegisterRequest)
		wantErr error
	}{
		{"邮箱格式错误优先于密码过短", func(r *dto.RegisterRequest) { r.Email = "not-an-email"; r.Password = "short" }, ErrInvalidEmail},
		{"邮箱重复优先于密码过短", func(r *dto.RegisterRequest) { r.Email = "taken@example.com"; r.Password = "short" }, ErrEmailExists},
		{"密码过短", func(r *dto.RegisterRequest) { r.Password = "1234567" }, ErrPasswordTooShort},
		{"姓名为空", func(r *dto.RegisterRequest) { r.Name = "   " }, ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(req)
			if _, err := svc.Register(context.Background(), req); !errors.Is(err, tt.wantErr) {
				t.Errorf("期望 %v，实际: %v", tt.wantErr, err)
			}
		})
	}
}

// ── 安全码 ──

func TestVerifySignupCode(t *testing.T) {
	svc, _, _ := setupTestAuthService()

	if !svc.VerifySignupCode("111111") {
		t.Error("正确安全码应通过")
	}
	if svc.VerifySignupCode("123456") {
		t.Error("错误安全码不应通过")
	}
}
