package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-hub/config"
	"project-hub/internal/dto"
	"project-hub/internal/model"
	"project-hub/internal/repository"
	pkgerrors "project-hub/pkg/errors"
)

// ── 批量创建业务错误 ──

var (
	ErrBulkEmpty      = errors.New("用户列表不能为空")
	ErrBulkInvalidRow = errors.New("导入数据行无效")
)

// maxBulkRows 单次批量创建/导入的行数上限
const maxBulkRows = 1000

// DuplicateEmailsError 批量创建时的重复邮箱（批内重复或已存在）
type DuplicateEmailsError struct {
	Emails []string
}

func (e *DuplicateEmailsError) Error() string {
	return "邮箱已被使用: " + strings.Join(e.Emails, ", ")
}

// Is 使 errors.Is(err, ErrEmailExists) 成立
func (e *DuplicateEmailsError) Is(target error) bool { return target == ErrEmailExists }

// InvalidRowError 批量数据中的无效行（行号从 1 开始）
type InvalidRowError struct {
	Row    int
	Reason error
}

func (e *InvalidRowError) Error() string {
	return fmt.Sprintf("第 %d 行: %v", e.Row, e.Reason)
}

func (e *InvalidRowError) Is(target error) bool { return target == ErrBulkInvalidRow }

func (e *InvalidRowError) Unwrap() error { return e.Reason }

// UserService 用户业务接口
type UserService interface {
	Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	List(ctx context.Context) ([]dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// BulkCreate 批量创建学生账号（全部成功或全部失败），返回创建数量
	BulkCreate(ctx context.Context, rows []dto.BulkUserRow) (int, error)
	// ParseImportFile 解析 .csv / .xlsx 导入文件为批量行
	ParseImportFile(filename string, reader io.Reader) ([]dto.BulkUserRow, error)
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := normalizeEmail(req.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := checkRole(req.Role); err != nil {
		return nil, err
	}
	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
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
		Role:         req.Role,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.User.List(ctx)
	if err != nil {
		s.logger.Error("查询用户列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.ToUserResponse(&users[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		user.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if !validEmail(email) {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
				return nil, ErrEmailExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询用户失败", zap.Error(err))
				return nil, err
			}
		}
		user.Email = email
	}
	if req.Role != nil && *req.Role != user.Role {
		if err := checkRole(*req.Role); err != nil {
			return nil, err
		}
		if id == callerID {
			return nil, ErrUserSelfDemote
		}
		user.Role = *req.Role
	}
	if req.Password != nil {
		if err := checkPassword(*req.Password); err != nil {
			return nil, err
		}
		hash, err := hashPassword(*req.Password, s.cfg.Auth.BcryptCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Error(err))
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除用户，其任务与项目成员关系一并删除
func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("用户已删除", zap.String("id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── BulkCreate ──────────────────────

func (s *userService) BulkCreate(ctx context.Context, rows []dto.BulkUserRow) (int, error) {
	if len(rows) == 0 {
		return 0, ErrBulkEmpty
	}
	if len(rows) > maxBulkRows {
		return 0, &InvalidRowError{Row: maxBulkRows + 1, Reason: fmt.Errorf("超过 %d 行上限", maxBulkRows)}
	}

	// 1. 逐行规范化并校验
	users := make([]*model.User, 0, len(rows))
	passwords := make([]string, 0, len(rows))
	emails := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	var dups []string

	for i, row := range rows {
		name := bulkRowName(row)
		if name == "" {
			return 0, &InvalidRowError{Row: i + 1, Reason: ErrNameRequired}
		}
		email := normalizeEmail(row.Email)
		if !validEmail(email) {
			return 0, &InvalidRowError{Row: i + 1, Reason: ErrInvalidEmail}
		}
		password := row.Password
		if password == "" {
			password = s.cfg.Auth.BulkDefaultPassword
		}
		if err := checkPassword(password); err != nil {
			return 0, &InvalidRowError{Row: i + 1, Reason: err}
		}

		if seen[email] {
			dups = append(dups, email)
			continue
		}
		seen[email] = true
		emails = append(emails, email)

		// 角色一律为学生，忽略输入
		users = append(users, &model.User{Name: name, Email: email, Role: model.RoleStudent})
		passwords = append(passwords, password)
	}

	// 2. 与已有账号查重
	existing, err := s.repo.User.ListByEmails(ctx, emails)
	if err != nil {
		s.logger.Error("批量查重失败", zap.Error(err))
		return 0, err
	}
	for _, u := range existing {
		dups = append(dups, u.Email)
	}
	if len(dups) > 0 {
		return 0, &DuplicateEmailsError{Emails: uniqueSorted(dups)}
	}

	// 3. 哈希密码
	for i, u := range users {
		hash, err := hashPassword(passwords[i], s.cfg.Auth.BcryptCost)
		if err != nil {
			s.logger.Error("密码哈希失败", zap.Int("row", i+1), zap.Error(err))
			return 0, err
		}
		u.PasswordHash = hash
	}

	// 4. 事务内写入
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.User.CreateBatch(ctx, users)
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return 0, ErrEmailExists
		}
		s.logger.Error("批量创建用户失败", zap.Int("count", len(users)), zap.Error(err))
		return 0, err
	}

	s.logger.Info("批量创建用户", zap.Int("count", len(users)))
	return len(users), nil
}

// bulkRowName name 优先，否则拼接 firstName lastName
func bulkRowName(row dto.BulkUserRow) string {
	if name := strings.TrimSpace(row.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(row.FirstName) + " " + strings.TrimSpace(row.LastName))
}

func uniqueSorted(items []string) []string {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for it := range set {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}
