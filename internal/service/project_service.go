package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-hub/internal/dto"
	"project-hub/internal/model"
	"project-hub/internal/repository"
)

// ── 项目模块业务错误 ──

var (
	ErrProjectNotFound     = errors.New("项目不存在")
	ErrProjectNameRequired = errors.New("项目名称不能为空")
	ErrProjectForbidden    = errors.New("无权访问该项目")
	ErrInvalidStatus       = errors.New("状态无效")
)

// ProjectService 项目业务接口
type ProjectService interface {
	// Create 创建项目，状态为 pending，创建者自动成为成员
	Create(ctx context.Context, req *dto.CreateProjectRequest, callerID string) (*dto.ProjectResponse, error)
	// List 教职工返回全部项目，学生仅返回参与的项目
	List(ctx context.Context, callerID, callerRole string) ([]dto.ProjectResponse, error)
	Get(ctx context.Context, id, callerID, callerRole string) (*dto.ProjectResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(ctx context.Context, id, callerID string) error
	AddMember(ctx context.Context, projectID string, req *dto.AddMemberRequest, callerID string) (*dto.ProjectResponse, error)
	RemoveMember(ctx context.Context, projectID, userID string) error
}

type projectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewProjectService 创建 ProjectService 实例
func NewProjectService(repo *repository.Repository, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest, callerID string) (*dto.ProjectResponse, error) {
	name := req.ProjectName()
	if name == "" {
		return nil, ErrProjectNameRequired
	}
	deadline, err := dto.ParseDeadline(req.Deadline)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Status:      model.ProjectStatusPending,
		Deadline:    deadline,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Project.Create(ctx, project, []string{callerID}); err != nil {
			return err
		}
		return tx.Activity.Create(ctx, &model.Activity{
			Content:   fmt.Sprintf("Project %q created", project.Name),
			UserID:    &callerID,
			ProjectID: &project.ID,
		})
	})
	if err != nil {
		s.logger.Error("创建项目失败", zap.String("caller", callerID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("项目已创建", zap.String("project_id", project.ID), zap.String("by", callerID))
	return s.load(ctx, project.ID)
}

// ────────────────────── List / Get ──────────────────────

func (s *projectService) List(ctx context.Context, callerID, callerRole string) ([]dto.ProjectResponse, error) {
	memberID := callerID
	if callerRole == model.RoleStaff {
		memberID = ""
	}

	projects, err := s.repo.Project.List(ctx, memberID)
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, dto.ToProjectResponse(&projects[i]))
	}
	return result, nil
}

func (s *projectService) Get(ctx context.Context, id, callerID, callerRole string) (*dto.ProjectResponse, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole != model.RoleStaff && !project.HasMember(callerID) {
		return nil, ErrProjectForbidden
	}
	resp := dto.ToProjectResponse(project)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *projectService) Update(ctx context.Context, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := req.ProjectName(); name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = trimmed
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !model.ValidProjectStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		project.Status = *req.Status
	}
	if req.Deadline != nil {
		// 空串清除截止日期
		deadline, err := dto.ParseDeadline(*req.Deadline)
		if err != nil {
			return nil, err
		}
		project.Deadline = deadline
	}

	if err := s.repo.Project.Update(ctx, project); err != nil {
		s.logger.Error("更新项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.load(ctx, id)
}

// ────────────────────── Delete ──────────────────────

// Delete 删除项目及其任务与成员关系，动态保留但引用置空
func (s *projectService) Delete(ctx context.Context, id, callerID string) error {
	project, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Project.Delete(ctx, id); err != nil {
			return err
		}
		return tx.Activity.Create(ctx, &model.Activity{
			Content: fmt.Sprintf("Project %q deleted", project.Name),
			UserID:  &callerID,
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		s.logger.Error("删除项目失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("项目已删除", zap.String("project_id", id), zap.String("by", callerID))
	return nil
}

// ────────────────────── 成员 ──────────────────────

// AddMember 分配成员（重复分配不报错）
func (s *projectService) AddMember(ctx context.Context, projectID string, req *dto.AddMemberRequest, callerID string) (*dto.ProjectResponse, error) {
	project, err := s.find(ctx, projectID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", req.UserID), zap.Error(err))
		return nil, err
	}

	if !project.HasMember(user.ID) {
		err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
			if err := tx.Project.AddMember(ctx, projectID, user.ID); err != nil {
				return err
			}
			return tx.Activity.Create(ctx, &model.Activity{
				Content:   fmt.Sprintf("%s was assigned to project %q", user.Name, project.Name),
				UserID:    &callerID,
				ProjectID: &project.ID,
			})
		})
		if err != nil {
			s.logger.Error("分配项目成员失败",
				zap.String("project_id", projectID),
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
			return nil, err
		}
	}

	return s.load(ctx, projectID)
}

func (s *projectService) RemoveMember(ctx context.Context, projectID, userID string) error {
	if _, err := s.find(ctx, projectID); err != nil {
		return err
	}
	if err := s.repo.Project.RemoveMember(ctx, projectID, userID); err != nil {
		s.logger.Error("移除项目成员失败",
			zap.String("project_id", projectID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// ── 内部辅助 ──

func (s *projectService) find(ctx context.Context, id string) (*model.Project, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("查询项目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return project, nil
}

func (s *projectService) load(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToProjectResponse(project)
	return &resp, nil
}
