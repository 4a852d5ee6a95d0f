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

// ── 任务模块业务错误 ──

var (
	ErrTaskNotFound      = errors.New("任务不存在")
	ErrTaskForbidden     = errors.New("无权操作该任务")
	ErrTaskTitleRequired = errors.New("任务标题不能为空")
	ErrAssigneeNotMember = errors.New("负责人不是项目成员")
)

// TaskService 任务业务接口
//
// 权限：教职工可操作任意任务；学生只能在参与的项目中为自己创建任务，
// 只能修改或删除自己的任务
type TaskService interface {
	// List projectID 为空时返回当前用户的任务，否则返回该项目的任务
	List(ctx context.Context, projectID, callerID, callerRole string) ([]dto.TaskResponse, error)
	Create(ctx context.Context, req *dto.CreateTaskRequest, callerID, callerRole string) (*dto.TaskResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, callerID, callerRole string) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id, callerID, callerRole string) error
}

type taskService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTaskService 创建 TaskService 实例
func NewTaskService(repo *repository.Repository, logger *zap.Logger) TaskService {
	return &taskService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *taskService) List(ctx context.Context, projectID, callerID, callerRole string) ([]dto.TaskResponse, error) {
	var (
		tasks []model.Task
		err   error
	)
	if projectID == "" {
		tasks, err = s.repo.Task.ListByUser(ctx, callerID)
	} else {
		if _, err := s.visibleProject(ctx, projectID, callerID, callerRole); err != nil {
			return nil, err
		}
		tasks, err = s.repo.Task.ListByProject(ctx, projectID)
	}
	if err != nil {
		s.logger.Error("查询任务列表失败", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		result = append(result, dto.ToTaskResponse(&tasks[i]))
	}
	return result, nil
}

// ────────────────────── Create ──────────────────────

func (s *taskService) Create(ctx context.Context, req *dto.CreateTaskRequest, callerID, callerRole string) (*dto.TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}
	status := req.Status
	if status == "" {
		status = model.TaskStatusTodo
	}
	if !model.ValidTaskStatus(status) {
		return nil, ErrInvalidStatus
	}

	project, err := s.visibleProject(ctx, req.ProjectID, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	assignee := req.UserID
	if assignee == "" {
		assignee = callerID
	}
	if assignee != callerID && callerRole != model.RoleStaff {
		return nil, ErrTaskForbidden
	}
	if !project.HasMember(assignee) {
		if _, err := s.repo.User.GetByID(ctx, assignee); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		return nil, ErrAssigneeNotMember
	}

	task := &model.Task{
		Title:     title,
		Status:    status,
		UserID:    assignee,
		ProjectID: project.ID,
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Task.Create(ctx, task); err != nil {
			return err
		}
		return tx.Activity.Create(ctx, &model.Activity{
			Content:   fmt.Sprintf("Task %q created in %q", task.Title, project.Name),
			UserID:    &callerID,
			ProjectID: &project.ID,
			TaskID:    &task.ID,
		})
	})
	if err != nil {
		s.logger.Error("创建任务失败", zap.String("project_id", project.ID), zap.Error(err))
		return nil, err
	}

	resp := dto.ToTaskResponse(task)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

// Update 合并非 nil 字段，状态变化时记录动态
func (s *taskService) Update(ctx context.Context, id string, req *dto.UpdateTaskRequest, callerID, callerRole string) (*dto.TaskResponse, error) {
	task, err := s.ownedTask(ctx, id, callerID, callerRole)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTaskTitleRequired
		}
		task.Title = title
	}
	statusChanged := false
	if req.Status != nil && *req.Status != task.Status {
		if !model.ValidTaskStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		task.Status = *req.Status
		statusChanged = true
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Task.Update(ctx, task); err != nil {
			return err
		}
		if !statusChanged {
			return nil
		}
		return tx.Activity.Create(ctx, &model.Activity{
			Content:   fmt.Sprintf("Task %q moved to %s", task.Title, task.Status),
			UserID:    &callerID,
			ProjectID: &task.ProjectID,
			TaskID:    &task.ID,
		})
	})
	if err != nil {
		s.logger.Error("更新任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := dto.ToTaskResponse(task)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *taskService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	if _, err := s.ownedTask(ctx, id, callerID, callerRole); err != nil {
		return err
	}
	if err := s.repo.Task.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		s.logger.Error("删除任务失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助 ──

// visibleProject 项目存在且调用者为教职工或项目成员
func (s *taskService) visibleProject(ctx context.Context, projectID, callerID, callerRole string) (*model.Project, error) {
	project, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("查询项目失败", zap.String("id", projectID), zap.Error(err))
		return nil, err
	}
	if callerRole != model.RoleStaff && !project.HasMember(callerID) {
		return nil, ErrProjectForbidden
	}
	return project, nil
}

// ownedTask 任务存在且调用者为教职工或负责人
func (s *taskService) ownedTask(ctx context.Context, id, callerID, callerRole string) (*model.Task, error) {
	task, err := s.repo.Task.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		s.logger.Error("查询任务失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if callerRole != model.RoleStaff && task.UserID != callerID {
		return nil, ErrTaskForbidden
	}
	return task, nil
}
