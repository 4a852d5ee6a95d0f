package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"project-hub/internal/dto"
	"project-hub/internal/repository"
)

// DashboardService 仪表盘聚合接口
type DashboardService interface {
	// Get 返回用户信息、四项计数与最近记录；任一查询失败则整体失败
	Get(ctx context.Context, userID string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Get(ctx context.Context, userID string) (*dto.DashboardResponse, error) {
	snap, err := s.repo.Dashboard.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("读取仪表盘数据失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardResponse{
		User: dto.ToUserResponse(&snap.User),
		Stats: dto.DashboardStats{
			TotalProjects:   snap.Stats.TotalProjects,
			TasksInProgress: snap.Stats.TasksInProgress,
			CompletedTasks:  snap.Stats.CompletedTasks,
			TeamMembers:     snap.Stats.TeamMembers,
		},
		RecentActivities: make([]dto.ActivityResponse, 0, len(snap.RecentActivities)),
		Tasks:            make([]dto.TaskResponse, 0, len(snap.RecentTasks)),
		Projects:         make([]dto.ProjectBrief, 0, len(snap.RecentProjects)),
	}
	for i := range snap.RecentActivities {
		resp.RecentActivities = append(resp.RecentActivities, dto.ToActivityResponse(&snap.RecentActivities[i]))
	}
	for i := range snap.RecentTasks {
		resp.Tasks = append(resp.Tasks, dto.ToTaskResponse(&snap.RecentTasks[i]))
	}
	for i := range snap.RecentProjects {
		resp.Projects = append(resp.Projects, dto.ToProjectBrief(&snap.RecentProjects[i]))
	}
	return resp, nil
}
