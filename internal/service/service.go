package service

import (
	"go.uber.org/zap"

	"project-hub/config"
	"project-hub/internal/repository"
	"project-hub/pkg/jwt"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth      AuthService
	User      UserService
	Project   ProjectService
	Task      TaskService
	Dashboard DashboardService
	Calendar  CalendarService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:      NewAuthService(cfg, repo, jwtMgr, logger),
		User:      NewUserService(cfg, repo, logger),
		Project:   NewProjectService(repo, logger),
		Task:      NewTaskService(repo, logger),
		Dashboard: NewDashboardService(repo, logger),
		Calendar:  NewCalendarService(cfg, repo, logger),
		Export:    NewExportService(repo, logger),
	}
}
