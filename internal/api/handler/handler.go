package handler

import (
	"github.com/prometheus/client_golang/prometheus"

	"project-hub/config"
	"project-hub/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Project   *ProjectHandler
	Task      *TaskHandler
	Dashboard *DashboardHandler
	Calendar  *CalendarHandler
	Health    *HealthHandler
}

// NewHandler 创建 Handler 聚合，authFailures 可为 nil
func NewHandler(cfg *config.Config, svc *service.Service, db Pinger, authFailures prometheus.Counter) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(svc.Auth, cfg.Auth.Cookie, authFailures),
		User:      NewUserHandler(svc.User, svc.Export),
		Project:   NewProjectHandler(svc.Project),
		Task:      NewTaskHandler(svc.Task),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Calendar:  NewCalendarHandler(svc.Calendar),
		Health:    NewHealthHandler(db),
	}
}
