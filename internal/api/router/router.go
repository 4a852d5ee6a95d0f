package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-hub/config"
	"project-hub/internal/api/handler"
	"project-hub/internal/api/middleware"
	"project-hub/internal/model"
	"project-hub/pkg/jwt"
	"project-hub/pkg/metrics"
)

// Setup 初始化并返回 Gin 路由引擎
// limiter 为 nil 时不限流；m 为 nil 时不暴露 /metrics
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, limiter middleware.RateLimiter, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	if m != nil {
		r.Use(middleware.Metrics(m))
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))
	r.Use(middleware.Session(jwtMgr, cfg.Auth.Cookie.Name))

	// ── 健康检查与指标 ──
	r.GET("/health", h.Health.Health)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	authLimit := middleware.RateLimit(limiter, cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow, logger)
	staffOnly := middleware.RequireRole(model.RoleStaff)

	api := r.Group("/api")
	{
		// 认证模块（无需会话）
		api.POST("/register", authLimit, h.Auth.Register)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authLimit, h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.POST("/signup-code", authLimit, h.Auth.VerifySignupCode)
		}

		// 需要会话的路由
		authorized := api.Group("")
		authorized.Use(middleware.RequireSession())
		{
			authorized.GET("/auth/session", h.Auth.Session)
			authorized.GET("/dashboard", h.Dashboard.GetDashboard)
			authorized.GET("/calendar/projects.ics", h.Calendar.ProjectDeadlines)

			// 项目模块
			projects := authorized.Group("/projects")
			{
				projects.GET("", h.Project.ListProjects)
				projects.GET("/:id", h.Project.GetProject) // 成员或教职工（Service 层鉴权）
				projects.POST("", staffOnly, h.Project.CreateProject)
				projects.PUT("/:id", staffOnly, h.Project.UpdateProject)
				projects.DELETE("/:id", staffOnly, h.Project.DeleteProject)
				projects.POST("/:id/members", staffOnly, h.Project.AddMember)
				projects.DELETE("/:id/members/:userId", staffOnly, h.Project.RemoveMember)
			}

			// 任务模块（负责人或教职工，Service 层鉴权）
			tasks := authorized.Group("/tasks")
			{
				tasks.GET("", h.Task.ListTasks)
				tasks.POST("", h.Task.CreateTask)
				tasks.PUT("/:id", h.Task.UpdateTask)
				tasks.DELETE("/:id", h.Task.DeleteTask)
			}

			// 用户管理模块
			users := authorized.Group("/users")
			users.Use(staffOnly)
			{
				users.GET("", h.User.ListUsers)
				users.POST("", h.User.CreateUser)
				users.POST("/bulk", h.User.BulkCreateUsers)
				users.POST("/import", h.User.ImportUsers)
				users.GET("/export", h.User.ExportUsers)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
			}
		}
	}

	return r
}
