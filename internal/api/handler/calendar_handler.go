package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"project-hub/internal/service"
	"project-hub/pkg/response"
)

// CalendarHandler 日历订阅 HTTP 处理器
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler 创建 CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// ProjectDeadlines 可见项目的截止日期日历
// GET /api/calendar/projects.ics
func (h *CalendarHandler) ProjectDeadlines(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	out, err := h.calendarSvc.ProjectDeadlines(c.Request.Context(), callerID, role)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `inline; filename="projects.ics"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(out))
}
