package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"project-hub/config"
	"project-hub/internal/model"
	"project-hub/internal/repository"
)

// CalendarService 日历订阅接口
type CalendarService interface {
	// ProjectDeadlines 返回调用者可见项目截止日期的 iCalendar 文本
	ProjectDeadlines(ctx context.Context, callerID, callerRole string) (string, error)
}

type calendarService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{cfg: cfg, repo: repo, logger: logger, now: time.Now}
}

func (s *calendarService) ProjectDeadlines(ctx context.Context, callerID, callerRole string) (string, error) {
	memberID := callerID
	if callerRole == model.RoleStaff {
		memberID = ""
	}

	projects, err := s.repo.Project.List(ctx, memberID)
	if err != nil {
		s.logger.Error("查询项目列表失败", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//project-hub//deadlines//EN")
	cal.SetXWRCalName("Project deadlines")

	stamp := s.now().UTC()
	baseURL := strings.TrimRight(s.cfg.Server.BaseURL, "/")
	for i := range projects {
		p := &projects[i]
		if p.Deadline == nil {
			continue
		}
		// 截止日期按全天事件输出
		day := p.Deadline.UTC().Truncate(24 * time.Hour)

		event := cal.AddEvent(fmt.Sprintf("project-%s@project-hub", p.ID))
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(p.CreatedAt)
		event.SetModifiedAt(p.UpdatedAt)
		event.SetAllDayStartAt(day)
		event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("%s deadline", p.Name))
		if p.Description != "" {
			event.SetDescription(p.Description)
		}
		if baseURL != "" {
			event.SetURL(fmt.Sprintf("%s/projects/%s", baseURL, p.ID))
		}
	}

	return cal.Serialize(), nil
}
