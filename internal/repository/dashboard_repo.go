package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"project-hub/internal/model"
)

// dashboardRecentLimit 仪表盘最近记录条数
const dashboardRecentLimit = 5

// DashboardStats 仪表盘计数
type DashboardStats struct {
	TotalProjects   int64
	TasksInProgress int64
	CompletedTasks  int64
	TeamMembers     int64
}

// DashboardSnapshot 同一只读事务内读取的仪表盘数据
type DashboardSnapshot struct {
	User             model.User
	Stats            DashboardStats
	RecentActivities []model.Activity
	RecentTasks      []model.Task
	RecentProjects   []model.Project
}

// DashboardRepository 仪表盘聚合查询接口
type DashboardRepository interface {
	Snapshot(ctx context.Context, userID string) (*DashboardSnapshot, error)
}

type dashboardRepo struct {
	db *gorm.DB
}

// NewDashboardRepo 创建 DashboardRepository 实例
func NewDashboardRepo(db *gorm.DB) DashboardRepository {
	return &dashboardRepo{db: db}
}

// Snapshot 在 REPEATABLE READ 只读事务中完成全部查询，任一失败则整体失败。
// 用户不存在时返回 gorm.ErrRecordNotFound。
func (r *dashboardRepo) Snapshot(ctx context.Context, userID string) (*DashboardSnapshot, error) {
	snap := &DashboardSnapshot{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&snap.User, "id = ?", userID).Error; err != nil {
			return err
		}

		// ── 计数 ──
		if err := tx.Model(&model.Project{}).
			Where("id IN (?)", memberProjectIDs(tx, userID)).
			Count(&snap.Stats.TotalProjects).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).
			Where("user_id = ? AND status = ?", userID, model.TaskStatusInProgress).
			Count(&snap.Stats.TasksInProgress).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).
			Where("user_id = ? AND status = ?", userID, model.TaskStatusCompleted).
			Count(&snap.Stats.CompletedTasks).Error; err != nil {
			return err
		}
		// 与当前用户共同参与任一项目的去重用户数（含本人）
		if err := tx.Table("project_members").
			Where("project_id IN (?)", memberProjectIDs(tx, userID)).
			Distinct("user_id").
			Count(&snap.Stats.TeamMembers).Error; err != nil {
			return err
		}

		// ── 最近记录 ──
		if err := tx.Preload("User").Preload("Project").Preload("Task").
			Where("user_id = ? OR project_id IN (?)", userID, memberProjectIDs(tx, userID)).
			Order("created_at DESC").
			Limit(dashboardRecentLimit).
			Find(&snap.RecentActivities).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(dashboardRecentLimit).
			Find(&snap.RecentTasks).Error; err != nil {
			return err
		}
		return tx.Where("id IN (?)", memberProjectIDs(tx, userID)).
			Order("created_at DESC").
			Limit(dashboardRecentLimit).
			Find(&snap.RecentProjects).Error
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, err
	}

	return snap, nil
}
