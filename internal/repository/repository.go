package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db        *gorm.DB
	User      UserRepository
	Project   ProjectRepository
	Task      TaskRepository
	Activity  ActivityRepository
	Dashboard DashboardRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:        db,
		User:      NewUserRepo(db),
		Project:   NewProjectRepo(db),
		Task:      NewTaskRepo(db),
		Activity:  NewActivityRepo(db),
		Dashboard: NewDashboardRepo(db),
	}
}

// Transaction 在同一事务中执行 fn，fn 返回错误时整体回滚
// db 为 nil（单元测试注入 mock 仓储）时直接在当前聚合上执行
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 检查数据库连通性（健康检查使用）
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
