package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-hub/internal/model"
)

// ActivityRepository 动态流数据访问接口（只追加）
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
}

type activityRepo struct {
	db *gorm.DB
}

// NewActivityRepo 创建 ActivityRepository 实例
func NewActivityRepo(db *gorm.DB) ActivityRepository {
	return &activityRepo{db: db}
}

func (r *activityRepo) Create(ctx context.Context, activity *model.Activity) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(activity).Error
}
