package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-hub/internal/model"
	pkgerrors "project-hub/pkg/errors"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateBatch(ctx context.Context, users []*model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByEmails(ctx context.Context, emails []string) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	return pkgerrors.TranslateWriteError(err)
}

// CreateBatch 单条 INSERT 批量写入，任一行冲突则整体失败
func (r *userRepo) CreateBatch(ctx context.Context, users []*model.User) error {
	if len(users) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&users).Error
	return pkgerrors.TranslateWriteError(err)
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) ListByEmails(ctx context.Context, emails []string) ([]model.User, error) {
	var users []model.User
	if len(emails) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).
		Where("email IN ?", emails).
		Find(&users).Error
	return users, err
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error
	return pkgerrors.TranslateWriteError(err)
}

// Delete 删除用户，在同一事务内：
// 动态中对该用户及其任务的引用置空 → 删除其任务 → 移除项目成员关系 → 删除用户
func (r *userRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ownedTasks := tx.Model(&model.Task{}).Select("id").Where("user_id = ?", id)

		if err := tx.Model(&model.Activity{}).
			Where("task_id IN (?)", ownedTasks).
			Update("task_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Activity{}).
			Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_members WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
