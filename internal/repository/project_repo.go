package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-hub/internal/model"
)

// ProjectRepository 项目数据访问接口
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project, memberIDs []string) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// List memberID 为空时返回全部项目，否则仅返回该用户参与的项目
	List(ctx context.Context, memberID string) ([]model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, projectID, userID string) error
	RemoveMember(ctx context.Context, projectID, userID string) error
	IsMember(ctx context.Context, projectID, userID string) (bool, error)
}

// projectRepo ProjectRepository 的 GORM 实现
type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo 创建 ProjectRepository 实例
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// Create 写入项目与成员关系（只写关联表，不回写用户记录）
func (r *projectRepo) Create(ctx context.Context, project *model.Project, memberIDs []string) error {
	project.Users = make([]model.User, 0, len(memberIDs))
	for _, id := range memberIDs {
		project.Users = append(project.Users, model.User{ID: id})
	}
	return r.db.WithContext(ctx).
		Omit("Users.*", "Tasks").
		Create(project).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Users", orderByName).
		Preload("Tasks", orderByCreated).
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) List(ctx context.Context, memberID string) ([]model.Project, error) {
	var projects []model.Project
	db := r.db.WithContext(ctx).
		Preload("Users", orderByName).
		Preload("Tasks", orderByCreated)
	if memberID != "" {
		db = db.Where("id IN (?)", memberProjectIDs(r.db, memberID))
	}
	err := db.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(project).Error
}

// Delete 删除项目，在同一事务内：
// 动态引用置空 → 删除项目任务 → 移除成员关系 → 删除项目
func (r *projectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projectTasks := tx.Model(&model.Task{}).Select("id").Where("project_id = ?", id)

		if err := tx.Model(&model.Activity{}).
			Where("task_id IN (?)", projectTasks).
			Update("task_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Activity{}).
			Where("project_id = ?", id).
			Update("project_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_members WHERE project_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&model.Project{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AddMember 幂等添加成员
func (r *projectRepo) AddMember(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO project_members (project_id, user_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		projectID, userID,
	).Error
}

func (r *projectRepo) RemoveMember(ctx context.Context, projectID, userID string) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM project_members WHERE project_id = ? AND user_id = ?",
		projectID, userID,
	).Error
}

func (r *projectRepo) IsMember(ctx context.Context, projectID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("project_members").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&n).Error
	return n > 0, err
}

// ── 查询辅助 ──

// memberProjectIDs 子查询：用户参与的项目 ID
func memberProjectIDs(db *gorm.DB, userID string) *gorm.DB {
	return db.Table("project_members").Select("project_id").Where("user_id = ?", userID)
}

func orderByName(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }

func orderByCreated(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }
