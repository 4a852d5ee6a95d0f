package model

import "time"

// Project 项目表 — 对应 projects
type Project struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string     `gorm:"type:varchar(200);not null"                     json:"name"`
	Description string     `gorm:"type:text;not null;default:''"                  json:"description"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	Deadline    *time.Time `gorm:"type:timestamptz"                               json:"deadline"`
	BaseModel

	// 关联：成员（教职工负责人 + 分配的学生）与任务
	Users []User `gorm:"many2many:project_members;constraint:OnDelete:CASCADE" json:"users,omitempty"`
	Tasks []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"      json:"tasks,omitempty"`
}

// TableName 指定表名
func (Project) TableName() string { return "projects" }

// HasMember 判断用户是否为项目成员（需已预加载 Users）
func (p *Project) HasMember(userID string) bool {
	for _, u := range p.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}
