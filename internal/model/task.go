package model

// Task 任务表 — 对应 tasks
type Task struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title     string `gorm:"type:varchar(200);not null"                     json:"title"`
	Status    string `gorm:"type:varchar(20);not null;default:'TODO'"       json:"status"`
	UserID    string `gorm:"type:uuid;not null;index"                       json:"userId"`
	ProjectID string `gorm:"type:uuid;not null;index"                       json:"projectId"`
	BaseModel

	// 关联
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"    json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID"                              json:"project,omitempty"`
}

// TableName 指定表名
func (Task) TableName() string { return "tasks" }
