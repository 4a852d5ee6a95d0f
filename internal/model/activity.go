package model

// Activity 动态流记录 — 对应 activities（只追加）
// 关联的用户/项目/任务被删除时引用置空，内容保留
type Activity struct {
	ID        string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Content   string  `gorm:"type:text;not null"                             json:"content"`
	UserID    *string `gorm:"type:uuid;index"                                json:"userId"`
	ProjectID *string `gorm:"type:uuid;index"                                json:"projectId"`
	TaskID    *string `gorm:"type:uuid"                                      json:"taskId"`
	BaseModel

	// 关联
	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"    json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
	Task    *Task    `gorm:"foreignKey:TaskID;constraint:OnDelete:SET NULL"    json:"task,omitempty"`
}

// TableName 指定表名
func (Activity) TableName() string { return "activities" }
