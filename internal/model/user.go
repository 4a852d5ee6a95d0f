package model

// User 用户表 — 对应 users
// email 唯一，是登录查找键（精确匹配）
type User struct {
	ID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string `gorm:"type:varchar(200);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	BaseModel

	// 关联
	Projects []Project `gorm:"many2many:project_members;constraint:OnDelete:CASCADE" json:"projects,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsStaff 是否为教职工
func (u *User) IsStaff() bool { return u.Role == RoleStaff }
