package db

import "time"

// 应用只使用两种角色，注册时根据用户表是否为空决定。
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User 定义了用户模型
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	ContactNo    string    `gorm:"size:30" json:"contact_no"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"size:20;default:'user';not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	// 硬删除，不保留 DeletedAt
}

// IsAdmin 判断用户是否拥有管理员角色。
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
