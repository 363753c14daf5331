package db

import "time"

// Reaction 定义了表态模型。(blog_post_id, user_id) 上的唯一索引保证
// 每个用户对同一篇文章最多一条记录，并发重复提交会命中约束而不是写出脏行。
type Reaction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BlogPostID uint      `gorm:"uniqueIndex:idx_reactions_post_user;not null" json:"blog_post_id"`
	UserID     uint      `gorm:"uniqueIndex:idx_reactions_post_user;not null" json:"user_id"`
	Type       string    `gorm:"size:30;not null" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
