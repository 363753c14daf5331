package db

import "time"

// Comment 定义了评论模型，只增不改不删
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BlogPostID uint      `gorm:"index;not null" json:"blog_post_id"`
	UserID     uint      `gorm:"not null" json:"user_id"`
	User       User      `json:"user"`
	Content    string    `gorm:"not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
