package db

import "time"

// BlogPost 定义了文章模型。CategoryID 允许为空：未分类文章在数据库层面
// 存 NULL，列表过滤与按分类排序把空分类当作空名称处理。
type BlogPost struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"size:200;not null" json:"title"`
	Author     string     `gorm:"size:100;not null" json:"author"`
	Content    string     `gorm:"not null" json:"content"`
	ImagePath  string     `gorm:"size:255" json:"image_path"`
	ThumbPath  string     `gorm:"size:255" json:"thumb_path"`
	CategoryID *uint      `json:"category_id"`
	Category   *Category  `json:"category,omitempty"`
	Comments   []Comment  `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	Reactions  []Reaction `gorm:"constraint:OnDelete:CASCADE" json:"reactions,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
