package service

import (
	"errors"
	"strings"

	"github.com/blogapp/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentEmpty = errors.New("comment cannot be empty")
)

// CommentService wraps comment creation. Comments are append-only: there is
// no edit or delete path.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Add persists a comment for the given post and user. Whitespace-only content
// is rejected before anything touches the database.
func (s *CommentService) Add(postID, userID uint, content string) (*db.Comment, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrCommentEmpty
	}

	var post db.BlogPost
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := db.Comment{
		BlogPostID: postID,
		UserID:     userID,
		Content:    trimmed,
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForPost returns the comments of a post oldest first, with users loaded.
func (s *CommentService) ListForPost(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.Preload("User").
		Where("blog_post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
