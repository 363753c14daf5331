package service

import (
	"errors"
	"strings"

	"github.com/blogapp/internal/db"
	"gorm.io/gorm"
)

var (
	ErrReactionType = errors.New("reaction type is required")
)

// ReactionService wraps per-user reaction upserts and count projections.
type ReactionService struct {
	db *gorm.DB
}

// ReactionCount 表示某篇文章下一种表态类型的聚合计数。
type ReactionCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// NewReactionService creates a ReactionService instance.
func NewReactionService(gdb *gorm.DB) *ReactionService {
	return &ReactionService{db: gdb}
}

// React stores or replaces the user's reaction on a post and returns the
// refreshed per-type counts. The lookup and write share one transaction; the
// unique index on (blog_post_id, user_id) backstops concurrent submissions.
func (s *ReactionService) React(postID, userID uint, reactionType string) ([]ReactionCount, error) {
	rtype := strings.TrimSpace(reactionType)
	if rtype == "" {
		return nil, ErrReactionType
	}

	var post db.BlogPost
	if err := s.db.Select("id").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing db.Reaction
		err := tx.Where("blog_post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		if err == nil {
			existing.Type = rtype
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(&db.Reaction{
			BlogPostID: postID,
			UserID:     userID,
			Type:       rtype,
		}).Error
	}); err != nil {
		return nil, err
	}

	return s.Counts(postID)
}

// Counts returns the (type, count) aggregates for a post ordered by type.
func (s *ReactionService) Counts(postID uint) ([]ReactionCount, error) {
	counts := make([]ReactionCount, 0)
	if err := s.db.Model(&db.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("blog_post_id = ?", postID).
		Group("type").
		Order("type asc").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}
