package service

import (
	"errors"
	"strings"

	"github.com/blogapp/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

// DefaultPageSize 是文章列表的默认每页条数。
const DefaultPageSize = 3

// PostService wraps blog post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search     string
	CategoryID uint
	SortOrder  string
	Page       int
	PageSize   int
}

// PostListResult aggregates paginated list data plus the echoed filter state.
type PostListResult struct {
	Posts      []db.BlogPost
	Total      int64
	TotalPages int
	Page       int
	PageSize   int
	Search     string
	CategoryID uint
	SortOrder  string
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title      string
	Author     string
	Content    string
	CategoryID *uint
	ImagePath  string
	ThumbPath  string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// List provides filtered, sorted and paginated posts with eager-loaded
// category, comments and reactions.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		Search:     strings.TrimSpace(filter.Search),
		CategoryID: filter.CategoryID,
		SortOrder:  filter.SortOrder,
	}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PageSize <= 0 {
		result.PageSize = DefaultPageSize
	}

	countQuery := s.applyFilters(s.db.Model(&db.BlogPost{}), result.Search, result.CategoryID)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PageSize

	var posts []db.BlogPost
	dataQuery := s.applyFilters(
		s.db.Model(&db.BlogPost{}).
			Preload("Category").
			Preload("Comments").
			Preload("Reactions"),
		result.Search,
		result.CategoryID,
	)

	if err := dataQuery.
		Order(orderClause(result.SortOrder)).
		Limit(result.PageSize).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	if result.Total > 0 {
		result.TotalPages = int((result.Total + int64(result.PageSize) - 1) / int64(result.PageSize))
	}

	result.Posts = posts
	return result, nil
}

// Get fetches a post by id with category, comments (with their users) and
// reactions preloaded.
func (s *PostService) Get(id uint) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.
		Preload("Category").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("comments.created_at asc")
		}).
		Preload("Comments.User").
		Preload("Reactions").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a new post.
func (s *PostService) Create(input PostInput) (*db.BlogPost, error) {
	post := db.BlogPost{
		Title:      strings.TrimSpace(input.Title),
		Author:     strings.TrimSpace(input.Author),
		Content:    input.Content,
		CategoryID: input.CategoryID,
		ImagePath:  input.ImagePath,
		ThumbPath:  input.ThumbPath,
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Update overwrites the mutable fields of an existing post. An empty
// input.ImagePath keeps the stored image untouched.
func (s *PostService) Update(id uint, input PostInput) (*db.BlogPost, error) {
	var existing db.BlogPost
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	existing.Title = strings.TrimSpace(input.Title)
	existing.Author = strings.TrimSpace(input.Author)
	existing.Content = input.Content
	existing.CategoryID = input.CategoryID
	if input.ImagePath != "" {
		existing.ImagePath = input.ImagePath
		existing.ThumbPath = input.ThumbPath
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// Delete removes a post together with its comments and reactions, and
// returns the removed row so callers can clean up stored image files.
func (s *PostService) Delete(id uint) (*db.BlogPost, error) {
	var post db.BlogPost
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_post_id = ?", id).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blog_post_id = ?", id).Delete(&db.Reaction{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.BlogPost{}, id).Error
	}); err != nil {
		return nil, err
	}

	return &post, nil
}

func (s *PostService) applyFilters(query *gorm.DB, search string, categoryID uint) *gorm.DB {
	query = query.Joins("LEFT JOIN categories ON categories.id = blog_posts.category_id")

	if search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"blog_posts.title LIKE ? OR blog_posts.author LIKE ? OR categories.name LIKE ?",
			like, like, like,
		)
	}

	if categoryID > 0 {
		query = query.Where("blog_posts.category_id = ?", categoryID)
	}

	return query
}

// orderClause 把排序键映射为 SQL 排序表达式，未知键回退到按创建时间倒序。
func orderClause(sortOrder string) string {
	switch sortOrder {
	case "createdDate_asc":
		return "blog_posts.created_at asc, blog_posts.id asc"
	case "createdDate_desc":
		return "blog_posts.created_at desc, blog_posts.id desc"
	case "title_asc":
		return "blog_posts.title asc, blog_posts.id asc"
	case "title_desc":
		return "blog_posts.title desc, blog_posts.id desc"
	case "author_asc":
		return "blog_posts.author asc, blog_posts.id asc"
	case "author_desc":
		return "blog_posts.author desc, blog_posts.id desc"
	case "category_asc":
		// 未分类按空名称参与排序，而不是依赖 NULL 的排序位置
		return "COALESCE(categories.name, '') asc, blog_posts.id asc"
	case "category_desc":
		return "COALESCE(categories.name, '') desc, blog_posts.id desc"
	default:
		return "blog_posts.created_at desc, blog_posts.id desc"
	}
}
