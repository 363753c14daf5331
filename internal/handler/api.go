package handler

import (
	"time"

	"github.com/blogapp/internal/middleware"
	"github.com/blogapp/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	accounts   *service.AccountService
	posts      *service.PostService
	categories *service.CategoryService
	comments   *service.CommentService
	reactions  *service.ReactionService
	images     *service.ImageService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:         gdb,
		accounts:   service.NewAccountService(gdb),
		posts:      service.NewPostService(gdb),
		categories: service.NewCategoryService(gdb),
		comments:   service.NewCommentService(gdb),
		reactions:  service.NewReactionService(gdb),
		images:     service.NewImageService(uploadDir, uploadURL),
	}
}

// renderHTML 渲染模板时自动附加当前用户、CSRF 令牌与年份。
func (a *API) renderHTML(c *gin.Context, status int, template string, data gin.H) {
	payload := gin.H{}
	for key, value := range data {
		payload[key] = value
	}

	if _, exists := payload["user"]; !exists {
		payload["user"] = middleware.CurrentUser(c)
	}
	if _, exists := payload["csrfToken"]; !exists {
		payload["csrfToken"] = middleware.CSRFToken(c)
	}
	if _, exists := payload["year"]; !exists {
		payload["year"] = time.Now().Year()
	}

	c.HTML(status, template, payload)
}
