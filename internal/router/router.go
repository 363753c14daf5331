package router

import (
	"html/template"
	"net/http"

	"github.com/blogapp/internal/config"
	"github.com/blogapp/internal/db"
	"github.com/blogapp/internal/handler"
	"github.com/blogapp/internal/middleware"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Setup 配置 Gin 引擎和路由
func Setup(cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("blogapp_session", store))
	r.Use(middleware.LoadUser())
	r.Use(middleware.CSRF())

	// 加载模板并添加自定义函数
	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
	})
	r.LoadHTMLGlob("web/template/*.html")

	// 静态文件服务
	r.Static("/static", "./web/static")

	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/posts")
	})

	// 匿名可访问
	r.GET("/register", api.ShowRegister)
	r.POST("/register", api.Register)
	r.GET("/login", api.ShowLogin)
	r.POST("/login", api.Login)
	r.GET("/access-denied", api.ShowAccessDenied)
	r.GET("/posts", api.ListPosts)
	r.GET("/posts/:id", api.ShowPost)
	r.GET("/categories", api.ListCategories)

	// 需要登录
	auth := r.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.POST("/logout", api.Logout)
		auth.POST("/api/comments", api.AddComment)
		auth.POST("/api/reactions", api.AddReaction)
	}

	// 仅管理员
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/posts/new", api.ShowPostCreate)
		admin.POST("/posts/new", api.CreatePost)
		admin.GET("/posts/:id/edit", api.ShowPostEdit)
		admin.POST("/posts/:id/edit", api.UpdatePost)
		admin.GET("/posts/:id/delete", api.ShowPostDelete)
		admin.POST("/posts/:id/delete", api.DeletePost)

		admin.GET("/categories/new", api.ShowCategoryCreate)
		admin.POST("/categories/new", api.CreateCategory)
		admin.GET("/categories/:id/edit", api.ShowCategoryEdit)
		admin.POST("/categories/:id/edit", api.UpdateCategory)
		admin.GET("/categories/:id/delete", api.ShowCategoryDelete)
		admin.POST("/categories/:id/delete", api.DeleteCategory)
	}

	return r
}
