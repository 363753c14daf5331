package handler

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/blogapp/internal/db"
	"github.com/blogapp/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Category{}, &db.BlogPost{}, &db.Comment{}, &db.Reaction{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

// stubHTMLRender 用模板名充当响应体，测试无需加载真实模板。
type stubHTMLRender struct{}

func (stubHTMLRender) Instance(name string, data any) render.Render {
	return stubRender{name: name}
}

type stubRender struct {
	name string
}

func (r stubRender) Render(w http.ResponseWriter) error {
	_, err := io.WriteString(w, r.name)
	return err
}

func (stubRender) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func newTestAPI(t *testing.T) (*API, *gorm.DB, string) {
	t.Helper()
	gdb := setupHandlerTestDB(t)
	uploadDir := t.TempDir()
	return NewAPI(gdb, uploadDir, "/static/images"), gdb, uploadDir
}

// newFormContext 构造一个带表单请求的测试上下文，user 非空时视为已登录。
func newFormContext(t *testing.T, w *httptest.ResponseRecorder, method, target string, form url.Values, user *db.User) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, engine := gin.CreateTestContext(w)
	engine.HTMLRender = stubHTMLRender{}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	c.Request = req

	if user != nil {
		c.Set(middleware.CheckUserKey, user)
	}
	return c
}

func seedTestUser(t *testing.T, gdb *gorm.DB, email, role string) *db.User {
	t.Helper()
	user := db.User{
		FullName:     "Test User",
		Email:        email,
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("seed user %q: %v", email, err)
	}
	return &user
}

func seedTestPost(t *testing.T, gdb *gorm.DB, title string) *db.BlogPost {
	t.Helper()
	post := db.BlogPost{
		Title:   title,
		Author:  "Author",
		Content: "Some **markdown** content.",
	}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("seed post %q: %v", title, err)
	}
	return &post
}
