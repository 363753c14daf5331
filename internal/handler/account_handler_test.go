package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/blogapp/internal/db"
	"github.com/blogapp/internal/middleware"
	"github.com/blogapp/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// newSessionEngine 搭建带会话中间件的完整引擎，覆盖登录态相关的路由。
func newSessionEngine(t *testing.T) (*gin.Engine, *API, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := setupHandlerTestDB(t)
	db.DB = gdb
	api := NewAPI(gdb, t.TempDir(), "/static/images")

	r := gin.New()
	r.HTMLRender = stubHTMLRender{}

	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("blogapp_session", store))
	r.Use(middleware.LoadUser())

	r.GET("/register", api.ShowRegister)
	r.POST("/register", api.Register)
	r.GET("/login", api.ShowLogin)
	r.POST("/login", api.Login)
	r.GET("/access-denied", api.ShowAccessDenied)

	auth := r.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.POST("/logout", api.Logout)
		auth.POST("/api/comments", api.AddComment)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/posts/new", api.ShowPostCreate)
	}

	return r, api, gdb
}

func doPostForm(r http.Handler, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerForm(email string) url.Values {
	return url.Values{
		"fullName":        {"Test User"},
		"email":           {email},
		"contactNo":       {"12345678"},
		"password":        {"secret123"},
		"confirmPassword": {"secret123"},
	}
}

func TestRegisterSignsInAndRedirects(t *testing.T) {
	r, _, gdb := newSessionEngine(t)

	w := doPostForm(r, "/register", registerForm("first@example.com"), nil)

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/posts" {
		t.Fatalf("expected redirect to /posts, got %q", loc)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatal("expected a session cookie")
	}

	var user db.User
	if err := gdb.Where("email = ?", "first@example.com").First(&user).Error; err != nil {
		t.Fatalf("load created user: %v", err)
	}
	if user.Role != db.RoleAdmin {
		t.Fatalf("first registered user should be admin, got %q", user.Role)
	}
}

func TestRegisterValidationRerendersForm(t *testing.T) {
	r, _, gdb := newSessionEngine(t)

	form := registerForm("bad@example.com")
	form.Set("confirmPassword", "different")
	w := doPostForm(r, "/register", form, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var count int64
	gdb.Model(&db.User{}).Count(&count)
	if count != 0 {
		t.Fatalf("no user should be created, got %d", count)
	}
}

func TestRegisterDuplicateEmailRerendersForm(t *testing.T) {
	r, _, _ := newSessionEngine(t)

	if w := doPostForm(r, "/register", registerForm("dup@example.com"), nil); w.Code != http.StatusFound {
		t.Fatalf("first registration: expected 302, got %d", w.Code)
	}
	if w := doPostForm(r, "/register", registerForm("dup@example.com"), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("second registration: expected 400, got %d", w.Code)
	}
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	r, api, _ := newSessionEngine(t)

	if _, err := api.accounts.Register(service.RegisterInput{
		FullName: "A", Email: "known@example.com", ContactNo: "1", Password: "correct-pw",
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	wrongPw := doPostForm(r, "/login", url.Values{
		"email": {"known@example.com"}, "password": {"wrong"},
	}, nil)
	unknown := doPostForm(r, "/login", url.Values{
		"email": {"nobody@example.com"}, "password": {"correct-pw"},
	}, nil)

	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for both failures, got %d and %d", wrongPw.Code, unknown.Code)
	}
}

func TestLoginEstablishesSession(t *testing.T) {
	r, api, gdb := newSessionEngine(t)

	if _, err := api.accounts.Register(service.RegisterInput{
		FullName: "A", Email: "login@example.com", ContactNo: "1", Password: "secret123",
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	post := seedTestPost(t, gdb, "Post")

	login := doPostForm(r, "/login", url.Values{
		"email": {"login@example.com"}, "password": {"secret123"},
	}, nil)
	if login.Code != http.StatusFound {
		t.Fatalf("expected 302 after login, got %d", login.Code)
	}
	cookies := login.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	// 带会话 Cookie 可以发评论，没有则是 401
	withSession := doPostForm(r, "/api/comments", url.Values{
		"blogPostId": {"1"}, "content": {"hi from " + post.Title},
	}, cookies)
	if withSession.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d: %s", withSession.Code, withSession.Body.String())
	}

	anonymous := doPostForm(r, "/api/comments", url.Values{
		"blogPostId": {"1"}, "content": {"hi"},
	}, nil)
	if anonymous.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", anonymous.Code)
	}
}

func TestLogoutRedirects(t *testing.T) {
	r, _, _ := newSessionEngine(t)

	register := doPostForm(r, "/register", registerForm("out@example.com"), nil)
	cookies := register.Result().Cookies()

	w := doPostForm(r, "/logout", url.Values{}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/posts" {
		t.Fatalf("expected redirect to /posts, got %q", loc)
	}
}

func TestAdminRoutesGateByRole(t *testing.T) {
	r, _, _ := newSessionEngine(t)

	// 匿名访问重定向到登录页
	anon := doGet(r, "/admin/posts/new", nil)
	if anon.Code != http.StatusFound || anon.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", anon.Code, anon.Header().Get("Location"))
	}

	// 第一个注册用户是管理员，可以进入
	adminCookies := doPostForm(r, "/register", registerForm("admin@example.com"), nil).Result().Cookies()
	asAdmin := doGet(r, "/admin/posts/new", adminCookies)
	if asAdmin.Code != http.StatusOK {
		t.Fatalf("admin should reach the form, got %d", asAdmin.Code)
	}

	// 第二个是普通用户，被带去拒绝访问页
	userCookies := doPostForm(r, "/register", registerForm("user@example.com"), nil).Result().Cookies()
	asUser := doGet(r, "/admin/posts/new", userCookies)
	if asUser.Code != http.StatusFound || asUser.Header().Get("Location") != "/access-denied" {
		t.Fatalf("expected redirect to /access-denied, got %d %q", asUser.Code, asUser.Header().Get("Location"))
	}
}
