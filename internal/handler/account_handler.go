package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/blogapp/internal/logger"
	"github.com/blogapp/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// 勾选"记住我"时的会话有效期（秒），否则为浏览器会话 Cookie。
const rememberMeMaxAge = 30 * 24 * 60 * 60

// ShowRegister 渲染注册页面
func (a *API) ShowRegister(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "register.html", gin.H{
		"title": "Register",
	})
}

// Register 处理注册请求：校验表单，创建用户并直接建立会话。
func (a *API) Register(c *gin.Context) {
	fullName := strings.TrimSpace(c.PostForm("fullName"))
	email := strings.TrimSpace(c.PostForm("email"))
	contactNo := strings.TrimSpace(c.PostForm("contactNo"))
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirmPassword")

	fieldErrors := map[string]string{}
	if fullName == "" {
		fieldErrors["fullName"] = "Full name is required."
	}
	if email == "" {
		fieldErrors["email"] = "Email is required."
	} else if !strings.Contains(email, "@") {
		fieldErrors["email"] = "Email is not valid."
	}
	if contactNo == "" {
		fieldErrors["contactNo"] = "Contact number is required."
	}
	if len(password) < 6 {
		fieldErrors["password"] = "Password must be at least 6 characters."
	}
	if password != confirmPassword {
		fieldErrors["confirmPassword"] = "Passwords do not match."
	}

	form := gin.H{"fullName": fullName, "email": email, "contactNo": contactNo}

	if len(fieldErrors) > 0 {
		a.renderHTML(c, http.StatusBadRequest, "register.html", gin.H{
			"title":  "Register",
			"errors": fieldErrors,
			"form":   form,
		})
		return
	}

	user, err := a.accounts.Register(service.RegisterInput{
		FullName:  fullName,
		Email:     email,
		ContactNo: contactNo,
		Password:  password,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			a.renderHTML(c, http.StatusBadRequest, "register.html", gin.H{
				"title":  "Register",
				"errors": map[string]string{"email": "This email is already registered."},
				"form":   form,
			})
			return
		}
		logger.Error(logger.Fields{"error": err.Error()}, "registration failed")
		a.renderHTML(c, http.StatusInternalServerError, "register.html", gin.H{
			"title": "Register",
			"error": "Registration failed, please try again.",
			"form":  form,
		})
		return
	}

	if err := a.signIn(c, user.ID, false); err != nil {
		logger.Error(logger.Fields{"error": err.Error(), "user_id": user.ID}, "session save failed")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/posts")
}

// ShowLogin 渲染登录页面
func (a *API) ShowLogin(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "login.html", gin.H{
		"title": "Login",
	})
}

// Login 校验凭据并建立会话。未知邮箱与错误密码返回同一条提示。
func (a *API) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	remember := c.PostForm("rememberMe") == "on" || c.PostForm("rememberMe") == "true"

	user, err := a.accounts.Authenticate(email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			a.renderHTML(c, http.StatusUnauthorized, "login.html", gin.H{
				"title": "Login",
				"error": "Invalid login attempt.",
				"form":  gin.H{"email": email, "rememberMe": remember},
			})
			return
		}
		logger.Error(logger.Fields{"error": err.Error()}, "login failed")
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Login",
			"error": "Login failed, please try again.",
		})
		return
	}

	if err := a.signIn(c, user.ID, remember); err != nil {
		logger.Error(logger.Fields{"error": err.Error(), "user_id": user.ID}, "session save failed")
		a.renderHTML(c, http.StatusInternalServerError, "login.html", gin.H{
			"title": "Login",
			"error": "Login failed, please try again.",
		})
		return
	}

	c.Redirect(http.StatusFound, "/posts")
}

// Logout 处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "session clear failed")
	}
	c.Redirect(http.StatusFound, "/posts")
}

// ShowAccessDenied 渲染拒绝访问页面
func (a *API) ShowAccessDenied(c *gin.Context) {
	a.renderHTML(c, http.StatusForbidden, "access_denied.html", gin.H{
		"title": "Access Denied",
	})
}

func (a *API) signIn(c *gin.Context, userID uint, remember bool) error {
	session := sessions.Default(c)

	options := sessions.Options{Path: "/", HttpOnly: true}
	if remember {
		options.MaxAge = rememberMeMaxAge
	}
	session.Options(options)

	session.Set("user_id", userID)
	return session.Save()
}
