package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	csrfSessionKey = "csrf_token"
	csrfContextKey = "__csrf_token"

	// CSRFFormField 是表单里携带令牌的字段名。
	CSRFFormField = "_csrf"
	// CSRFHeader 是 AJAX 请求携带令牌的请求头。
	CSRFHeader = "X-CSRF-Token"
)

// CSRF issues a per-session token and verifies it on every mutating request.
// Forms submit it as a hidden field, the JSON endpoints send it as a header.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfSessionKey).(string)
		if token == "" {
			token = uuid.New().String()
			session.Set(csrfSessionKey, token)
			if err := session.Save(); err != nil {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
		}
		c.Set(csrfContextKey, token)

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		submitted := c.PostForm(CSRFFormField)
		if submitted == "" {
			submitted = c.GetHeader(CSRFHeader)
		}

		if subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid request token"})
				return
			}
			c.String(http.StatusForbidden, "invalid request token")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token issued for the current session.
func CSRFToken(c *gin.Context) string {
	token, _ := c.Get(csrfContextKey)
	if s, ok := token.(string); ok {
		return s
	}
	return ""
}
