package handler

import (
	"errors"
	"html"
	"net/http"

	"github.com/blogapp/internal/logger"
	"github.com/blogapp/internal/middleware"
	"github.com/blogapp/internal/service"
	"github.com/gin-gonic/gin"
)

// AddComment 为当前登录用户追加一条评论，返回小块 JSON 供前端增量渲染。
func (a *API) AddComment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, "login required")
		return
	}

	postID, err := parseUintForm(c, "blogPostId")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid blogPostId")
		return
	}

	// 评论存纯文本：剥掉标签后再还原实体，"a & b" 原样入库，转义交给输出端
	content := html.UnescapeString(commentPolicy.Sanitize(c.PostForm("content")))

	comment, err := a.comments.Add(postID, user.ID, content)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentEmpty):
			respondError(c, http.StatusBadRequest, "Comment cannot be empty.")
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "Post not found.")
		default:
			logger.Error(logger.Fields{
				"error":   err.Error(),
				"post_id": postID,
				"user_id": user.ID,
			}, "add comment failed")
			respondError(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":     comment.Content,
		"createdDate": comment.CreatedAt.Format("Jan 2, 2006 15:04"),
		"user":        comment.User.FullName,
	})
}
