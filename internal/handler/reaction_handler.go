package handler

import (
	"errors"
	"net/http"

	"github.com/blogapp/internal/logger"
	"github.com/blogapp/internal/middleware"
	"github.com/blogapp/internal/service"
	"github.com/gin-gonic/gin"
)

// AddReaction 写入或替换当前用户对文章的表态，并返回该文章全部
// (type, count) 聚合，前端据此一次性重绘所有表态按钮。
// 意外错误只记日志，响应保持通用提示。
func (a *API) AddReaction(c *gin.Context) {
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

	counts, err := a.reactions.React(postID, user.ID, c.PostForm("type"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReactionType):
			respondError(c, http.StatusBadRequest, "Reaction type is required.")
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "Post not found.")
		default:
			logger.Error(logger.Fields{
				"error":   err.Error(),
				"post_id": postID,
				"user_id": user.ID,
			}, "reaction upsert failed")
			respondError(c, http.StatusInternalServerError, "internal error")
		}
		return
	}

	c.JSON(http.StatusOK, counts)
}
