package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/blogapp/internal/logger"
	"github.com/blogapp/internal/service"
	"github.com/gin-gonic/gin"
)

// ListCategories 渲染分类列表
func (a *API) ListCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "list categories failed")
		a.renderHTML(c, http.StatusInternalServerError, "category_list.html", gin.H{
			"title": "Categories",
			"error": "Failed to load categories.",
		})
		return
	}

	a.renderHTML(c, http.StatusOK, "category_list.html", gin.H{
		"title":      "Categories",
		"categories": categories,
	})
}

// ShowCategoryCreate 渲染新建分类表单（仅管理员）。
func (a *API) ShowCategoryCreate(c *gin.Context) {
	a.renderHTML(c, http.StatusOK, "category_form.html", gin.H{
		"title": "New Category",
	})
}

// CreateCategory 处理新建分类，名称必须唯一。
func (a *API) CreateCategory(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))

	if _, err := a.categories.Create(name); err != nil {
		message := "Failed to create category."
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrCategoryName):
			message = "Name is required."
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrCategoryExists):
			message = "A category with this name already exists."
			status = http.StatusBadRequest
		default:
			logger.Error(logger.Fields{"error": err.Error()}, "create category failed")
		}
		a.renderHTML(c, status, "category_form.html", gin.H{
			"title":  "New Category",
			"errors": map[string]string{"name": message},
			"form":   gin.H{"name": name},
		})
		return
	}

	c.Redirect(http.StatusFound, "/categories")
}

// ShowCategoryEdit 渲染编辑分类表单（仅管理员）。
func (a *API) ShowCategoryEdit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		a.renderNotFound(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "category_form.html", gin.H{
		"title":    "Edit Category",
		"category": category,
		"form":     gin.H{"name": category.Name},
	})
}

// UpdateCategory 处理分类改名，保持名称唯一。
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))

	if _, err := a.categories.Update(id, name); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			a.renderNotFound(c)
			return
		}
		message := "Failed to update category."
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrCategoryName):
			message = "Name is required."
			status = http.StatusBadRequest
		case errors.Is(err, service.ErrCategoryExists):
			message = "A category with this name already exists."
			status = http.StatusBadRequest
		default:
			logger.Error(logger.Fields{"error": err.Error(), "category_id": id}, "update category failed")
		}
		a.renderHTML(c, status, "category_form.html", gin.H{
			"title":    "Edit Category",
			"category": gin.H{"ID": id},
			"errors":   map[string]string{"name": message},
			"form":     gin.H{"name": name},
		})
		return
	}

	c.Redirect(http.StatusFound, "/categories")
}

// ShowCategoryDelete 渲染删除确认页面（仅管理员）。
func (a *API) ShowCategoryDelete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	category, err := a.categories.Get(id)
	if err != nil {
		a.renderNotFound(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "category_delete.html", gin.H{
		"title":    "Delete Category",
		"category": category,
	})
}

// DeleteCategory 删除分类，引用它的文章会被置为未分类。
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	if err := a.categories.Delete(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.Redirect(http.StatusFound, "/categories")
			return
		}
		logger.Error(logger.Fields{"error": err.Error(), "category_id": id}, "delete category failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/categories")
}
