package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/blogapp/internal/logger"
	"github.com/blogapp/internal/service"
	"github.com/gin-gonic/gin"
)

// ListPosts 渲染文章列表：搜索、分类过滤、排序与分页。
func (a *API) ListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:     strings.TrimSpace(c.Query("searchString")),
		SortOrder:  strings.TrimSpace(c.Query("sortOrder")),
		CategoryID: parseUintQuery(c, "categoryId"),
		Page:       parsePositiveInt(c.Query("pageNumber"), 1),
		PageSize:   parsePositiveInt(c.Query("pageSize"), service.DefaultPageSize),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "list posts failed")
		a.renderHTML(c, http.StatusInternalServerError, "post_list.html", gin.H{
			"title": "Posts",
			"error": "Failed to load posts.",
		})
		return
	}

	categories, err := a.categories.List()
	if err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "list categories failed")
		categories = nil
	}

	pages := make([]int, 0, result.TotalPages)
	for i := 1; i <= result.TotalPages; i++ {
		pages = append(pages, i)
	}

	a.renderHTML(c, http.StatusOK, "post_list.html", gin.H{
		"title":      "Posts",
		"posts":      result.Posts,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"pages":      pages,
		"search":     result.Search,
		"sortOrder":  result.SortOrder,
		"categoryId": result.CategoryID,
		"categories": categories,
	})
}

// ShowPost 渲染文章详情，包含分类、评论（含作者）与表态计数。
func (a *API) ShowPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c)
			return
		}
		logger.Error(logger.Fields{"error": err.Error(), "post_id": id}, "load post failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	content, err := renderMarkdown(post.Content)
	if err != nil {
		logger.Error(logger.Fields{"error": err.Error(), "post_id": id}, "render content failed")
		content = ""
	}

	counts, err := a.reactions.Counts(id)
	if err != nil {
		logger.Error(logger.Fields{"error": err.Error(), "post_id": id}, "load reaction counts failed")
		counts = nil
	}

	a.renderHTML(c, http.StatusOK, "post_detail.html", gin.H{
		"title":          post.Title,
		"post":           post,
		"content":        content,
		"reactionCounts": counts,
	})
}

// ShowPostCreate 渲染新建文章表单（仅管理员）。
func (a *API) ShowPostCreate(c *gin.Context) {
	categories, _ := a.categories.List()
	a.renderHTML(c, http.StatusOK, "post_form.html", gin.H{
		"title":            "New Post",
		"categories":       categories,
		"selectedCategory": uint(0),
		"form":             gin.H{"title": "", "author": "", "content": ""},
	})
}

// CreatePost 处理新建文章：标题、作者、正文与图片均为必填。
func (a *API) CreatePost(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	author := strings.TrimSpace(c.PostForm("author"))
	content := c.PostForm("content")
	categoryID := parseOptionalCategory(c.PostForm("categoryId"))

	fieldErrors := map[string]string{}
	if title == "" {
		fieldErrors["title"] = "Title is required."
	}
	if author == "" {
		fieldErrors["author"] = "Author is required."
	}
	if strings.TrimSpace(content) == "" {
		fieldErrors["content"] = "Content is required."
	}

	file, err := c.FormFile("image")
	if err != nil {
		fieldErrors["image"] = "Image is required."
	} else if err := a.images.ValidateFilename(file.Filename); err != nil {
		fieldErrors["image"] = "Only .jpg, .jpeg, and .png files are allowed."
	}

	if len(fieldErrors) > 0 {
		a.renderPostForm(c, http.StatusBadRequest, "New Post", 0, title, author, content, categoryID, fieldErrors)
		return
	}

	imagePath, thumbPath, err := a.saveImage(file)
	if err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "store image failed")
		a.renderPostForm(c, http.StatusInternalServerError, "New Post", 0, title, author, content, categoryID,
			map[string]string{"image": "Failed to store the uploaded image."})
		return
	}

	if _, err := a.posts.Create(service.PostInput{
		Title:      title,
		Author:     author,
		Content:    content,
		CategoryID: categoryID,
		ImagePath:  imagePath,
		ThumbPath:  thumbPath,
	}); err != nil {
		logger.Error(logger.Fields{"error": err.Error()}, "create post failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/posts")
}

// ShowPostEdit 渲染编辑文章表单（仅管理员）。
func (a *API) ShowPostEdit(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.renderNotFound(c)
		return
	}

	selected := uint(0)
	if post.CategoryID != nil {
		selected = *post.CategoryID
	}

	categories, _ := a.categories.List()
	a.renderHTML(c, http.StatusOK, "post_form.html", gin.H{
		"title":            "Edit Post",
		"post":             post,
		"categories":       categories,
		"selectedCategory": selected,
		"form": gin.H{
			"title":   post.Title,
			"author":  post.Author,
			"content": post.Content,
		},
	})
}

// UpdatePost 处理编辑提交：覆盖全部可变字段，图片可选替换。
// 行在加载与保存之间被删除时按未找到处理。
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	author := strings.TrimSpace(c.PostForm("author"))
	content := c.PostForm("content")
	categoryID := parseOptionalCategory(c.PostForm("categoryId"))

	fieldErrors := map[string]string{}
	if title == "" {
		fieldErrors["title"] = "Title is required."
	}
	if author == "" {
		fieldErrors["author"] = "Author is required."
	}
	if strings.TrimSpace(content) == "" {
		fieldErrors["content"] = "Content is required."
	}

	// 编辑时图片可选
	var imagePath, thumbPath string
	file, fileErr := c.FormFile("image")
	if fileErr == nil {
		if err := a.images.ValidateFilename(file.Filename); err != nil {
			fieldErrors["image"] = "Only .jpg, .jpeg, and .png files are allowed."
		}
	}

	if len(fieldErrors) > 0 {
		a.renderPostForm(c, http.StatusBadRequest, "Edit Post", id, title, author, content, categoryID, fieldErrors)
		return
	}

	if file != nil {
		imagePath, thumbPath, err = a.saveImage(file)
		if err != nil {
			logger.Error(logger.Fields{"error": err.Error(), "post_id": id}, "store image failed")
			a.renderPostForm(c, http.StatusInternalServerError, "Edit Post", id, title, author, content, categoryID,
				map[string]string{"image": "Failed to store the uploaded image."})
			return
		}
	}

	if _, err := a.posts.Update(id, service.PostInput{
		Title:      title,
		Author:     author,
		Content:    content,
		CategoryID: categoryID,
		ImagePath:  imagePath,
		ThumbPath:  thumbPath,
	}); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			a.renderNotFound(c)
			return
		}
		logger.Error(logger.Fields{"error": err.Error(), "post_id": id}, "update post failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/posts")
}

// ShowPostDelete 渲染删除确认页面（仅管理员）。
func (a *API) ShowPostDelete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		a.renderNotFound(c)
		return
	}

	a.renderHTML(c, http.StatusOK, "post_delete.html", gin.H{
		"title": "Delete Post",
		"post":  post,
	})
}

// DeletePost 删除文章并尽力清理对应的图片文件。
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		a.renderNotFound(c)
		return
	}

	post, err := a.posts.Delete(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.Redirect(http.StatusFound, "/posts")
			return
		}
		logger.Error(logger.Fields{"error": err.Error(), "post_id": id}, "delete post failed")
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	if err := a.images.Remove(post.ImagePath); err != nil {
		logger.Warn(logger.Fields{"error": err.Error(), "post_id": id}, "remove image failed")
	}
	if err := a.images.Remove(post.ThumbPath); err != nil {
		logger.Warn(logger.Fields{"error": err.Error(), "post_id": id}, "remove thumbnail failed")
	}

	c.Redirect(http.StatusFound, "/posts")
}

func (a *API) saveImage(file *multipart.FileHeader) (string, string, error) {
	imagePath, thumbPath, err := a.images.Save(file)
	if err != nil {
		return "", "", err
	}
	if thumbPath == "" {
		logger.Info(logger.Fields{"image": imagePath}, "no thumbnail generated")
	}
	return imagePath, thumbPath, nil
}

func (a *API) renderPostForm(c *gin.Context, status int, title string, id uint, postTitle, author, content string, categoryID *uint, fieldErrors map[string]string) {
	categories, _ := a.categories.List()

	selected := uint(0)
	if categoryID != nil {
		selected = *categoryID
	}

	data := gin.H{
		"title":            title,
		"categories":       categories,
		"selectedCategory": selected,
		"errors":           fieldErrors,
		"form": gin.H{
			"title":   postTitle,
			"author":  author,
			"content": content,
		},
	}
	if id > 0 {
		data["post"] = gin.H{"ID": id}
	}

	a.renderHTML(c, status, "post_form.html", data)
}
