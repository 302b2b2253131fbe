package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
)

type BlogController struct {
	blogService service.BlogService
}

func NewBlogController(blogService service.BlogService) *BlogController {
	return &BlogController{blogService: blogService}
}

// GetBlogs lists posts. The storefront sees published posts only.
// GET /api/v1/blogs
func (ctrl *BlogController) GetBlogs(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := repository.BlogFilter{
		PublishedOnly: !middleware.IsAdmin(c),
		Search:        c.Query("search"),
		Tag:           c.Query("tag"),
		Limit:         limit,
		Offset:        offset,
	}

	blogs, total, err := ctrl.blogService.GetBlogs(filter)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch blogs", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"blogs":   blogs,
		"total":   total,
	})
}

// GetBlog fetches one post by slug.
// GET /api/v1/blogs/:slug
func (ctrl *BlogController) GetBlog(c *gin.Context) {
	blog, err := ctrl.blogService.GetBlogBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			apperrors.NotFound(c, apperrors.BlogNotFound, "Post not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}
	if !blog.Published && !middleware.IsAdmin(c) {
		apperrors.NotFound(c, apperrors.BlogNotFound, "Post not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"blog":    blog,
	})
}

type blogRequest struct {
	Title         string   `json:"title" binding:"required"`
	Slug          string   `json:"slug" binding:"required"`
	Excerpt       string   `json:"excerpt"`
	Body          string   `json:"body" binding:"required"`
	CoverImageURL string   `json:"cover_image_url"`
	Tags          []string `json:"tags"`
	Published     bool     `json:"published"`
}

func (r *blogRequest) toModel() *model.Blog {
	return &model.Blog{
		Title:         r.Title,
		Slug:          r.Slug,
		Excerpt:       r.Excerpt,
		Body:          r.Body,
		CoverImageURL: r.CoverImageURL,
		Tags:          pq.StringArray(r.Tags),
		Published:     r.Published,
	}
}

// CreateBlog adds a post.
// POST /api/v1/admin/blogs
func (ctrl *BlogController) CreateBlog(c *gin.Context) {
	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	blog := req.toModel()
	if err := ctrl.blogService.CreateBlog(blog); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"blog":    blog,
	})
}

// UpdateBlog edits a post.
// PUT /api/v1/admin/blogs/:id
func (ctrl *BlogController) UpdateBlog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req blogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	blog := req.toModel()
	blog.ID = id
	if err := ctrl.blogService.UpdateBlog(blog); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			apperrors.NotFound(c, apperrors.BlogNotFound, "Post not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"blog":    blog,
	})
}

// DeleteBlog removes a post.
// DELETE /api/v1/admin/blogs/:id
func (ctrl *BlogController) DeleteBlog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.blogService.DeleteBlog(id); err != nil {
		if errors.Is(err, service.ErrBlogNotFound) {
			apperrors.NotFound(c, apperrors.BlogNotFound, "Post not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted",
	})
}
