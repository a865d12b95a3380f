package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/internal/services"
)

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postRepository      repositories.PostRepository
	mediaPipeline       *services.MediaPipeline
	notificationService *services.NotificationService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, mediaPipeline *services.MediaPipeline, notificationService *services.NotificationService) *PostHandler {
	return &PostHandler{
		postRepository:      postRepo,
		mediaPipeline:       mediaPipeline,
		notificationService: notificationService,
	}
}

// RegisterPostRoutes registers post routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/user/:id", h.GetUserPosts)
	g.POST("/posts", h.CreatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.POST("/posts/:id/report", h.ReportPost)
}

// GetPosts retrieves the post feed, newest first
func (h *PostHandler) GetPosts(c echo.Context) error {
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	offset, _ := strconv.ParseInt(c.QueryParam("offset"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	posts, err := h.postRepository.GetAllPosts(c.Request().Context(), offset, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch posts")
	}

	return c.JSON(http.StatusOK, posts)
}

// GetUserPosts retrieves a user's posts, newest first
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), userID, 0, 100)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user posts")
	}

	return c.JSON(http.StatusOK, posts)
}

// CreatePost creates a post, ingesting any embedded media through the
// pipeline first so the stored post only carries hosted references.
func (h *PostHandler) CreatePost(c echo.Context) error {
	req := new(models.CreatePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	refs := h.mediaPipeline.IngestAll(c.Request().Context(), req.Media)

	post := &models.Post{
		UserID:  req.UserID,
		Content: req.Content,
		Media:   refs,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create post")
	}

	return c.JSON(http.StatusCreated, post)
}

// DeletePost removes a post
func (h *PostHandler) DeletePost(c echo.Context) error {
	err := h.postRepository.DeletePost(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete post")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// ReportPost files a report against a post, notifying the admin
func (h *PostHandler) ReportPost(c echo.Context) error {
	postID := c.Param("id")

	req := new(models.ReportPostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "User ID and reason are required")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if err := h.notificationService.NotifyReport(postID, req.UserID, req.Reason, post.Content, post.UserID); err != nil {
		log.Printf("failed to create report notification for post %s: %v", postID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to submit report")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Report submitted successfully"})
}
