package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/internal/services"
)

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentRepository   repositories.CommentRepository
	postRepository      repositories.PostRepository
	notificationService *services.NotificationService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, notificationService *services.NotificationService) *CommentHandler {
	return &CommentHandler{
		commentRepository:   commentRepo,
		postRepository:      postRepo,
		notificationService: notificationService,
	}
}

// RegisterCommentRoutes registers comment routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.GET("/posts/:id/comments", h.GetComments)
	g.POST("/posts/:id/comments", h.CreateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// GetComments retrieves all comments for a post, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	comments, err := h.commentRepository.GetCommentsByPostID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch comments")
	}

	return c.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment to a post and notifies the post owner
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID := c.Param("id")

	req := new(models.CreateCommentRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  req.UserID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.postRepository.IncrementCommentsCount(context.WithoutCancel(c.Request().Context()), postID)

	if err := h.notificationService.NotifyComment(postID, post.UserID, req.UserID, req.Content); err != nil {
		log.Printf("failed to create comment notification for post %s: %v", postID, err)
	}

	return c.JSON(http.StatusCreated, comment)
}

// DeleteComment removes a comment
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.commentRepository.DeleteComment(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete comment")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}
