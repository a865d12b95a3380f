package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/internal/services"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository      repositories.LikeRepository
	postRepository      repositories.PostRepository
	notificationService *services.NotificationService
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, postRepo repositories.PostRepository, notificationService *services.NotificationService) *LikeHandler {
	return &LikeHandler{
		likeRepository:      likeRepo,
		postRepository:      postRepo,
		notificationService: notificationService,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.LikePost)
	g.DELETE("/posts/:id/like", h.UnlikePost)
	g.GET("/posts/:id/likes/count", h.GetLikesCount)
}

// LikePost handles liking a post
func (h *LikeHandler) LikePost(c echo.Context) error {
	postID := c.Param("id")

	req := new(models.LikePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid like data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	hasLiked, err := h.likeRepository.HasUserLikedPost(postID, req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusBadRequest, "Post already liked")
	}

	like := &models.Like{
		PostID: postID,
		UserID: req.UserID,
	}
	if err := h.likeRepository.CreateLike(like); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The request context ends with the response; the counter update must
	// outlive it.
	go h.postRepository.IncrementLikesCount(context.WithoutCancel(c.Request().Context()), postID)

	// Notification is best-effort; the like itself already stands.
	if err := h.notificationService.NotifyLike(postID, post.UserID, req.UserID); err != nil {
		log.Printf("failed to create like notification for post %s: %v", postID, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "Post liked successfully", "like": like})
}

// UnlikePost handles unliking a post
func (h *LikeHandler) UnlikePost(c echo.Context) error {
	postID := c.Param("id")

	req := new(models.LikePostRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid like data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.likeRepository.DeleteLike(postID, req.UserID); err != nil {
		if errors.Is(err, repositories.ErrLikeNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	go h.postRepository.DecrementLikesCount(context.WithoutCancel(c.Request().Context()), postID)

	return c.JSON(http.StatusOK, echo.Map{"message": "Post unliked successfully"})
}

// GetLikesCount retrieves the number of likes for a post
func (h *LikeHandler) GetLikesCount(c echo.Context) error {
	postID := c.Param("id")

	count, err := h.likeRepository.GetLikesCountByPostID(postID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"post_id": postID, "likes_count": count})
}
