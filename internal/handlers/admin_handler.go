package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/internal/services"
)

// AdminHandler handles admin notification HTTP requests
type AdminHandler struct {
	notificationService *services.NotificationService
	postRepository      repositories.PostRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(notificationService *services.NotificationService, postRepo repositories.PostRepository) *AdminHandler {
	return &AdminHandler{
		notificationService: notificationService,
		postRepository:      postRepo,
	}
}

// RegisterAdminRoutes registers admin routes
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.POST("/admin/notify-all", h.NotifyAll)
	g.POST("/admin/notify-user", h.NotifyUser)
	g.POST("/admin/send-violation-notice", h.SendViolationNotice)
}

// NotifyAll broadcasts a notification to every known user. Partial failure
// degrades to a lower count, not an error.
func (h *AdminHandler) NotifyAll(c echo.Context) error {
	req := new(models.BroadcastRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	sent, err := h.notificationService.Broadcast(req.Title, req.Message, req.Priority)
	if err != nil {
		if sent == 0 {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send notification")
		}
		log.Printf("broadcast completed partially: %d sent, last error: %v", sent, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Notification sent to %d users", sent),
		"count":   sent,
	})
}

// NotifyUser sends an admin notification to a single user
func (h *AdminHandler) NotifyUser(c echo.Context) error {
	req := new(models.DirectNotifyRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid notification data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	if err := h.notificationService.NotifyUser(req.UserID, req.Title, req.Message, req.Priority); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send notification")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": fmt.Sprintf("Notification sent to user %d", req.UserID),
	})
}

// SendViolationNotice notifies a user of a content violation and removes the
// offending post
func (h *AdminHandler) SendViolationNotice(c echo.Context) error {
	req := new(models.ViolationNoticeRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing required fields")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), req.PostID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if err := h.notificationService.NotifyViolation(req.UserID, req.ViolationReason, req.AdminMessage, post.Content); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send violation notice")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), req.PostID); err != nil {
		log.Printf("violation notice sent but post %s could not be deleted: %v", req.PostID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Violation notice sent but post deletion failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Violation notice sent and post deleted successfully"})
}
