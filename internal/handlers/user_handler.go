package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/internal/services"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userRepository repositories.UserRepository
	streakService  *services.StreakService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, streakService *services.StreakService) *UserHandler {
	return &UserHandler{
		userRepository: userRepo,
		streakService:  streakService,
	}
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.POST("/users", h.CreateUser)
	g.GET("/users/by-external-id/:externalId", h.GetUserByExternalID)
	g.GET("/users/:id", h.GetUser)
	g.PATCH("/users/:id", h.UpdateUser)
	g.PATCH("/users/:id/xp", h.AddXP)
	g.POST("/users/:id/check-streak", h.CheckStreak)
	g.POST("/users/:id/reset-streak", h.ResetStreak)
}

// userWithStreak augments a user record with the outcome of the daily streak
// evaluation performed while fetching it.
type userWithStreak struct {
	models.User
	StreakUpdated   bool   `json:"streakUpdated"`
	CelebrateStreak bool   `json:"celebrateStreak"`
	StreakMessage   string `json:"streakMessage,omitempty"`
}

// CreateUser provisions a user record for an externally authenticated identity
func (h *UserHandler) CreateUser(c echo.Context) error {
	req := new(models.CreateUserRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user := &models.User{
		ExternalID:  req.ExternalID,
		Username:    req.Username,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, user)
}

// GetUserByExternalID resolves the identity provider's id to a local user.
// Fetching the profile counts as daily activity, so the streak is evaluated
// here as a side effect and the result is folded into the response.
func (h *UserHandler) GetUserByExternalID(c echo.Context) error {
	user, err := h.userRepository.GetUserByExternalID(c.Param("externalId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}

	result, err := h.streakService.CheckDailyStreak(user.ID)
	if err != nil {
		// A failed write-back must not be reported as an increment.
		log.Printf("streak check failed for user %d: %v", user.ID, err)
		result = services.StreakResult{Updated: false, NewStreak: user.Streak}
	}

	resp := userWithStreak{
		User:            *user,
		StreakUpdated:   result.Updated,
		CelebrateStreak: result.Celebrate,
	}
	resp.Streak = result.NewStreak
	if result.Celebrate {
		resp.StreakMessage = services.CelebrationMessage(result.NewStreak)
	}

	return c.JSON(http.StatusOK, resp)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}

	return c.JSON(http.StatusOK, user)
}

// UpdateUser updates a user's profile fields
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	req := new(models.UpdateUserRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch user")
	}

	if req.Username != "" {
		user.Username = req.Username
	}
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.PhotoURL != "" {
		user.PhotoURL = req.PhotoURL
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update user")
	}

	return c.JSON(http.StatusOK, user)
}

// AddXP awards experience points to a user
func (h *UserHandler) AddXP(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	req := new(models.UpdateXPRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid XP data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	user, err := h.userRepository.AddXP(id, req.XPGain)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update XP")
	}

	return c.JSON(http.StatusOK, user)
}

// CheckStreak evaluates the daily streak on demand
func (h *UserHandler) CheckStreak(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	result, err := h.streakService.CheckDailyStreak(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to check streak")
	}

	return c.JSON(http.StatusOK, result)
}

// ResetStreak clears a user's streak state (testing hook)
func (h *UserHandler) ResetStreak(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	if err := h.streakService.ResetStreak(id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to reset streak")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Streak reset successfully"})
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
