package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/services"
)

// ChatHandler handles conversation and message HTTP requests
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// RegisterChatRoutes registers chat routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.POST("/conversations", h.CreateConversation)
	g.GET("/conversations/user/:id", h.GetUserConversations)
	g.GET("/conversations/:id/messages", h.GetMessages)
	g.POST("/conversations/:id/messages", h.SendMessage)
}

// CreateConversation starts a conversation between participants
func (h *ChatHandler) CreateConversation(c echo.Context) error {
	req := new(models.CreateConversationRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid conversation data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	conversation, err := h.chatService.CreateConversation(c.Request().Context(), req.Participants, req.Type, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create conversation")
	}

	return c.JSON(http.StatusCreated, conversation)
}

// GetUserConversations lists a user's conversations, most recently updated first
func (h *ChatHandler) GetUserConversations(c echo.Context) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	conversations, err := h.chatService.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get conversations")
	}

	return c.JSON(http.StatusOK, conversations)
}

// GetMessages lists a conversation's messages, oldest first. A limit query
// parameter returns only the most recent limit messages.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	var limit int64
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit")
		}
		limit = parsed
	}

	messages, err := h.chatService.ListMessages(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid conversation ID")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get messages")
	}

	return c.JSON(http.StatusOK, messages)
}

// SendMessage appends a message to a conversation
func (h *ChatHandler) SendMessage(c echo.Context) error {
	req := new(models.SendMessageRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid message data")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	message, err := h.chatService.SendMessage(c.Request().Context(), c.Param("id"), req.SenderID, req.Content, req.Kind, req.Media)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Conversation not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to send message")
	}

	return c.JSON(http.StatusCreated, message)
}
