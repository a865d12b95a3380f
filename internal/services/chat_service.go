package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/pkg/lock"
)

const lastMessageSummaryLength = 100

// ChatService owns the conversation/message log. Appends run under a
// per-conversation lock so the message insert and the conversation summary
// bump behave as one unit with respect to concurrent senders.
type ChatService struct {
	conversations repositories.ConversationRepository
	media         *MediaPipeline
	locks         *lock.KeyedMutex
	now           Clock
}

// NewChatService creates a new ChatService
func NewChatService(conversations repositories.ConversationRepository, media *MediaPipeline, locks *lock.KeyedMutex, now Clock) *ChatService {
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		conversations: conversations,
		media:         media,
		locks:         locks,
		now:           now,
	}
}

// CreateConversation starts a conversation between a participant set
func (s *ChatService) CreateConversation(ctx context.Context, participants []uint, convType, name string) (*models.Conversation, error) {
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: a conversation needs at least two participants", ErrInvalidInput)
	}
	if convType == "" {
		convType = "direct"
	}

	conversation := &models.Conversation{
		ParticipantIDs: participants,
		Type:           convType,
		Name:           name,
	}
	if err := s.conversations.CreateConversation(ctx, conversation); err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}
	return conversation, nil
}

// ListConversations returns a user's conversations, most recently updated first
func (s *ChatService) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.conversations.GetUserConversations(ctx, userID)
}

// SendMessage ingests any embedded media, then appends the message and bumps
// the conversation's summary/updatedAt. Concurrent sends to the same
// conversation are serialized; no append is ever lost, and the summary is
// last-writer-wins.
func (s *ChatService) SendMessage(ctx context.Context, conversationID string, senderID uint, content, kind string, uploads []models.MediaUpload) (*models.Message, error) {
	if senderID == 0 || content == "" {
		return nil, fmt.Errorf("%w: sender and content are required", ErrInvalidInput)
	}
	if _, err := primitive.ObjectIDFromHex(conversationID); err != nil {
		return nil, fmt.Errorf("%w: invalid conversation id %q", ErrInvalidInput, conversationID)
	}

	conversation, err := s.conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("loading conversation %s: %w", conversationID, err)
	}

	// Media ingestion happens outside the conversation lock; only the
	// append/summary pair needs serializing.
	refs := s.media.IngestAll(ctx, uploads)

	if kind == "" {
		kind = "text"
		if len(refs) > 0 {
			kind = refs[0].Kind
		}
	}

	now := s.now()
	message := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        content,
		Kind:           kind,
		Media:          refs,
		CreatedAt:      now,
	}

	key := "conversation:" + conversationID
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.conversations.InsertMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}

	if err := s.conversations.UpdateLastMessage(ctx, conversationID, excerpt(content, lastMessageSummaryLength), now); err != nil {
		// The message row is already persisted; a stale summary is acceptable.
		log.Printf("chat: failed to update summary for conversation %s: %v", conversationID, err)
	}

	return message, nil
}

// ListMessages returns a conversation's messages oldest first; a positive
// limit returns the most recent limit messages.
func (s *ChatService) ListMessages(ctx context.Context, conversationID string, limit int64) ([]models.Message, error) {
	if _, err := primitive.ObjectIDFromHex(conversationID); err != nil {
		return nil, fmt.Errorf("%w: invalid conversation id %q", ErrInvalidInput, conversationID)
	}
	return s.conversations.GetMessages(ctx, conversationID, limit)
}
