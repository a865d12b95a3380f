package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrConversationNotFound is returned when a conversation id does not resolve.
var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository defines the interface for chat data operations.
// InsertMessage and UpdateLastMessage are separate writes; the chat service
// holds a per-conversation lock around the pair so concurrent appends never
// lose a message row.
type ConversationRepository interface {
	CreateConversation(ctx context.Context, conversation *models.Conversation) error
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	GetUserConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	InsertMessage(ctx context.Context, message *models.Message) error
	UpdateLastMessage(ctx context.Context, conversationID string, summary string, at time.Time) error
	GetMessages(ctx context.Context, conversationID string, limit int64) ([]models.Message, error)
}

// MongoConversationRepository implements ConversationRepository for MongoDB
type MongoConversationRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewMongoConversationRepository creates a new MongoConversationRepository
func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// CreateConversation creates a new conversation in MongoDB
func (r *MongoConversationRepository) CreateConversation(ctx context.Context, conversation *models.Conversation) error {
	conversation.ID = primitive.NewObjectID()
	conversation.CreatedAt = time.Now()
	conversation.UpdatedAt = conversation.CreatedAt
	_, err := r.conversations.InsertOne(ctx, conversation)
	return err
}

// GetConversationByID retrieves a conversation by ID from MongoDB
func (r *MongoConversationRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID format: %w", err)
	}

	var conversation models.Conversation
	err = r.conversations.FindOne(ctx, bson.M{"_id": objID}).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}

// GetUserConversations retrieves a user's conversations, most recently updated first
func (r *MongoConversationRepository) GetUserConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	findOptions := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participant_ids": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// InsertMessage appends a message document
func (r *MongoConversationRepository) InsertMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	_, err := r.messages.InsertOne(ctx, message)
	return err
}

// UpdateLastMessage bumps the conversation's summary and ordering timestamp
func (r *MongoConversationRepository) UpdateLastMessage(ctx context.Context, conversationID string, summary string, at time.Time) error {
	objID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{"last_message": summary, "updated_at": at}}
	res, err := r.conversations.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// GetMessages retrieves messages for a conversation, oldest first. When limit
// is positive, the most recent limit messages are returned (still oldest
// first), matching what a chat view renders.
func (r *MongoConversationRepository) GetMessages(ctx context.Context, conversationID string, limit int64) ([]models.Message, error) {
	objID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID format: %w", err)
	}

	filter := bson.M{"conversation_id": objID}

	if limit <= 0 {
		findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
		cursor, err := r.messages.Find(ctx, filter, findOptions)
		if err != nil {
			return nil, err
		}
		defer cursor.Close(ctx)

		var messages []models.Message
		if err = cursor.All(ctx, &messages); err != nil {
			return nil, err
		}
		return messages, nil
	}

	// Take the newest N, then reverse into chronological order.
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.messages.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var newest []models.Message
	if err = cursor.All(ctx, &newest); err != nil {
		return nil, err
	}

	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}
