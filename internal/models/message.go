package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a single message in a conversation (MongoDB). Messages
// are immutable after creation; ordering within a conversation is by
// CreatedAt with the object id as tie-break.
type Message struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversation_id" bson:"conversation_id"`
	SenderID       uint               `json:"sender_id" bson:"sender_id"`
	Content        string             `json:"content" bson:"content"`
	Kind           string             `json:"type" bson:"type"` // text, image, video
	Media          []MediaReference   `json:"media_urls,omitempty" bson:"media_urls,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for appending a message
type SendMessageRequest struct {
	SenderID uint          `json:"senderId" validate:"required"`
	Content  string        `json:"content" validate:"required"`
	Kind     string        `json:"type,omitempty" validate:"omitempty,oneof=text image video"`
	Media    []MediaUpload `json:"mediaReferences,omitempty"`
}
