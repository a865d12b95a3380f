package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation represents a chat thread stored in MongoDB. UpdatedAt is the
// ordering key for the conversation list and is bumped on every new message.
type Conversation struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ParticipantIDs []uint             `json:"participant_ids" bson:"participant_ids"`
	Type           string             `json:"type" bson:"type"` // direct, group
	Name           string             `json:"name,omitempty" bson:"name,omitempty"`
	LastMessage    string             `json:"last_message,omitempty" bson:"last_message,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateConversationRequest defines the request body for creating a conversation
type CreateConversationRequest struct {
	Participants []uint `json:"participants" validate:"required,min=2"`
	Type         string `json:"type,omitempty" validate:"omitempty,oneof=direct group"`
	Name         string `json:"name,omitempty" validate:"omitempty,max=100"`
}
