package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a feed post stored in MongoDB
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	Content       string             `json:"content" bson:"content"`
	Media         []MediaReference   `json:"media_urls,omitempty" bson:"media_urls,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	UserID  uint          `json:"userId" validate:"required"`
	Content string        `json:"content" validate:"required,min=1,max=2000"`
	Media   []MediaUpload `json:"mediaUrls,omitempty"`
}

// ReportPostRequest defines the request body for reporting a post
type ReportPostRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Reason string `json:"reason" validate:"required,min=1"`
}
