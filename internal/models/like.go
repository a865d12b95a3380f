package models

import "gorm.io/gorm"

// Like represents a like on a post
type Like struct {
	gorm.Model
	PostID string `json:"post_id" gorm:"index"` // MongoDB ObjectID of the liked post, as hex
	UserID uint   `json:"user_id" gorm:"index"`
}

// LikePostRequest defines the request body for liking a post
type LikePostRequest struct {
	UserID uint `json:"userId" validate:"required"`
}
