package models

import "gorm.io/gorm"

// Comment represents a comment on a post (PostgreSQL; the post itself lives
// in MongoDB, referenced by its ObjectID hex)
type Comment struct {
	gorm.Model
	PostID  string `json:"post_id" gorm:"index"`
	UserID  uint   `json:"user_id" gorm:"index"`
	Content string `json:"content"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	UserID  uint   `json:"userId" validate:"required"`
	Content string `json:"content" validate:"required,min=1,max=1000"`
}
