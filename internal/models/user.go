package models

import "time"

// User represents an application user (PostgreSQL). ExternalID is the stable
// id issued by the identity provider (Firebase UID). Streak and LastActive are
// only ever written through the streak service.
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ExternalID  string     `json:"external_id" gorm:"uniqueIndex"`
	Username    string     `json:"username" gorm:"uniqueIndex"`
	DisplayName string     `json:"display_name"`
	PhotoURL    string     `json:"photo_url"`
	XP          int        `json:"xp" gorm:"default:0"`
	Streak      int        `json:"streak" gorm:"default:0"`
	LastActive  *time.Time `json:"last_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}

// Name returns the best display name available for notification copy.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// CreateUserRequest defines the request body for creating a new user
type CreateUserRequest struct {
	ExternalID  string `json:"external_id" validate:"required"`
	Username    string `json:"username" validate:"required,min=2,max=50"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// UpdateUserRequest defines the request body for updating an existing user
type UpdateUserRequest struct {
	Username    string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=100"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// UpdateXPRequest defines the request body for awarding XP
type UpdateXPRequest struct {
	XPGain int `json:"xpGain" validate:"required"`
}
