package models

import (
	"time"
)

// DefaultAvatar is assigned to users who register without an avatar.
const DefaultAvatar = "/default-avatar.png"

type User struct {
	ID        ID        `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileUpdate carries the editable profile fields; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}

type Review struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"user_id"`
	RecipeID  ID        `json:"recipe_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
