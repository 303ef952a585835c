package models

import (
	"time"
)

// User is an account. Active=false marks a soft-deleted account; the row is kept.
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	PasswordHash string    `gorm:"not null" json:"-" swaggerignore:"true"`
	Name         string    `gorm:"not null" json:"name" validate:"required"`
	Active       bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserResponse is the public projection of a User.
type UserResponse struct {
	ID     uint64 `json:"id" example:"1"`
	Email  string `json:"email" example:"a@x.com"`
	Name   string `json:"name" example:"A"`
	Active bool   `json:"active" example:"true"`
}

// Response maps the user to its public projection.
func (u *User) Response() UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Active: u.Active}
}

// OwnedBy reports whether the account belongs to the given caller identity.
func (u *User) OwnedBy(email string) bool {
	return u.Email == email
}
