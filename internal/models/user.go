// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"
)

// User represents an account on the gamer hub.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	Picture   string    `json:"picture,omitempty"`
	GoogleID  string    `gorm:"index" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// Placeholder identity used when the backend omits an author.
const (
	UnknownUserName  = "Unknown User"
	UnknownUserEmail = "unknown@example.com"
)

// UnknownUser returns the sentinel author substituted for missing user objects.
func UnknownUser() User {
	return User{ID: 0, Name: UnknownUserName, Email: UnknownUserEmail}
}

// IsUnknown reports whether u is the sentinel author.
func (u User) IsUnknown() bool {
	return u.ID == 0 && u.Email == UnknownUserEmail
}

// Ref returns the identity portion of u.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Email: u.Email}
}

// UserRef identifies a user by id, or by email when the id is unknown.
type UserRef struct {
	ID    uint   `json:"id,omitempty" yaml:"id,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Equals compares ids when both sides carry one and falls back to email otherwise.
func (r UserRef) Equals(other UserRef) bool {
	if r.ID != 0 && other.ID != 0 {
		return r.ID == other.ID
	}
	a := strings.ToLower(strings.TrimSpace(r.Email))
	b := strings.ToLower(strings.TrimSpace(other.Email))
	return a != "" && a == b
}

// Zero reports whether the ref identifies nobody.
func (r UserRef) Zero() bool {
	return r.ID == 0 && strings.TrimSpace(r.Email) == ""
}
