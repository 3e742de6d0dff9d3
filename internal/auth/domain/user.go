package domain

import (
	"strings"
	"time"
)

// User is the profile of the authenticated account as returned by the remote auth endpoint
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Image     string `json:"image"`
}

// FullName returns "First Last", falling back to the username
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// LoginResult is the outcome of a successful credential exchange.
// RefreshToken is decoded but never persisted or used.
type LoginResult struct {
	User         User
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
