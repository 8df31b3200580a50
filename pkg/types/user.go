package types

import "time"

// User is the authenticated customer profile.
type User struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone,omitempty"`
	DefaultAddress *Address `json:"default_address,omitempty"`
}

// Session pairs the customer with their bearer token. Presence of a token is
// what keys the realtime channel's lifetime.
type Session struct {
	User    User      `json:"user"`
	Token   string    `json:"token"`
	SavedAt time.Time `json:"saved_at"`
}
