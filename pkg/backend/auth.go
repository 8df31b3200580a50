package backend

import (
	"context"
	"net/http"

	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// LoginInput carries customer credentials.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput carries the new-account payload.
type RegisterInput struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone,omitempty"`
	Password string         `json:"password"`
	Address  *types.Address `json:"address,omitempty"`
}

// AuthResponse is the token+user pair returned by login/register.
type AuthResponse struct {
	User  types.User `json:"user"`
	Token string     `json:"token"`
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "/auth/login", input, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeServerRejected, "login response missing token")
	}
	return &out, nil
}

// Register creates an account and returns the initial session.
func (c *Client) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, "register", http.MethodPost, "/auth/register", input, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeServerRejected, "register response missing token")
	}
	return &out, nil
}

// Logout invalidates the session server-side. Best-effort for callers.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
}

// Me returns the profile for the current token. Used to validate a restored
// session.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var out types.User
	if err := c.doJSON(ctx, "me", http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Name    *string        `json:"name,omitempty"`
	Phone   *string        `json:"phone,omitempty"`
	Address *types.Address `json:"address,omitempty"`
}

// UpdateProfile persists profile changes and returns the updated user.
func (c *Client) UpdateProfile(ctx context.Context, input ProfileUpdate) (*types.User, error) {
	var out types.User
	if err := c.doJSON(ctx, "update_profile", http.MethodPut, "/auth/profile", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
