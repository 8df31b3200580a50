package auth

import (
	"context"

	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/localstore"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// Authenticator is the backend auth surface plus token installation.
type Authenticator interface {
	Login(ctx context.Context, input backend.LoginInput) (*backend.AuthResponse, error)
	Register(ctx context.Context, input backend.RegisterInput) (*backend.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*types.User, error)
	UpdateProfile(ctx context.Context, input backend.ProfileUpdate) (*types.User, error)
	SetToken(token string)
	ClearToken()
}

// Channel is the slice of the realtime client the session service drives.
type Channel interface {
	Connect(ctx context.Context, token string) error
	Disconnect()
	Emit(ctx context.Context, event string, payload any)
	On(event string, fn realtime.Handler) realtime.Subscription
}

// SessionRepo persists the session across restarts.
type SessionRepo interface {
	SaveSession(ctx context.Context, session types.Session) error
	LoadSession(ctx context.Context) (*types.Session, error)
	ClearSession(ctx context.Context) error
}

// Binder re-registers a store's realtime handlers after a connect. Handlers
// do not survive a disconnect, so every connect re-binds all of them.
type Binder interface {
	BindHandlers(sub realtime.Registrar)
}

// RoomSource lists the in-flight orders whose rooms should be rejoined.
type RoomSource interface {
	ActiveOrderIDs() []string
}

var (
	_ Authenticator = (*backend.Client)(nil)
	_ Channel       = (*realtime.Channel)(nil)
	_ SessionRepo   = (*localstore.Repository)(nil)
)
