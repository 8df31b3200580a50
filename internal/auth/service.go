package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/config"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// ServiceParams groups dependencies for the session service.
type ServiceParams struct {
	Backend  Authenticator
	Channel  Channel
	Sessions SessionRepo
	Config   config.SessionConfig
	Logger   *logger.Logger
}

// Service owns the session and, through it, the realtime channel lifecycle.
// The channel is connected exactly while a token is held.
type Service interface {
	Login(ctx context.Context, input backend.LoginInput) (types.Session, error)
	Register(ctx context.Context, input backend.RegisterInput) (types.Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (types.Session, bool, error)
	UpdateProfile(ctx context.Context, input backend.ProfileUpdate) (types.User, error)
	Current() (types.Session, bool)
	Invalidate()
	RegisterBinder(b Binder)
	SetRoomSource(src RoomSource)
}

type service struct {
	backend  Authenticator
	channel  Channel
	sessions SessionRepo
	cfg      config.SessionConfig
	logg     *logger.Logger

	mu      sync.Mutex
	session *types.Session
	binders []Binder
	rooms   RoomSource
}

// NewService builds the session service.
func NewService(params ServiceParams) (Service, error) {
	if params.Backend == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "backend client is required")
	}
	if params.Channel == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "realtime channel is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session repo is required")
	}
	return &service{
		backend:  params.Backend,
		channel:  params.Channel,
		sessions: params.Sessions,
		cfg:      params.Config,
		logg:     params.Logger,
	}, nil
}

// RegisterBinder adds a store whose realtime handlers are re-bound on every
// connect. Wired once at startup.
func (s *service) RegisterBinder(b Binder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binders = append(s.binders, b)
}

// SetRoomSource wires the order store so active order rooms are rejoined
// after a reconnect.
func (s *service) SetRoomSource(src RoomSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = src
}

// Login exchanges credentials for a session, persists it and brings the
// realtime channel up.
func (s *service) Login(ctx context.Context, input backend.LoginInput) (types.Session, error) {
	resp, err := s.backend.Login(ctx, input)
	if err != nil {
		return types.Session{}, err
	}
	return s.installSession(ctx, resp.User, resp.Token)
}

// Register creates the account and starts a session the same way Login does.
func (s *service) Register(ctx context.Context, input backend.RegisterInput) (types.Session, error) {
	resp, err := s.backend.Register(ctx, input)
	if err != nil {
		return types.Session{}, err
	}
	return s.installSession(ctx, resp.User, resp.Token)
}

// Logout tells the backend best-effort, then tears the session down either
// way.
func (s *service) Logout(ctx context.Context) error {
	if err := s.backend.Logout(ctx); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "backend logout failed, clearing session anyway")
	}

	if err := s.sessions.ClearSession(ctx); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "clearing persisted session failed")
	}

	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	s.backend.ClearToken()
	s.channel.Disconnect()

	if s.logg != nil {
		s.logg.Info(ctx, "logged out")
	}
	return nil
}

// Restore brings a persisted session back after a restart. The token's
// expiry claim is checked locally first, then the session is validated with
// a profile fetch. A backend outage keeps the session usable offline.
func (s *service) Restore(ctx context.Context) (types.Session, bool, error) {
	stored, err := s.sessions.LoadSession(ctx)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return types.Session{}, false, nil
		}
		return types.Session{}, false, err
	}

	if s.tokenExpired(stored.Token) {
		if s.logg != nil {
			s.logg.Info(ctx, "persisted session token expired, discarding")
		}
		if err := s.sessions.ClearSession(ctx); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "clearing expired session failed")
		}
		return types.Session{}, false, nil
	}

	s.backend.SetToken(stored.Token)

	user, err := s.backend.Me(ctx)
	switch {
	case err == nil:
		stored.User = *user
	case pkgerrors.IsCode(err, pkgerrors.CodeUnauthenticated):
		// the hook already tore the session down; make it explicit anyway
		s.Invalidate()
		return types.Session{}, false, nil
	default:
		// offline boot: keep the stored session, the channel will catch up
		if s.logg != nil {
			s.logg.Warn(ctx, "session validation unreachable, restoring from disk")
		}
	}

	session, err := s.installSession(ctx, stored.User, stored.Token)
	if err != nil {
		return types.Session{}, false, err
	}
	return session, true, nil
}

// UpdateProfile pushes profile changes and refreshes the stored user.
func (s *service) UpdateProfile(ctx context.Context, input backend.ProfileUpdate) (types.User, error) {
	s.mu.Lock()
	active := s.session != nil
	s.mu.Unlock()
	if !active {
		return types.User{}, pkgerrors.New(pkgerrors.CodeUnauthenticated, "no active session")
	}

	user, err := s.backend.UpdateProfile(ctx, input)
	if err != nil {
		return types.User{}, err
	}

	s.mu.Lock()
	var session types.Session
	if s.session != nil {
		s.session.User = *user
		session = *s.session
	}
	s.mu.Unlock()

	if session.Token != "" {
		if err := s.sessions.SaveSession(ctx, session); err != nil && s.logg != nil {
			s.logg.Warn(ctx, "persisting updated profile failed")
		}
	}
	return *user, nil
}

// Current implements the session source the other stores consume.
func (s *service) Current() (types.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return types.Session{}, false
	}
	return *s.session, true
}

// Invalidate drops the session without a backend round trip. Wired as the
// REST client's 401 hook: an expired token must not be retried.
func (s *service) Invalidate() {
	s.mu.Lock()
	had := s.session != nil
	s.session = nil
	s.mu.Unlock()

	s.backend.ClearToken()
	s.channel.Disconnect()

	ctx := context.Background()
	if err := s.sessions.ClearSession(ctx); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "clearing persisted session failed")
	}
	if had && s.logg != nil {
		s.logg.Warn(ctx, "session invalidated")
	}
}

func (s *service) installSession(ctx context.Context, user types.User, token string) (types.Session, error) {
	session := types.Session{User: user, Token: token, SavedAt: time.Now().UTC()}

	s.mu.Lock()
	copied := session
	s.session = &copied
	s.mu.Unlock()

	s.backend.SetToken(token)

	if err := s.sessions.SaveSession(ctx, session); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "persisting session failed")
	}

	s.connectRealtime(ctx, token)

	if s.logg != nil {
		s.logg.Info(s.logg.WithCustomerID(ctx, user.ID), "session started")
	}
	return session, nil
}

// connectRealtime brings the channel up and re-binds every store's handlers.
// Connection failures are not fatal: the session works REST-only until the
// next reconnect attempt.
func (s *service) connectRealtime(ctx context.Context, token string) {
	if err := s.channel.Connect(ctx, token); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "realtime connect failed, continuing without push updates")
		}
		return
	}

	s.mu.Lock()
	binders := append([]Binder(nil), s.binders...)
	rooms := s.rooms
	s.mu.Unlock()

	for _, b := range binders {
		b.BindHandlers(s.channel)
	}
	if rooms != nil {
		for _, orderID := range rooms.ActiveOrderIDs() {
			s.channel.Emit(ctx, realtime.EventJoinOrderRoom, map[string]string{"order_id": orderID})
		}
	}
}

// tokenExpired inspects the token's exp claim without verifying the
// signature; verification is the backend's job. Opaque tokens pass through.
func (s *service) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	leeway := s.cfg.ExpiryLeeway
	return time.Now().Add(leeway).After(exp.Time)
}
