package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/config"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/types"
)

type stubAuthenticator struct {
	login     func(ctx context.Context, input backend.LoginInput) (*backend.AuthResponse, error)
	register  func(ctx context.Context, input backend.RegisterInput) (*backend.AuthResponse, error)
	logoutErr error
	me        func(ctx context.Context) (*types.User, error)
	update    func(ctx context.Context, input backend.ProfileUpdate) (*types.User, error)

	token        string
	tokenCleared bool
}

func (s *stubAuthenticator) Login(ctx context.Context, input backend.LoginInput) (*backend.AuthResponse, error) {
	return s.login(ctx, input)
}

func (s *stubAuthenticator) Register(ctx context.Context, input backend.RegisterInput) (*backend.AuthResponse, error) {
	return s.register(ctx, input)
}

func (s *stubAuthenticator) Logout(context.Context) error { return s.logoutErr }

func (s *stubAuthenticator) Me(ctx context.Context) (*types.User, error) {
	return s.me(ctx)
}

func (s *stubAuthenticator) UpdateProfile(ctx context.Context, input backend.ProfileUpdate) (*types.User, error) {
	return s.update(ctx, input)
}

func (s *stubAuthenticator) SetToken(token string) { s.token = token }

func (s *stubAuthenticator) ClearToken() {
	s.token = ""
	s.tokenCleared = true
}

type stubChannel struct {
	connectErr    error
	connectCalls  int
	connectTokens []string
	disconnects   int
	emitted       []string
	registered    []string
}

func (s *stubChannel) Connect(_ context.Context, token string) error {
	s.connectCalls++
	s.connectTokens = append(s.connectTokens, token)
	return s.connectErr
}

func (s *stubChannel) Disconnect() { s.disconnects++ }

func (s *stubChannel) Emit(_ context.Context, event string, _ any) {
	s.emitted = append(s.emitted, event)
}

func (s *stubChannel) On(event string, _ realtime.Handler) realtime.Subscription {
	s.registered = append(s.registered, event)
	return realtime.Subscription{}
}

type stubSessionRepo struct {
	stored  *types.Session
	saveErr error
	loadErr error
	cleared int
}

func (s *stubSessionRepo) SaveSession(_ context.Context, session types.Session) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	copied := session
	s.stored = &copied
	return nil
}

func (s *stubSessionRepo) LoadSession(context.Context) (*types.Session, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.stored == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no session")
	}
	copied := *s.stored
	return &copied, nil
}

func (s *stubSessionRepo) ClearSession(context.Context) error {
	s.cleared++
	s.stored = nil
	return nil
}

type stubBinder struct {
	bound int
}

func (s *stubBinder) BindHandlers(realtime.Registrar) { s.bound++ }

type stubRooms struct {
	ids []string
}

func (s *stubRooms) ActiveOrderIDs() []string { return s.ids }

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"sub": "u-1", "exp": expiresAt.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newTestService(t *testing.T, backendStub *stubAuthenticator, channel *stubChannel, repo *stubSessionRepo) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Backend:  backendStub,
		Channel:  channel,
		Sessions: repo,
		Config:   config.SessionConfig{ExpiryLeeway: 30 * time.Second},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginInstallsSessionAndConnectsChannel(t *testing.T) {
	t.Parallel()

	backendStub := &stubAuthenticator{
		login: func(_ context.Context, input backend.LoginInput) (*backend.AuthResponse, error) {
			if input.Email != "ana@example.com" {
				t.Fatalf("unexpected email %q", input.Email)
			}
			return &backend.AuthResponse{User: types.User{ID: "u-1"}, Token: "tok-1"}, nil
		},
	}
	channel := &stubChannel{}
	repo := &stubSessionRepo{}
	svc := newTestService(t, backendStub, channel, repo)

	binder := &stubBinder{}
	svc.RegisterBinder(binder)
	svc.SetRoomSource(&stubRooms{ids: []string{"o-1", "o-2"}})

	session, err := svc.Login(context.Background(), backend.LoginInput{Email: "ana@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if session.User.ID != "u-1" || session.Token != "tok-1" {
		t.Fatalf("unexpected session: %+v", session)
	}
	if backendStub.token != "tok-1" {
		t.Fatalf("token not installed on REST client, got %q", backendStub.token)
	}
	if repo.stored == nil || repo.stored.Token != "tok-1" {
		t.Fatal("session not persisted")
	}
	if channel.connectCalls != 1 || channel.connectTokens[0] != "tok-1" {
		t.Fatalf("channel not connected with token: %+v", channel.connectTokens)
	}
	if binder.bound != 1 {
		t.Fatalf("handlers not re-bound, bound=%d", binder.bound)
	}
	if len(channel.emitted) != 2 {
		t.Fatalf("expected two join_order_room emissions, got %v", channel.emitted)
	}

	current, ok := svc.Current()
	if !ok || current.Token != "tok-1" {
		t.Fatalf("current session missing: %+v", current)
	}
}

func TestLoginFailureLeavesNoSession(t *testing.T) {
	t.Parallel()

	backendStub := &stubAuthenticator{
		login: func(context.Context, backend.LoginInput) (*backend.AuthResponse, error) {
			return nil, pkgerrors.New(pkgerrors.CodeServerRejected, "bad credentials")
		},
	}
	channel := &stubChannel{}
	svc := newTestService(t, backendStub, channel, &stubSessionRepo{})

	_, err := svc.Login(context.Background(), backend.LoginInput{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeServerRejected) {
		t.Fatalf("expected server rejection, got %v", err)
	}
	if _, ok := svc.Current(); ok {
		t.Fatal("no session must be installed on failure")
	}
	if channel.connectCalls != 0 {
		t.Fatal("channel must stay down")
	}
}

func TestConnectFailureKeepsSessionUsable(t *testing.T) {
	t.Parallel()

	backendStub := &stubAuthenticator{
		login: func(context.Context, backend.LoginInput) (*backend.AuthResponse, error) {
			return &backend.AuthResponse{User: types.User{ID: "u-1"}, Token: "tok-1"}, nil
		},
	}
	channel := &stubChannel{connectErr: errors.New("socket refused")}
	svc := newTestService(t, backendStub, channel, &stubSessionRepo{})

	if _, err := svc.Login(context.Background(), backend.LoginInput{}); err != nil {
		t.Fatalf("login must survive a realtime outage: %v", err)
	}
	if _, ok := svc.Current(); !ok {
		t.Fatal("session must be usable REST-only")
	}
}

func TestLogoutTearsDownEvenWhenBackendFails(t *testing.T) {
	t.Parallel()

	backendStub := &stubAuthenticator{
		login: func(context.Context, backend.LoginInput) (*backend.AuthResponse, error) {
			return &backend.AuthResponse{User: types.User{ID: "u-1"}, Token: "tok-1"}, nil
		},
		logoutErr: errors.New("backend down"),
	}
	channel := &stubChannel{}
	repo := &stubSessionRepo{}
	svc := newTestService(t, backendStub, channel, repo)

	if _, err := svc.Login(context.Background(), backend.LoginInput{}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("logout must be best-effort: %v", err)
	}

	if _, ok := svc.Current(); ok {
		t.Fatal("session survived logout")
	}
	if !backendStub.tokenCleared {
		t.Fatal("bearer token not cleared")
	}
	if channel.disconnects != 1 {
		t.Fatalf("channel not disconnected, got %d", channel.disconnects)
	}
	if repo.stored != nil {
		t.Fatal("persisted session not cleared")
	}
}

func TestRestoreWithNoPersistedSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubAuthenticator{}, &stubChannel{}, &stubSessionRepo{})

	_, restored, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored {
		t.Fatal("nothing to restore")
	}
}

func TestRestoreDiscardsExpiredToken(t *testing.T) {
	t.Parallel()

	repo := &stubSessionRepo{stored: &types.Session{
		User:  types.User{ID: "u-1"},
		Token: signedToken(t, time.Now().Add(-time.Hour)),
	}}
	channel := &stubChannel{}
	svc := newTestService(t, &stubAuthenticator{}, channel, repo)

	_, restored, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored {
		t.Fatal("expired session must not restore")
	}
	if repo.stored != nil {
		t.Fatal("expired session must be cleared from disk")
	}
	if channel.connectCalls != 0 {
		t.Fatal("channel must stay down")
	}
}

func TestRestoreValidatesAndRefreshesUser(t *testing.T) {
	t.Parallel()

	token := signedToken(t, time.Now().Add(time.Hour))
	repo := &stubSessionRepo{stored: &types.Session{User: types.User{ID: "u-1", Name: "old"}, Token: token}}
	backendStub := &stubAuthenticator{
		me: func(context.Context) (*types.User, error) {
			return &types.User{ID: "u-1", Name: "fresh"}, nil
		},
	}
	channel := &stubChannel{}
	svc := newTestService(t, backendStub, channel, repo)

	session, restored, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored {
		t.Fatal("expected restore")
	}
	if session.User.Name != "fresh" {
		t.Fatalf("user not refreshed: %+v", session.User)
	}
	if channel.connectCalls != 1 {
		t.Fatal("channel not connected")
	}
}

func TestRestoreRejectedTokenInvalidatesSession(t *testing.T) {
	t.Parallel()

	token := signedToken(t, time.Now().Add(time.Hour))
	repo := &stubSessionRepo{stored: &types.Session{User: types.User{ID: "u-1"}, Token: token}}
	backendStub := &stubAuthenticator{
		me: func(context.Context) (*types.User, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "token revoked")
		},
	}
	channel := &stubChannel{}
	svc := newTestService(t, backendStub, channel, repo)

	_, restored, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored {
		t.Fatal("revoked session must not restore")
	}
	if repo.stored != nil {
		t.Fatal("revoked session must be cleared")
	}
	if !backendStub.tokenCleared {
		t.Fatal("bearer token must be cleared")
	}
}

func TestRestoreSurvivesBackendOutage(t *testing.T) {
	t.Parallel()

	token := signedToken(t, time.Now().Add(time.Hour))
	repo := &stubSessionRepo{stored: &types.Session{User: types.User{ID: "u-1", Name: "cached"}, Token: token}}
	backendStub := &stubAuthenticator{
		me: func(context.Context) (*types.User, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNetwork, "offline")
		},
	}
	svc := newTestService(t, backendStub, &stubChannel{}, repo)

	session, restored, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored {
		t.Fatal("offline boot must restore from disk")
	}
	if session.User.Name != "cached" {
		t.Fatalf("expected cached user, got %+v", session.User)
	}
}

func TestRestoreAcceptsOpaqueTokens(t *testing.T) {
	t.Parallel()

	repo := &stubSessionRepo{stored: &types.Session{User: types.User{ID: "u-1"}, Token: "opaque-session-token"}}
	backendStub := &stubAuthenticator{
		me: func(context.Context) (*types.User, error) {
			return &types.User{ID: "u-1"}, nil
		},
	}
	svc := newTestService(t, backendStub, &stubChannel{}, repo)

	_, restored, err := svc.Restore(context.Background())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !restored {
		t.Fatal("an opaque token has no expiry to check locally")
	}
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &stubAuthenticator{}, &stubChannel{}, &stubSessionRepo{})

	_, err := svc.UpdateProfile(context.Background(), backend.ProfileUpdate{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestUpdateProfileRefreshesStoredUser(t *testing.T) {
	t.Parallel()

	newName := "Ana Renamed"
	backendStub := &stubAuthenticator{
		login: func(context.Context, backend.LoginInput) (*backend.AuthResponse, error) {
			return &backend.AuthResponse{User: types.User{ID: "u-1", Name: "Ana"}, Token: "tok-1"}, nil
		},
		update: func(_ context.Context, input backend.ProfileUpdate) (*types.User, error) {
			return &types.User{ID: "u-1", Name: *input.Name}, nil
		},
	}
	repo := &stubSessionRepo{}
	svc := newTestService(t, backendStub, &stubChannel{}, repo)

	if _, err := svc.Login(context.Background(), backend.LoginInput{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	user, err := svc.UpdateProfile(context.Background(), backend.ProfileUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if user.Name != newName {
		t.Fatalf("unexpected user: %+v", user)
	}

	current, _ := svc.Current()
	if current.User.Name != newName {
		t.Fatalf("session user not refreshed: %+v", current.User)
	}
	if repo.stored == nil || repo.stored.User.Name != newName {
		t.Fatal("persisted session not refreshed")
	}
}

func TestInvalidateDropsEverything(t *testing.T) {
	t.Parallel()

	backendStub := &stubAuthenticator{
		login: func(context.Context, backend.LoginInput) (*backend.AuthResponse, error) {
			return &backend.AuthResponse{User: types.User{ID: "u-1"}, Token: "tok-1"}, nil
		},
	}
	channel := &stubChannel{}
	repo := &stubSessionRepo{}
	svc := newTestService(t, backendStub, channel, repo)

	if _, err := svc.Login(context.Background(), backend.LoginInput{}); err != nil {
		t.Fatalf("login: %v", err)
	}

	svc.Invalidate()

	if _, ok := svc.Current(); ok {
		t.Fatal("session survived invalidation")
	}
	if !backendStub.tokenCleared {
		t.Fatal("bearer token not cleared")
	}
	if channel.disconnects != 1 {
		t.Fatal("channel not disconnected")
	}
	if repo.stored != nil {
		t.Fatal("persisted session not cleared")
	}
}
