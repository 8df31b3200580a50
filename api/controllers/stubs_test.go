package controllers

import (
	"context"
	"time"

	"github.com/mesaeats/mesa-client/internal/auth"
	"github.com/mesaeats/mesa-client/internal/orders"
	"github.com/mesaeats/mesa-client/internal/vendors"
	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/enums"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/types"
)

type stubOrderStore struct {
	placeFn  func(ctx context.Context, input backend.CreateOrderInput) (*types.Order, error)
	fetchFn  func(ctx context.Context) ([]types.Order, error)
	cancelFn func(ctx context.Context, orderID, reason string) (*types.Order, error)
	current  *types.Order

	placed []backend.CreateOrderInput
}

func (s *stubOrderStore) PlaceOrder(ctx context.Context, input backend.CreateOrderInput) (*types.Order, error) {
	s.placed = append(s.placed, input)
	if s.placeFn != nil {
		return s.placeFn(ctx, input)
	}
	return &types.Order{ID: "o-1", Status: enums.OrderStatusPending}, nil
}

func (s *stubOrderStore) FetchOrdersForCustomer(ctx context.Context) ([]types.Order, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx)
	}
	return nil, nil
}

func (s *stubOrderStore) CancelOrder(ctx context.Context, orderID, reason string) (*types.Order, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, orderID, reason)
	}
	return nil, nil
}

func (s *stubOrderStore) ApplyStatusUpdate(string, enums.OrderStatus, string) {}
func (s *stubOrderStore) Orders() []types.Order                               { return nil }
func (s *stubOrderStore) ActiveOrderIDs() []string                            { return nil }
func (s *stubOrderStore) BindHandlers(realtime.Registrar)                     {}

func (s *stubOrderStore) Current() (types.Order, bool) {
	if s.current == nil {
		return types.Order{}, false
	}
	return *s.current, true
}

var _ orders.Store = (*stubOrderStore)(nil)

type stubVendorStore struct {
	vendors  []types.Vendor
	fetchFn  func(ctx context.Context, filters vendors.Filters) ([]types.Vendor, error)
	detailFn func(ctx context.Context, vendorID string) (*types.Vendor, error)
}

func (s *stubVendorStore) FetchVendors(ctx context.Context, filters vendors.Filters) ([]types.Vendor, error) {
	if s.fetchFn != nil {
		return s.fetchFn(ctx, filters)
	}
	return s.vendors, nil
}

func (s *stubVendorStore) FetchVendorDetails(ctx context.Context, vendorID string) (*types.Vendor, error) {
	if s.detailFn != nil {
		return s.detailFn(ctx, vendorID)
	}
	return nil, nil
}

func (s *stubVendorStore) ApplyMenuDelta(string, vendors.MenuDelta) {}
func (s *stubVendorStore) ApplyOpenStateChange(string, bool)        {}
func (s *stubVendorStore) BindHandlers(realtime.Registrar)          {}
func (s *stubVendorStore) Selected() (types.Vendor, bool)           { return types.Vendor{}, false }
func (s *stubVendorStore) Vendors() []types.Vendor                  { return s.vendors }

func (s *stubVendorStore) ApplyMenuRefresh(context.Context, string, []types.MenuItem, time.Time) bool {
	return false
}

func (s *stubVendorStore) Categories() []string {
	out := []string{}
	seen := map[string]bool{}
	for _, v := range s.vendors {
		if v.Category != "" && !seen[v.Category] {
			seen[v.Category] = true
			out = append(out, v.Category)
		}
	}
	return out
}

func (s *stubVendorStore) SelectedMenuState() (string, time.Time, bool) {
	return "", time.Time{}, false
}

var _ vendors.Store = (*stubVendorStore)(nil)

type stubAuthService struct {
	loginFn    func(ctx context.Context, input backend.LoginInput) (types.Session, error)
	registerFn func(ctx context.Context, input backend.RegisterInput) (types.Session, error)
	updateFn   func(ctx context.Context, input backend.ProfileUpdate) (types.User, error)
	session    *types.Session
	logoutErr  error

	loggedOut int
}

func (s *stubAuthService) Login(ctx context.Context, input backend.LoginInput) (types.Session, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, input)
	}
	return types.Session{}, nil
}

func (s *stubAuthService) Register(ctx context.Context, input backend.RegisterInput) (types.Session, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, input)
	}
	return types.Session{}, nil
}

func (s *stubAuthService) Logout(context.Context) error {
	s.loggedOut++
	return s.logoutErr
}

func (s *stubAuthService) Restore(context.Context) (types.Session, bool, error) {
	return types.Session{}, false, nil
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, input backend.ProfileUpdate) (types.User, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, input)
	}
	return types.User{}, nil
}

func (s *stubAuthService) Current() (types.Session, bool) {
	if s.session == nil {
		return types.Session{}, false
	}
	return *s.session, true
}

func (s *stubAuthService) Invalidate()                   {}
func (s *stubAuthService) RegisterBinder(auth.Binder)    {}
func (s *stubAuthService) SetRoomSource(auth.RoomSource) {}

var _ auth.Service = (*stubAuthService)(nil)
