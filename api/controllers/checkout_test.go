package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/mesaeats/mesa-client/internal/cart"
	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/types"
)

func checkoutCart(t *testing.T) cart.Store {
	t.Helper()
	store := cart.NewStore()
	store.AddItem(types.CartItem{MenuItemID: "m-1", Name: "Tacos", Price: dec(t, "9.50"), VendorID: "v-1"}, 2)
	store.SetDeliveryAddress(types.Address{Line1: "123 Calle Sol", City: "Oaxaca", PostalCode: "68000", Country: "MX"})
	return store
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	t.Parallel()

	carts := checkoutCart(t)
	catalog := &stubVendorStore{vendors: []types.Vendor{{ID: "v-1", MinimumOrder: dec(t, "10.00")}}}
	placer := &stubOrderStore{}
	handler := Checkout(carts, catalog, placer, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_method":"card"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(placer.placed) != 1 {
		t.Fatalf("expected one placed order, got %d", len(placer.placed))
	}
	input := placer.placed[0]
	if input.VendorID != "v-1" || len(input.Items) != 1 || input.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order input: %+v", input)
	}
	if got := carts.Snapshot().ItemCount; got != 0 {
		t.Fatalf("expected cart cleared, %d items remain", got)
	}
}

func TestCheckoutBelowMinimumKeepsCart(t *testing.T) {
	t.Parallel()

	carts := checkoutCart(t)
	catalog := &stubVendorStore{vendors: []types.Vendor{{ID: "v-1", MinimumOrder: dec(t, "50.00")}}}
	placer := &stubOrderStore{}
	handler := Checkout(carts, catalog, placer, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_method":"card"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(placer.placed) != 0 {
		t.Fatal("order should not be placed below the minimum")
	}
	if got := carts.Snapshot().ItemCount; got != 2 {
		t.Fatalf("cart should survive a failed checkout, got %d items", got)
	}
}

func TestCheckoutRequiresDeliveryAddress(t *testing.T) {
	t.Parallel()

	carts := cart.NewStore()
	carts.AddItem(types.CartItem{MenuItemID: "m-1", Name: "Tacos", Price: dec(t, "9.50"), VendorID: "v-1"}, 1)
	handler := Checkout(carts, &stubVendorStore{}, &stubOrderStore{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_method":"card"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	t.Parallel()

	handler := Checkout(checkoutCart(t), &stubVendorStore{}, &stubOrderStore{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_method":"iou"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutKeepsCartWhenBackendFails(t *testing.T) {
	t.Parallel()

	carts := checkoutCart(t)
	placer := &stubOrderStore{
		placeFn: func(context.Context, backend.CreateOrderInput) (*types.Order, error) {
			return nil, context.DeadlineExceeded
		},
	}
	handler := Checkout(carts, &stubVendorStore{}, placer, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_method":"wallet"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	if got := carts.Snapshot().ItemCount; got != 2 {
		t.Fatalf("cart should survive a failed checkout, got %d items", got)
	}
}

// mutatingCartStore sets the delivery address right after the first snapshot
// read, squeezing a concurrent PUT /cart/address into the middle of a
// checkout request.
type mutatingCartStore struct {
	cart.Store
	once sync.Once
}

func (s *mutatingCartStore) Snapshot() types.CartSnapshot {
	snap := s.Store.Snapshot()
	s.once.Do(func() {
		s.Store.SetDeliveryAddress(types.Address{Line1: "9 Calle Luna", City: "Oaxaca", PostalCode: "68000", Country: "MX"})
	})
	return snap
}

func TestCheckoutBuildsOrderFromValidatedSnapshot(t *testing.T) {
	t.Parallel()

	inner := cart.NewStore()
	inner.AddItem(types.CartItem{MenuItemID: "m-1", Name: "Tacos", Price: dec(t, "9.50"), VendorID: "v-1"}, 2)
	carts := &mutatingCartStore{Store: inner}
	placer := &stubOrderStore{}
	handler := Checkout(carts, &stubVendorStore{}, placer, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"payment_method":"card"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(placer.placed) != 1 {
		t.Fatalf("expected one placed order, got %d", len(placer.placed))
	}
	if got := placer.placed[0].DeliveryAddress.Line1; got != "9 Calle Luna" {
		t.Fatalf("order shipped with a different address than was validated: %q", got)
	}
}
