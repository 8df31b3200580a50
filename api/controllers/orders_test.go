package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mesaeats/mesa-client/pkg/enums"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/types"
)

func TestOrdersListReturnsHistory(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{
		fetchFn: func(context.Context) ([]types.Order, error) {
			return []types.Order{
				{ID: "o-2", Status: enums.OrderStatusDelivered},
				{ID: "o-1", Status: enums.OrderStatusCancelled},
			}, nil
		},
	}
	handler := OrdersList(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []types.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 || envelope.Data[0].ID != "o-2" {
		t.Fatalf("unexpected orders: %+v", envelope.Data)
	}
}

func TestOrdersListRequiresSession(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{
		fetchFn: func(context.Context) ([]types.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "sign in to view orders")
		},
	}
	handler := OrdersList(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestOrdersCurrentEmpty(t *testing.T) {
	t.Parallel()

	handler := OrdersCurrent(&stubOrderStore{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/current", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestOrderCancelPassesReason(t *testing.T) {
	t.Parallel()

	var gotID, gotReason string
	store := &stubOrderStore{
		cancelFn: func(_ context.Context, orderID, reason string) (*types.Order, error) {
			gotID, gotReason = orderID, reason
			return &types.Order{ID: orderID, Status: enums.OrderStatusCancelled}, nil
		},
	}

	r := chi.NewRouter()
	r.Post("/orders/{orderID}/cancel", OrderCancel(store, nil))

	req := httptest.NewRequest(http.MethodPost, "/orders/o-9/cancel", strings.NewReader(`{"reason":"changed my mind"}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if gotID != "o-9" || gotReason != "changed my mind" {
		t.Fatalf("unexpected cancel args: %q %q", gotID, gotReason)
	}
}

func TestOrderCancelConflictSurfaced(t *testing.T) {
	t.Parallel()

	store := &stubOrderStore{
		cancelFn: func(context.Context, string, string) (*types.Order, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")
		},
	}

	r := chi.NewRouter()
	r.Post("/orders/{orderID}/cancel", OrderCancel(store, nil))

	req := httptest.NewRequest(http.MethodPost, "/orders/o-9/cancel", strings.NewReader(`{"reason":"too slow"}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "no longer be cancelled") {
		t.Fatalf("conflict message not surfaced: %s", resp.Body.String())
	}
}

func TestOrderCancelRequiresReason(t *testing.T) {
	t.Parallel()

	r := chi.NewRouter()
	r.Post("/orders/{orderID}/cancel", OrderCancel(&stubOrderStore{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/orders/o-9/cancel", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
