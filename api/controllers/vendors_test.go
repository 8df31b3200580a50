package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	vendorsvc "github.com/mesaeats/mesa-client/internal/vendors"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/types"
)

func TestVendorsListReturnsCatalogAndCategories(t *testing.T) {
	t.Parallel()

	store := &stubVendorStore{vendors: []types.Vendor{
		{ID: "v-1", BusinessName: "Mesa Norte", Category: "mexican"},
		{ID: "v-2", BusinessName: "Pho Real", Category: "vietnamese"},
	}}
	handler := VendorsList(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors?sortBy=rating", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data vendorListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Vendors) != 2 || len(envelope.Data.Categories) != 2 {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestVendorsListSortByForwarded(t *testing.T) {
	t.Parallel()

	var gotSort string
	store := &stubVendorStore{
		fetchFn: func(_ context.Context, filters vendorsvc.Filters) ([]types.Vendor, error) {
			gotSort = filters.SortBy
			return nil, nil
		},
	}
	handler := VendorsList(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors?sortBy=delivery_time", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotSort != "delivery_time" {
		t.Fatalf("expected sortBy forwarded, got %q", gotSort)
	}
}

func TestVendorsListCategoryFilter(t *testing.T) {
	t.Parallel()

	store := &stubVendorStore{vendors: []types.Vendor{
		{ID: "v-1", Category: "mexican"},
		{ID: "v-2", Category: "vietnamese"},
	}}
	handler := VendorsList(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/vendors?category=mexican", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	var envelope struct {
		Data vendorListResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Vendors) != 1 || envelope.Data.Vendors[0].ID != "v-1" {
		t.Fatalf("expected only the mexican vendor: %+v", envelope.Data.Vendors)
	}
	// Categories still reflect the whole catalog for the filter bar.
	if len(envelope.Data.Categories) != 2 {
		t.Fatalf("expected both categories, got %v", envelope.Data.Categories)
	}
}

func TestVendorDetailsNotFound(t *testing.T) {
	t.Parallel()

	store := &stubVendorStore{
		detailFn: func(context.Context, string) (*types.Vendor, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		},
	}

	r := chi.NewRouter()
	r.Get("/vendors/{vendorID}", VendorDetails(store, nil))

	req := httptest.NewRequest(http.MethodGet, "/vendors/v-404", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestVendorDetailsReturnsMenu(t *testing.T) {
	t.Parallel()

	store := &stubVendorStore{
		detailFn: func(_ context.Context, vendorID string) (*types.Vendor, error) {
			return &types.Vendor{
				ID:   vendorID,
				Menu: []types.MenuItem{{ID: "m-1", Name: "Tacos"}},
			}, nil
		},
	}

	r := chi.NewRouter()
	r.Get("/vendors/{vendorID}", VendorDetails(store, nil))

	req := httptest.NewRequest(http.MethodGet, "/vendors/v-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data types.Vendor `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != "v-1" || len(envelope.Data.Menu) != 1 {
		t.Fatalf("unexpected vendor: %+v", envelope.Data)
	}
}
