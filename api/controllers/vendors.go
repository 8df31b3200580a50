package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesaeats/mesa-client/api/responses"
	"github.com/mesaeats/mesa-client/api/validators"
	"github.com/mesaeats/mesa-client/internal/vendors"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/types"
)

type vendorListResponse struct {
	Vendors    []types.Vendor `json:"vendors"`
	Categories []string       `json:"categories"`
}

// VendorsList refreshes the vendor catalog and returns it with the distinct
// cuisine categories. An optional ?category= filters the returned vendors
// without touching the stored catalog.
func VendorsList(store vendors.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := store.FetchVendors(ctx, vendors.Filters{SortBy: validators.QueryParam(r, "sortBy")})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if category := validators.QueryParam(r, "category"); category != "" {
			filtered := make([]types.Vendor, 0, len(list))
			for _, v := range list {
				if v.Category == category {
					filtered = append(filtered, v)
				}
			}
			list = filtered
		}

		responses.WriteSuccess(w, vendorListResponse{
			Vendors:    list,
			Categories: store.Categories(),
		})
	}
}

// VendorDetails selects a vendor and returns it with its menu loaded.
func VendorDetails(store vendors.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		vendor, err := store.FetchVendorDetails(ctx, chi.URLParam(r, "vendorID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}
