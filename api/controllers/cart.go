package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mesaeats/mesa-client/api/responses"
	"github.com/mesaeats/mesa-client/api/validators"
	"github.com/mesaeats/mesa-client/internal/cart"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/types"
)

type addCartItemPayload struct {
	MenuItemID string          `json:"menu_item_id" validate:"required"`
	Name       string          `json:"name" validate:"required"`
	Price      decimal.Decimal `json:"price" validate:"required"`
	Quantity   int             `json:"quantity"`
	VendorID   string          `json:"vendor_id" validate:"required"`
	VendorName string          `json:"vendor_name"`
	Image      *string         `json:"image,omitempty"`
}

type setQuantityPayload struct {
	Quantity int `json:"quantity"`
}

// CartView returns the current cart snapshot.
func CartView(store cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, store.Snapshot())
	}
}

// CartAddItem adds a menu item to the cart. An item from another vendor
// replaces the cart contents; the screen warns the user before calling this.
func CartAddItem(store cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !payload.Price.IsPositive() {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive"))
			return
		}

		store.AddItem(types.CartItem{
			MenuItemID: payload.MenuItemID,
			Name:       payload.Name,
			Price:      payload.Price,
			VendorID:   payload.VendorID,
			VendorName: payload.VendorName,
			Image:      payload.Image,
		}, payload.Quantity)

		responses.WriteSuccess(w, store.Snapshot())
	}
}

// CartRemoveItem drops an item from the cart.
func CartRemoveItem(store cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.RemoveItem(chi.URLParam(r, "itemID"))
		responses.WriteSuccess(w, store.Snapshot())
	}
}

// CartSetQuantity replaces an item's quantity; zero removes it.
func CartSetQuantity(store cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload setQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.SetItemQuantity(chi.URLParam(r, "itemID"), payload.Quantity)
		responses.WriteSuccess(w, store.Snapshot())
	}
}

// CartClear empties the cart entirely.
func CartClear(store cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Clear()
		responses.WriteSuccess(w, store.Snapshot())
	}
}

type deliveryAddressPayload struct {
	Line1        string  `json:"line1" validate:"required"`
	Line2        *string `json:"line2,omitempty"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code" validate:"required"`
	Country      string  `json:"country"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Instructions *string `json:"instructions,omitempty"`
}

// CartSetAddress replaces the delivery address.
func CartSetAddress(store cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload deliveryAddressPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		store.SetDeliveryAddress(types.Address{
			Line1:        payload.Line1,
			Line2:        payload.Line2,
			City:         payload.City,
			State:        payload.State,
			PostalCode:   payload.PostalCode,
			Country:      payload.Country,
			Lat:          payload.Lat,
			Lng:          payload.Lng,
			Instructions: payload.Instructions,
		})
		responses.WriteSuccess(w, store.Snapshot())
	}
}
