package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mesaeats/mesa-client/api/responses"
	"github.com/mesaeats/mesa-client/api/validators"
	"github.com/mesaeats/mesa-client/internal/orders"
	"github.com/mesaeats/mesa-client/pkg/logger"
)

type cancelOrderPayload struct {
	Reason string `json:"reason" validate:"required"`
}

// OrdersList refreshes the order history from the backend and returns it.
func OrdersList(store orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := store.FetchOrdersForCustomer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrdersCurrent returns the order being tracked, if any.
func OrdersCurrent(store orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := store.Current()
		if !ok {
			responses.WriteSuccess(w, nil)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

// OrderCancel cancels a pending order with the customer's reason.
func OrderCancel(store orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload cancelOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := store.CancelOrder(ctx, chi.URLParam(r, "orderID"), payload.Reason)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
