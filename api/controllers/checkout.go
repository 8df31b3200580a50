package controllers

import (
	"net/http"

	"github.com/mesaeats/mesa-client/api/responses"
	"github.com/mesaeats/mesa-client/api/validators"
	"github.com/mesaeats/mesa-client/internal/cart"
	"github.com/mesaeats/mesa-client/internal/orders"
	"github.com/mesaeats/mesa-client/internal/vendors"
	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/enums"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/logger"

	"github.com/shopspring/decimal"
)

type checkoutPayload struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=card cash_on_delivery wallet"`
}

// Checkout validates the cart against the selected vendor's minimum order,
// places the order and clears the cart on success. Validation failures leave
// the cart untouched so the customer can fix it and retry.
func Checkout(carts cart.Store, catalog vendors.Store, placer orders.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		minimum := decimal.Zero
		for _, v := range catalog.Vendors() {
			if v.ID == carts.Snapshot().VendorID {
				minimum = v.MinimumOrder
				break
			}
		}

		// The order is built from the snapshot ValidateCheckout returns, so a
		// mutation racing the request cannot pass validation on one state and
		// ship another.
		snapshot, err := carts.ValidateCheckout(minimum)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		lines := make([]backend.OrderLineInput, 0, len(snapshot.Items))
		for _, item := range snapshot.Items {
			lines = append(lines, backend.OrderLineInput{
				MenuItemID: item.MenuItemID,
				Name:       item.Name,
				UnitPrice:  item.Price,
				Quantity:   item.Quantity,
			})
		}

		order, err := placer.PlaceOrder(ctx, backend.CreateOrderInput{
			VendorID:        snapshot.VendorID,
			Items:           lines,
			DeliveryAddress: *snapshot.DeliveryAddress,
			PaymentMethod:   method,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		carts.Clear()
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
