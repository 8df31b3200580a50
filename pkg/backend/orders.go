package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mesaeats/mesa-client/pkg/enums"
	"github.com/mesaeats/mesa-client/pkg/types"
	"github.com/shopspring/decimal"
)

// OrderLineInput is one cart line submitted at checkout.
type OrderLineInput struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
}

// CreateOrderInput is the checkout payload sent to POST /orders.
type CreateOrderInput struct {
	VendorID        string              `json:"vendor_id"`
	Items           []OrderLineInput    `json:"items"`
	DeliveryAddress types.Address       `json:"delivery_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
}

// CreateOrder places the order and returns the backend's order resource.
func (c *Client) CreateOrder(ctx context.Context, input CreateOrderInput) (*types.Order, error) {
	var out types.Order
	if err := c.doJSON(ctx, "create_order", http.MethodPost, "/orders", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrdersForCustomer returns the customer's order history in server order.
func (c *Client) OrdersForCustomer(ctx context.Context, customerID string) ([]types.Order, error) {
	var out []types.Order
	if err := c.doJSON(ctx, "orders_for_customer", http.MethodGet, "/orders/customer/"+url.PathEscape(customerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrderStatus pushes a status change. Exposed for parity with the
// backend surface; the customer flow itself only cancels.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status enums.OrderStatus) (*types.Order, error) {
	var out types.Order
	body := map[string]string{"status": status.String()}
	if err := c.doJSON(ctx, "update_order_status", http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelOrder asks the backend to cancel a pending order.
func (c *Client) CancelOrder(ctx context.Context, orderID, reason string) (*types.Order, error) {
	var out types.Order
	body := map[string]string{"reason": reason}
	if err := c.doJSON(ctx, "cancel_order", http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/cancel", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignOrder attaches a delivery partner to the order. Parity endpoint.
func (c *Client) AssignOrder(ctx context.Context, orderID, delivererID string) error {
	body := map[string]string{"deliverer_id": delivererID}
	return c.doJSON(ctx, "assign_order", http.MethodPut, "/orders/"+url.PathEscape(orderID)+"/assign", body, nil)
}
