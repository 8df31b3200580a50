package types

import (
	"time"

	"github.com/mesaeats/mesa-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderLineItem is a cart item frozen into a placed order.
type OrderLineItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// OrderPricing is the backend-computed money breakdown for an order.
type OrderPricing struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Discount    decimal.Decimal `json:"discount"`
	Total       decimal.Decimal `json:"total"`
}

// Order mirrors the backend's order resource. Status only advances through
// the enums.OrderStatus sequence; see internal/orders for the guard.
type Order struct {
	ID                    string              `json:"id"`
	OrderNumber           string              `json:"order_number"`
	CustomerID            string              `json:"customer_id"`
	VendorID              string              `json:"vendor_id"`
	VendorName            string              `json:"vendor_name"`
	Items                 []OrderLineItem     `json:"items"`
	Status                enums.OrderStatus   `json:"status"`
	StatusMessage         string              `json:"status_message,omitempty"`
	Pricing               OrderPricing        `json:"pricing"`
	DeliveryAddress       Address             `json:"delivery_address"`
	PaymentMethod         enums.PaymentMethod `json:"payment_method"`
	PaymentStatus         enums.PaymentStatus `json:"payment_status"`
	CreatedAt             time.Time           `json:"created_at"`
	EstimatedDeliveryTime time.Time           `json:"estimated_delivery_time"`
	ActualDeliveryTime    *time.Time          `json:"actual_delivery_time,omitempty"`
}
