package types

import (
	"github.com/shopspring/decimal"
)

// CartItem is one selected menu item with the quantity chosen by the customer.
type CartItem struct {
	MenuItemID string          `json:"menu_item_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	VendorID   string          `json:"vendor_id"`
	VendorName string          `json:"vendor_name"`
	Image      *string         `json:"image,omitempty"`
}

// LineTotal returns price multiplied by quantity.
func (c CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartSnapshot is the immutable view handed out by the cart store. ItemCount
// and Total are derived: they are recomputed on every mutation and never set
// directly.
type CartSnapshot struct {
	Items           []CartItem      `json:"items"`
	VendorID        string          `json:"vendor_id,omitempty"`
	VendorName      string          `json:"vendor_name,omitempty"`
	DeliveryAddress *Address        `json:"delivery_address,omitempty"`
	ItemCount       int             `json:"item_count"`
	Total           decimal.Decimal `json:"total"`
}
