package types

import (
	"time"

	"github.com/mesaeats/mesa-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// Rating aggregates customer scores for a vendor.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// MenuItem is a single orderable dish on a vendor's menu.
type MenuItem struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	Category        string           `json:"category"`
	Image           *string          `json:"image,omitempty"`
	IsAvailable     bool             `json:"is_available"`
	PreparationTime int              `json:"preparation_time"`
	IsVegetarian    bool             `json:"is_vegetarian"`
	SpiceLevel      enums.SpiceLevel `json:"spice_level"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// Vendor is a restaurant account plus its menu. Menu is never nil in store
// state: absent menus are represented as an empty slice.
type Vendor struct {
	ID            string          `json:"id"`
	BusinessName  string          `json:"business_name"`
	Category      string          `json:"category"`
	LogoURL       *string         `json:"logo_url,omitempty"`
	IsOpen        bool            `json:"is_open"`
	Rating        Rating          `json:"rating"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	MinimumOrder  decimal.Decimal `json:"minimum_order"`
	Address       *Address        `json:"address,omitempty"`
	Menu          []MenuItem      `json:"menu"`
	MenuUpdatedAt time.Time       `json:"menu_updated_at"`
}
