package types

import "strings"

// Address is the delivery destination attached to carts and orders.
type Address struct {
	Line1        string  `json:"line1"`
	Line2        *string `json:"line2,omitempty"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Instructions *string `json:"instructions,omitempty"`
}

// MissingFields lists the required delivery fields that are empty.
func (a Address) MissingFields() []string {
	missing := []string{}
	if strings.TrimSpace(a.Line1) == "" {
		missing = append(missing, "line1")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(a.PostalCode) == "" {
		missing = append(missing, "postal_code")
	}
	return missing
}
