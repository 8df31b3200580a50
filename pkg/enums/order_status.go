package enums

import "fmt"

// OrderStatus tracks an order through the delivery pipeline. The main sequence
// only ever moves forward; cancelled is a side branch reachable from pending.
type OrderStatus string

const (
	OrderStatusPending          OrderStatus = "pending"
	OrderStatusAccepted         OrderStatus = "accepted"
	OrderStatusPrepared         OrderStatus = "prepared"
	OrderStatusHandedToDelivery OrderStatus = "handed_to_delivery"
	OrderStatusOutForDelivery   OrderStatus = "out_for_delivery"
	OrderStatusDelivered        OrderStatus = "delivered"
	OrderStatusCancelled        OrderStatus = "cancelled"
)

var orderStatusSequence = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusPrepared,
	OrderStatusHandedToDelivery,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	if o == OrderStatusCancelled {
		return true
	}
	for _, candidate := range orderStatusSequence {
		if candidate == o {
			return true
		}
	}
	return false
}

// Index returns the ordinal position within the forward sequence, or -1 for
// cancelled and unknown values.
func (o OrderStatus) Index() int {
	for i, candidate := range orderStatusSequence {
		if candidate == o {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further transitions are possible.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusDelivered || o == OrderStatusCancelled
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	candidate := OrderStatus(value)
	if !candidate.IsValid() {
		return "", fmt.Errorf("invalid order status %q", value)
	}
	return candidate, nil
}
