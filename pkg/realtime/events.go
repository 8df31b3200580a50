package realtime

// Event names on the delivery backend's socket surface.
const (
	// consumed
	EventOrderAccepted          = "order_accepted"
	EventOrderPrepared          = "order_prepared"
	EventOrderHandedToDelivery  = "order_handed_to_delivery"
	EventOrderOutForDelivery    = "order_out_for_delivery"
	EventOrderDelivered         = "order_delivered"
	EventOrderStatusUpdated     = "order_status_updated"
	EventVendorMenuUpdated      = "vendor_menu_updated"
	EventVendorStatusChanged    = "vendor_status_changed"
	EventDeliveryLocationUpdate = "delivery_location_update"

	// emitted
	EventOrderPlaced    = "order_placed"
	EventJoinOrderRoom  = "join_order_room"
	EventLeaveOrderRoom = "leave_order_room"
	EventCancelOrder    = "cancel_order"
	EventSendMessage    = "send_message"
	EventTyping         = "typing"
)

// Registrar is the handler-registration half of the channel. Stores depend
// on it so handler re-binding after a reconnect stays testable.
type Registrar interface {
	On(event string, fn Handler) Subscription
}
