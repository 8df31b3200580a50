package orders

import (
	"context"
	"encoding/json"

	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// Gateway is the backend surface the order store needs. The REST client
// implements it; the offline demo gateway fabricates responses locally.
type Gateway interface {
	CreateOrder(ctx context.Context, input backend.CreateOrderInput) (*types.Order, error)
	OrdersForCustomer(ctx context.Context, customerID string) ([]types.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (*types.Order, error)
}

// Emitter sends fire-and-forget realtime notifications.
type Emitter interface {
	Emit(ctx context.Context, event string, payload any)
}

// SessionSource reports the currently authenticated session, if any.
type SessionSource interface {
	Current() (types.Session, bool)
}

var _ Gateway = (*backend.Client)(nil)

// compile-time check that the channel satisfies both realtime roles
var (
	_ Emitter            = (*realtime.Channel)(nil)
	_ realtime.Registrar = (*realtime.Channel)(nil)
)

// statusUpdatePayload is the frame body for order status events.
type statusUpdatePayload struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func decodeStatusUpdate(raw json.RawMessage) (statusUpdatePayload, bool) {
	var payload statusUpdatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return statusUpdatePayload{}, false
	}
	return payload, payload.OrderID != ""
}
