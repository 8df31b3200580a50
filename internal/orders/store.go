package orders

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/enums"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// StoreParams groups dependencies for the order store.
type StoreParams struct {
	Gateway  Gateway
	Emitter  Emitter
	Sessions SessionSource
	Logger   *logger.Logger
}

// Store tracks the customer's orders and applies realtime status updates.
// List order follows the server except for freshly placed orders, which are
// prepended and become the current order.
type Store interface {
	PlaceOrder(ctx context.Context, input backend.CreateOrderInput) (*types.Order, error)
	FetchOrdersForCustomer(ctx context.Context) ([]types.Order, error)
	CancelOrder(ctx context.Context, orderID, reason string) (*types.Order, error)
	ApplyStatusUpdate(orderID string, status enums.OrderStatus, message string)
	Orders() []types.Order
	Current() (types.Order, bool)
	ActiveOrderIDs() []string
	BindHandlers(sub realtime.Registrar)
}

type store struct {
	gateway  Gateway
	emitter  Emitter
	sessions SessionSource
	logg     *logger.Logger

	mu        sync.Mutex
	orders    []types.Order
	currentID string
}

// NewStore builds an order store with the required dependencies.
func NewStore(params StoreParams) (Store, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order gateway is required")
	}
	if params.Emitter == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "realtime emitter is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session source is required")
	}
	return &store{
		gateway:  params.Gateway,
		emitter:  params.Emitter,
		sessions: params.Sessions,
		logg:     params.Logger,
	}, nil
}

// PlaceOrder creates the order remotely. On success the order is prepended,
// becomes the current order, and an order_placed notification goes out
// fire-and-forget. On failure nothing is created locally.
func (s *store) PlaceOrder(ctx context.Context, input backend.CreateOrderInput) (*types.Order, error) {
	created, err := s.gateway.CreateOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.orders = append([]types.Order{*created}, s.orders...)
	s.currentID = created.ID
	s.mu.Unlock()

	s.emitter.Emit(ctx, realtime.EventOrderPlaced, map[string]string{"order_id": created.ID})
	s.emitter.Emit(ctx, realtime.EventJoinOrderRoom, map[string]string{"order_id": created.ID})

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, created.ID), "order placed")
	}
	return created, nil
}

// FetchOrdersForCustomer replaces the order list with the server's response,
// in server order. Requires an authenticated session.
func (s *store) FetchOrdersForCustomer(ctx context.Context) ([]types.Order, error) {
	session, ok := s.sessions.Current()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "no active session")
	}

	fetched, err := s.gateway.OrdersForCustomer(ctx, session.User.ID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.orders = fetched
	if s.currentID != "" && s.indexOfLocked(s.currentID) < 0 {
		s.currentID = ""
	}
	out := s.copyLocked()
	s.mu.Unlock()
	return out, nil
}

// CancelOrder cancels a pending order. Anything past pending is rejected
// locally before the backend is asked.
func (s *store) CancelOrder(ctx context.Context, orderID, reason string) (*types.Order, error) {
	s.mu.Lock()
	idx := s.indexOfLocked(orderID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if s.orders[idx].Status != enums.OrderStatusPending {
		status := s.orders[idx].Status
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled").
			WithDetails(map[string]any{"status": status.String()})
	}
	s.mu.Unlock()

	cancelled, err := s.gateway.CancelOrder(ctx, orderID, reason)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if idx := s.indexOfLocked(orderID); idx >= 0 {
		s.orders[idx].Status = enums.OrderStatusCancelled
		s.orders[idx].StatusMessage = reason
	}
	s.mu.Unlock()

	s.emitter.Emit(ctx, realtime.EventCancelOrder, map[string]string{"order_id": orderID, "reason": reason})
	s.emitter.Emit(ctx, realtime.EventLeaveOrderRoom, map[string]string{"order_id": orderID})

	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, orderID), "order cancelled")
	}
	return cancelled, nil
}

// ApplyStatusUpdate applies a realtime status change to the matching order.
// Duplicate or out-of-order deliveries never move a status backwards:
// anything at or below the stored index is ignored, cancellation is accepted
// from pending only, and a cancelled order ignores every later event.
// Unknown order ids are ignored rather than materialized.
func (s *store) ApplyStatusUpdate(orderID string, status enums.OrderStatus, message string) {
	if !status.IsValid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(orderID)
	if idx < 0 {
		return
	}
	current := s.orders[idx].Status

	if current == enums.OrderStatusCancelled {
		return
	}
	if status == enums.OrderStatusCancelled {
		if current != enums.OrderStatusPending {
			return
		}
	} else if status.Index() <= current.Index() {
		return
	}

	s.orders[idx].Status = status
	s.orders[idx].StatusMessage = message
	if status == enums.OrderStatusDelivered {
		now := time.Now().UTC()
		s.orders[idx].ActualDeliveryTime = &now
	}
}

// Orders returns a copy of the order list.
func (s *store) Orders() []types.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Current returns the order the customer is tracking, usually the one placed
// most recently.
func (s *store) Current() (types.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentID == "" {
		return types.Order{}, false
	}
	idx := s.indexOfLocked(s.currentID)
	if idx < 0 {
		return types.Order{}, false
	}
	return s.orders[idx], true
}

// ActiveOrderIDs lists orders still in flight, for rejoining their rooms
// after a reconnect.
func (s *store) ActiveOrderIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []string
	for _, order := range s.orders {
		if !order.Status.IsTerminal() {
			ids = append(ids, order.ID)
		}
	}
	return ids
}

// BindHandlers registers the store's realtime handlers on the channel. Must
// be called again after every connect since a disconnect drops listeners.
func (s *store) BindHandlers(sub realtime.Registrar) {
	byEvent := map[string]enums.OrderStatus{
		realtime.EventOrderAccepted:         enums.OrderStatusAccepted,
		realtime.EventOrderPrepared:         enums.OrderStatusPrepared,
		realtime.EventOrderHandedToDelivery: enums.OrderStatusHandedToDelivery,
		realtime.EventOrderOutForDelivery:   enums.OrderStatusOutForDelivery,
		realtime.EventOrderDelivered:        enums.OrderStatusDelivered,
	}
	for event, status := range byEvent {
		status := status
		sub.On(event, func(raw json.RawMessage) {
			payload, ok := decodeStatusUpdate(raw)
			if !ok {
				return
			}
			s.ApplyStatusUpdate(payload.OrderID, status, payload.Message)
		})
	}

	sub.On(realtime.EventOrderStatusUpdated, func(raw json.RawMessage) {
		payload, ok := decodeStatusUpdate(raw)
		if !ok {
			return
		}
		status, err := enums.ParseOrderStatus(payload.Status)
		if err != nil {
			return
		}
		s.ApplyStatusUpdate(payload.OrderID, status, payload.Message)
	})

	sub.On(realtime.EventDeliveryLocationUpdate, func(raw json.RawMessage) {
		if s.logg == nil {
			return
		}
		s.logg.Debug(context.Background(), "delivery location update received")
	})
}

func (s *store) indexOfLocked(orderID string) int {
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

func (s *store) copyLocked() []types.Order {
	out := make([]types.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
