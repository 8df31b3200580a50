// Package demo fabricates order flows locally so the client can be exercised
// without a backend. Enabled only by MESA_OFFLINE_DEMO; never in production.
package demo

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mesaeats/mesa-client/internal/orders"
	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/enums"
	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/types"
)

var (
	deliveryFee = decimal.RequireFromString("2.50")
	taxRate     = decimal.RequireFromString("0.08")
)

// Gateway is an in-memory stand-in for the order endpoints.
type Gateway struct {
	mu     sync.Mutex
	orders map[string]types.Order
	seq    int
	now    func() time.Time
}

var _ orders.Gateway = (*Gateway)(nil)

// NewGateway builds an empty offline gateway.
func NewGateway() *Gateway {
	return &Gateway{
		orders: map[string]types.Order{},
		now:    time.Now,
	}
}

// CreateOrder fabricates a pending order with locally computed pricing.
func (g *Gateway) CreateOrder(_ context.Context, input backend.CreateOrderInput) (*types.Order, error) {
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	subtotal := decimal.Zero
	items := make([]types.OrderLineItem, 0, len(input.Items))
	for _, line := range input.Items {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, types.OrderLineItem{
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			LineTotal:  lineTotal,
		})
	}
	tax := subtotal.Mul(taxRate).Round(2)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	now := g.now().UTC()
	order := types.Order{
		ID:            uuid.NewString(),
		OrderNumber:   fmt.Sprintf("DEMO-%04d", g.seq),
		VendorID:      input.VendorID,
		Items:         items,
		Status:        enums.OrderStatusPending,
		StatusMessage: "demo order, nothing will be cooked",
		Pricing: types.OrderPricing{
			Subtotal:    subtotal,
			DeliveryFee: deliveryFee,
			Tax:         tax,
			Total:       subtotal.Add(deliveryFee).Add(tax),
		},
		DeliveryAddress:       input.DeliveryAddress,
		PaymentMethod:         input.PaymentMethod,
		PaymentStatus:         enums.PaymentStatusPending,
		CreatedAt:             now,
		EstimatedDeliveryTime: now.Add(40 * time.Minute),
	}
	g.orders[order.ID] = order
	return &order, nil
}

// OrdersForCustomer returns the fabricated orders, newest first.
func (g *Gateway) OrdersForCustomer(_ context.Context, customerID string) ([]types.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]types.Order, 0, len(g.orders))
	for _, order := range g.orders {
		order.CustomerID = customerID
		out = append(out, order)
	}
	sortByCreatedDesc(out)
	return out, nil
}

// CancelOrder flips a fabricated order to cancelled.
func (g *Gateway) CancelOrder(_ context.Context, orderID, reason string) (*types.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
	}
	order.Status = enums.OrderStatusCancelled
	order.StatusMessage = strings.TrimSpace(reason)
	g.orders[orderID] = order
	return &order, nil
}

func sortByCreatedDesc(list []types.Order) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
