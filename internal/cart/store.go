package cart

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// Store holds the customer's pending single-vendor selection. All mutations
// recompute the derived item count and total before returning.
type Store interface {
	AddItem(item types.CartItem, qty int)
	RemoveItem(menuItemID string)
	SetItemQuantity(menuItemID string, qty int)
	Clear()
	SetDeliveryAddress(addr types.Address)
	Snapshot() types.CartSnapshot
	ValidateCheckout(minimumOrder decimal.Decimal) (types.CartSnapshot, error)
}

type store struct {
	mu sync.Mutex

	items      []types.CartItem
	vendorID   string
	vendorName string
	address    *types.Address
}

// NewStore builds an empty cart.
func NewStore() Store {
	return &store{}
}

// AddItem binds the cart to the item's vendor on first add. Adding an item
// from a different vendor discards the existing contents and rebinds; the
// caller is expected to have warned the user beforehand. A repeated menu item
// id increments the existing quantity.
func (s *store) AddItem(item types.CartItem, qty int) {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 && item.VendorID != s.vendorID {
		s.items = nil
	}
	if len(s.items) == 0 {
		s.vendorID = item.VendorID
		s.vendorName = item.VendorName
	}

	for i := range s.items {
		if s.items[i].MenuItemID == item.MenuItemID {
			s.items[i].Quantity += qty
			return
		}
	}

	item.Quantity = qty
	s.items = append(s.items, item)
}

// RemoveItem drops the matching entry. The vendor binding clears when the
// last item goes.
func (s *store) RemoveItem(menuItemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(menuItemID)
}

// SetItemQuantity replaces the quantity outright. A quantity of zero or less
// behaves exactly like RemoveItem.
func (s *store) SetItemQuantity(menuItemID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.removeLocked(menuItemID)
		return
	}
	for i := range s.items {
		if s.items[i].MenuItemID == menuItemID {
			s.items[i].Quantity = qty
			return
		}
	}
}

// Clear resets everything: items, vendor binding and delivery address.
func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.vendorID = ""
	s.vendorName = ""
	s.address = nil
}

// SetDeliveryAddress replaces the address without validating it. Validation
// happens at checkout.
func (s *store) SetDeliveryAddress(addr types.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = &addr
}

// Snapshot returns a copy of the cart with the derived fields computed.
func (s *store) Snapshot() types.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]types.CartItem, len(s.items))
	copy(items, s.items)

	count := 0
	total := decimal.Zero
	for _, item := range items {
		count += item.Quantity
		total = total.Add(item.LineTotal())
	}

	var addr *types.Address
	if s.address != nil {
		copied := *s.address
		addr = &copied
	}

	return types.CartSnapshot{
		Items:           items,
		VendorID:        s.vendorID,
		VendorName:      s.vendorName,
		DeliveryAddress: addr,
		ItemCount:       count,
		Total:           total,
	}
}

// ValidateCheckout checks the preconditions for placing an order: a non-empty
// cart, a complete delivery address and the vendor's minimum order threshold.
// It returns the snapshot it validated so the caller builds the order from
// exactly that state, not from a re-read that a concurrent mutation may have
// changed in between.
func (s *store) ValidateCheckout(minimumOrder decimal.Decimal) (types.CartSnapshot, error) {
	snap := s.Snapshot()

	if len(snap.Items) == 0 {
		return snap, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if snap.DeliveryAddress == nil {
		return snap, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if missing := snap.DeliveryAddress.MissingFields(); len(missing) > 0 {
		return snap, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is incomplete").
			WithDetails(map[string]any{"missing_fields": strings.Join(missing, ", ")})
	}
	if minimumOrder.IsPositive() && snap.Total.LessThan(minimumOrder) {
		return snap, pkgerrors.New(pkgerrors.CodeValidation, "order total is below the vendor minimum").
			WithDetails(map[string]any{
				"total":         snap.Total.String(),
				"minimum_order": minimumOrder.String(),
			})
	}
	return snap, nil
}

func (s *store) removeLocked(menuItemID string) {
	for i := range s.items {
		if s.items[i].MenuItemID == menuItemID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	if len(s.items) == 0 {
		s.items = nil
		s.vendorID = ""
		s.vendorName = ""
	}
}
