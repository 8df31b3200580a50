package vendors

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mesaeats/mesa-client/pkg/enums"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// MenuItemPatch carries the fields of a partial menu item update. Nil fields
// are left untouched on merge.
type MenuItemPatch struct {
	Name            *string           `json:"name,omitempty"`
	Description     *string           `json:"description,omitempty"`
	Price           *decimal.Decimal  `json:"price,omitempty"`
	Category        *string           `json:"category,omitempty"`
	Image           *string           `json:"image,omitempty"`
	IsAvailable     *bool             `json:"is_available,omitempty"`
	PreparationTime *int              `json:"preparation_time,omitempty"`
	IsVegetarian    *bool             `json:"is_vegetarian,omitempty"`
	SpiceLevel      *enums.SpiceLevel `json:"spice_level,omitempty"`
}

// MenuDelta is one realtime menu change for a vendor.
type MenuDelta struct {
	Kind        enums.MenuChangeKind
	Item        *types.MenuItem
	MenuItemID  string
	Patch       *MenuItemPatch
	IsAvailable *bool
}

// menuUpdatePayload is the wire shape of a vendor_menu_updated frame.
type menuUpdatePayload struct {
	VendorID    string          `json:"vendor_id"`
	ChangeKind  string          `json:"change_kind"`
	Item        *types.MenuItem `json:"item,omitempty"`
	MenuItemID  string          `json:"menu_item_id,omitempty"`
	Changes     *MenuItemPatch  `json:"changes,omitempty"`
	IsAvailable *bool           `json:"is_available,omitempty"`
}

// openStatePayload is the wire shape of a vendor_status_changed frame.
type openStatePayload struct {
	VendorID string `json:"vendor_id"`
	IsOpen   bool   `json:"is_open"`
}

func decodeMenuUpdate(raw json.RawMessage) (string, MenuDelta, bool) {
	var payload menuUpdatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", MenuDelta{}, false
	}
	if payload.VendorID == "" {
		return "", MenuDelta{}, false
	}
	kind, err := enums.ParseMenuChangeKind(payload.ChangeKind)
	if err != nil {
		// unknown change kinds are dropped silently
		return "", MenuDelta{}, false
	}
	return payload.VendorID, MenuDelta{
		Kind:        kind,
		Item:        payload.Item,
		MenuItemID:  payload.MenuItemID,
		Patch:       payload.Changes,
		IsAvailable: payload.IsAvailable,
	}, true
}

// applyDelta rewrites the menu slice in place according to the change kind
// and reports whether anything changed. Unknown kinds are a no-op.
func applyDelta(menu []types.MenuItem, delta MenuDelta, now time.Time) ([]types.MenuItem, bool) {
	switch delta.Kind {
	case enums.MenuChangeAdded:
		if delta.Item == nil {
			return menu, false
		}
		return append([]types.MenuItem{*delta.Item}, menu...), true

	case enums.MenuChangeUpdated:
		id := delta.MenuItemID
		if id == "" && delta.Item != nil {
			id = delta.Item.ID
		}
		for i := range menu {
			if menu[i].ID != id {
				continue
			}
			if delta.Patch != nil {
				mergePatch(&menu[i], *delta.Patch)
			} else if delta.Item != nil {
				menu[i] = *delta.Item
			} else {
				return menu, false
			}
			menu[i].UpdatedAt = now
			return menu, true
		}
		return menu, false

	case enums.MenuChangeDeleted:
		for i := range menu {
			if menu[i].ID == delta.MenuItemID {
				return append(menu[:i:i], menu[i+1:]...), true
			}
		}
		return menu, false

	case enums.MenuChangeAvailabilityChanged:
		if delta.IsAvailable == nil {
			return menu, false
		}
		for i := range menu {
			if menu[i].ID == delta.MenuItemID {
				menu[i].IsAvailable = *delta.IsAvailable
				menu[i].UpdatedAt = now
				return menu, true
			}
		}
		return menu, false

	default:
		return menu, false
	}
}

func mergePatch(item *types.MenuItem, patch MenuItemPatch) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Image != nil {
		item.Image = patch.Image
	}
	if patch.IsAvailable != nil {
		item.IsAvailable = *patch.IsAvailable
	}
	if patch.PreparationTime != nil {
		item.PreparationTime = *patch.PreparationTime
	}
	if patch.IsVegetarian != nil {
		item.IsVegetarian = *patch.IsVegetarian
	}
	if patch.SpiceLevel != nil {
		item.SpiceLevel = *patch.SpiceLevel
	}
}
