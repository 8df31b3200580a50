package vendors

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	pkgerrors "github.com/mesaeats/mesa-client/pkg/errors"
	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/realtime"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// Filters narrows a vendor catalog fetch. Category filtering stays
// client-side against the extracted category set.
type Filters struct {
	SortBy string
}

// StoreParams groups dependencies for the vendor store. HotCache is optional.
type StoreParams struct {
	Catalog   Catalog
	Snapshots SnapshotStore
	Cache     HotCache
	Logger    *logger.Logger
}

// Store holds the vendor catalog and the currently selected vendor. Menus on
// anything the store hands out are never nil.
type Store interface {
	FetchVendors(ctx context.Context, filters Filters) ([]types.Vendor, error)
	FetchVendorDetails(ctx context.Context, vendorID string) (*types.Vendor, error)
	ApplyMenuDelta(vendorID string, delta MenuDelta)
	ApplyOpenStateChange(vendorID string, isOpen bool)
	ApplyMenuRefresh(ctx context.Context, vendorID string, menu []types.MenuItem, updatedAt time.Time) bool
	Vendors() []types.Vendor
	Categories() []string
	Selected() (types.Vendor, bool)
	SelectedMenuState() (vendorID string, updatedAt time.Time, ok bool)
	BindHandlers(sub realtime.Registrar)
}

type store struct {
	catalog   Catalog
	snapshots SnapshotStore
	cache     HotCache
	logg      *logger.Logger

	mu         sync.Mutex
	vendors    []types.Vendor
	categories []string
	selected   *types.Vendor
	generation uint64
}

// snapshotPayload is the JSON shape stored in the hot cache.
type snapshotPayload struct {
	Menu      []types.MenuItem `json:"menu"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewStore builds a vendor store. The hot cache may be nil when redis is not
// configured; the sqlite snapshot store is always required.
func NewStore(params StoreParams) (Store, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor catalog is required")
	}
	if params.Snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	return &store{
		catalog:   params.Catalog,
		snapshots: params.Snapshots,
		cache:     params.Cache,
		logg:      params.Logger,
	}, nil
}

// FetchVendors replaces the catalog wholesale and re-extracts the distinct
// category set.
func (s *store) FetchVendors(ctx context.Context, filters Filters) ([]types.Vendor, error) {
	fetched, err := s.catalog.ListVendors(ctx, filters.SortBy)
	if err != nil {
		return nil, err
	}
	for i := range fetched {
		if fetched[i].Menu == nil {
			fetched[i].Menu = []types.MenuItem{}
		}
	}

	s.mu.Lock()
	s.vendors = fetched
	s.categories = extractCategories(fetched)
	out := s.copyVendorsLocked()
	s.mu.Unlock()
	return out, nil
}

// FetchVendorDetails loads vendor metadata and then its menu. A failed menu
// call falls back to the cached snapshot chain, and an empty menu is the
// last resort. Responses that lose the race against a newer selection are
// discarded.
func (s *store) FetchVendorDetails(ctx context.Context, vendorID string) (*types.Vendor, error) {
	s.mu.Lock()
	s.generation++
	token := s.generation
	s.mu.Unlock()

	vendor, err := s.catalog.GetVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	menu, menuUpdatedAt, fromBackend := s.loadMenu(ctx, vendorID, vendor.MenuUpdatedAt)
	vendor.Menu = menu
	if !menuUpdatedAt.IsZero() {
		vendor.MenuUpdatedAt = menuUpdatedAt
	}

	if fromBackend {
		s.persistSnapshot(ctx, vendorID, menu, vendor.MenuUpdatedAt)
	}

	s.mu.Lock()
	if token != s.generation {
		// a newer selection superseded this response
		s.mu.Unlock()
		if s.logg != nil {
			s.logg.Debug(s.logg.WithVendorID(ctx, vendorID), "stale vendor details discarded")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "vendor selection changed while loading")
	}
	copied := *vendor
	s.selected = &copied
	s.mu.Unlock()

	return vendor, nil
}

// loadMenu tries the backend first, then the hot cache, then sqlite. The
// returned slice is never nil.
func (s *store) loadMenu(ctx context.Context, vendorID string, backendUpdatedAt time.Time) ([]types.MenuItem, time.Time, bool) {
	menu, err := s.catalog.GetVendorMenu(ctx, vendorID)
	if err == nil {
		if menu == nil {
			menu = []types.MenuItem{}
		}
		return menu, backendUpdatedAt, true
	}
	if s.logg != nil {
		s.logg.Warn(s.logg.WithVendorID(ctx, vendorID), "menu fetch failed, falling back to cached snapshot")
	}

	if s.cache != nil {
		if raw, cacheErr := s.cache.GetMenuSnapshot(ctx, vendorID); cacheErr == nil {
			var payload snapshotPayload
			if json.Unmarshal(raw, &payload) == nil && payload.Menu != nil {
				return payload.Menu, payload.UpdatedAt, false
			}
		}
	}

	if menu, updatedAt, snapErr := s.snapshots.LoadMenuSnapshot(ctx, vendorID); snapErr == nil {
		return menu, updatedAt, false
	}

	return []types.MenuItem{}, time.Time{}, false
}

func (s *store) persistSnapshot(ctx context.Context, vendorID string, menu []types.MenuItem, updatedAt time.Time) {
	if err := s.snapshots.SaveMenuSnapshot(ctx, vendorID, menu, updatedAt); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithVendorID(ctx, vendorID), "menu snapshot write failed")
	}
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshotPayload{Menu: menu, UpdatedAt: updatedAt})
	if err != nil {
		return
	}
	if err := s.cache.StoreMenuSnapshot(ctx, vendorID, raw); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithVendorID(ctx, vendorID), "menu hot cache write failed")
	}
}

// ApplyMenuDelta applies a realtime menu change to the catalog entry and to
// the selected vendor when the ids match.
func (s *store) ApplyMenuDelta(vendorID string, delta MenuDelta) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.vendors {
		if s.vendors[i].ID != vendorID {
			continue
		}
		if menu, changed := applyDelta(s.vendors[i].Menu, delta, now); changed {
			s.vendors[i].Menu = menu
			s.vendors[i].MenuUpdatedAt = now
		}
		break
	}

	if s.selected != nil && s.selected.ID == vendorID {
		if menu, changed := applyDelta(s.selected.Menu, delta, now); changed {
			s.selected.Menu = menu
			s.selected.MenuUpdatedAt = now
		}
	}
}

// ApplyOpenStateChange flips the open flag on matching vendors. The menu is
// untouched.
func (s *store) ApplyOpenStateChange(vendorID string, isOpen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.vendors {
		if s.vendors[i].ID == vendorID {
			s.vendors[i].IsOpen = isOpen
		}
	}
	if s.selected != nil && s.selected.ID == vendorID {
		s.selected.IsOpen = isOpen
	}
}

// ApplyMenuRefresh installs a polled menu when its timestamp advances past
// the one the store already holds. Reports whether the refresh was applied.
func (s *store) ApplyMenuRefresh(ctx context.Context, vendorID string, menu []types.MenuItem, updatedAt time.Time) bool {
	if menu == nil {
		menu = []types.MenuItem{}
	}

	s.mu.Lock()
	if s.selected == nil || s.selected.ID != vendorID || !updatedAt.After(s.selected.MenuUpdatedAt) {
		s.mu.Unlock()
		return false
	}
	s.selected.Menu = menu
	s.selected.MenuUpdatedAt = updatedAt
	for i := range s.vendors {
		if s.vendors[i].ID == vendorID {
			s.vendors[i].Menu = menu
			s.vendors[i].MenuUpdatedAt = updatedAt
		}
	}
	s.mu.Unlock()

	s.persistSnapshot(ctx, vendorID, menu, updatedAt)
	return true
}

// Vendors returns a copy of the catalog.
func (s *store) Vendors() []types.Vendor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyVendorsLocked()
}

// Categories returns the distinct categories of the current catalog, sorted.
func (s *store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// Selected returns the vendor the customer is viewing, if any.
func (s *store) Selected() (types.Vendor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return types.Vendor{}, false
	}
	return *s.selected, true
}

// SelectedMenuState exposes what the menu reconciler needs to decide whether
// a poll is due.
func (s *store) SelectedMenuState() (string, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return "", time.Time{}, false
	}
	return s.selected.ID, s.selected.MenuUpdatedAt, true
}

// BindHandlers registers the vendor realtime handlers. Called again after
// every reconnect.
func (s *store) BindHandlers(sub realtime.Registrar) {
	sub.On(realtime.EventVendorMenuUpdated, func(raw json.RawMessage) {
		vendorID, delta, ok := decodeMenuUpdate(raw)
		if !ok {
			return
		}
		s.ApplyMenuDelta(vendorID, delta)
	})

	sub.On(realtime.EventVendorStatusChanged, func(raw json.RawMessage) {
		var payload openStatePayload
		if err := json.Unmarshal(raw, &payload); err != nil || payload.VendorID == "" {
			return
		}
		s.ApplyOpenStateChange(payload.VendorID, payload.IsOpen)
	})
}

func (s *store) copyVendorsLocked() []types.Vendor {
	out := make([]types.Vendor, len(s.vendors))
	copy(out, s.vendors)
	return out
}

func extractCategories(vendors []types.Vendor) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, vendor := range vendors {
		if vendor.Category == "" {
			continue
		}
		if _, dup := seen[vendor.Category]; dup {
			continue
		}
		seen[vendor.Category] = struct{}{}
		out = append(out, vendor.Category)
	}
	sort.Strings(out)
	return out
}
