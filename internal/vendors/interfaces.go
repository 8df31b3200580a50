package vendors

import (
	"context"
	"time"

	"github.com/mesaeats/mesa-client/pkg/backend"
	"github.com/mesaeats/mesa-client/pkg/localstore"
	"github.com/mesaeats/mesa-client/pkg/redis"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// Catalog is the backend surface the vendor store consumes.
type Catalog interface {
	ListVendors(ctx context.Context, sortBy string) ([]types.Vendor, error)
	GetVendor(ctx context.Context, vendorID string) (*types.Vendor, error)
	GetVendorMenu(ctx context.Context, vendorID string) ([]types.MenuItem, error)
}

// SnapshotStore persists last-known-good menus for offline fallback.
type SnapshotStore interface {
	SaveMenuSnapshot(ctx context.Context, vendorID string, menu []types.MenuItem, updatedAt time.Time) error
	LoadMenuSnapshot(ctx context.Context, vendorID string) ([]types.MenuItem, time.Time, error)
}

// HotCache is the optional redis layer in front of the snapshot store.
type HotCache interface {
	StoreMenuSnapshot(ctx context.Context, vendorID string, payload []byte) error
	GetMenuSnapshot(ctx context.Context, vendorID string) ([]byte, error)
}

var (
	_ Catalog       = (*backend.Client)(nil)
	_ SnapshotStore = (*localstore.Repository)(nil)
	_ HotCache      = (*redis.Client)(nil)
)
