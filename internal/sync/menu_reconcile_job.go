package sync

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/mesaeats/mesa-client/pkg/logger"
	"github.com/mesaeats/mesa-client/pkg/types"
)

// MenuState is the slice of the vendor store the reconciler drives.
type MenuState interface {
	SelectedMenuState() (vendorID string, updatedAt time.Time, ok bool)
	ApplyMenuRefresh(ctx context.Context, vendorID string, menu []types.MenuItem, updatedAt time.Time) bool
}

type menuSource interface {
	GetVendor(ctx context.Context, vendorID string) (*types.Vendor, error)
	GetVendorMenu(ctx context.Context, vendorID string) ([]types.MenuItem, error)
}

// MenuReconcileJobParams configure the menu reconciler.
type MenuReconcileJobParams struct {
	Logger  *logger.Logger
	Catalog menuSource
	Store   MenuState
	MinGap  time.Duration
}

// NewMenuReconcileJob builds the polling fallback for vendor menu updates.
// The push channel is the primary path; this job only repairs what a dropped
// frame may have cost, so it refuses to apply anything whose timestamp does
// not advance past the store's.
func NewMenuReconcileJob(params MenuReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("vendor store required")
	}
	minGap := params.MinGap
	if minGap <= 0 {
		minGap = 30 * time.Second
	}
	return &menuReconcileJob{
		logg:    params.Logger,
		catalog: params.Catalog,
		store:   params.Store,
		minGap:  minGap,
		now:     time.Now,
	}, nil
}

type menuReconcileJob struct {
	logg    *logger.Logger
	catalog menuSource
	store   MenuState
	minGap  time.Duration
	now     func() time.Time

	lastRun      time.Time
	lastVendorID string
}

func (j *menuReconcileJob) Name() string { return "menu-reconcile" }

func (j *menuReconcileJob) Run(ctx context.Context) error {
	vendorID, knownAt, ok := j.store.SelectedMenuState()
	if !ok {
		return nil
	}

	// rate limit per vendor; switching vendors resets the clock
	if vendorID == j.lastVendorID && j.now().Sub(j.lastRun) < j.minGap {
		return nil
	}
	j.lastRun = j.now()
	j.lastVendorID = vendorID

	ctx = j.logg.WithVendorID(ctx, vendorID)

	var errs []error

	vendor, err := j.catalog.GetVendor(ctx, vendorID)
	if err != nil {
		errs = append(errs, fmt.Errorf("vendor fetch: %w", err))
		return multierr.Combine(errs...)
	}
	if !vendor.MenuUpdatedAt.After(knownAt) {
		return nil
	}

	menu, err := j.catalog.GetVendorMenu(ctx, vendorID)
	if err != nil {
		errs = append(errs, fmt.Errorf("menu fetch: %w", err))
		return multierr.Combine(errs...)
	}

	if j.store.ApplyMenuRefresh(ctx, vendorID, menu, vendor.MenuUpdatedAt) {
		j.logg.Info(ctx, "menu refreshed from poll")
	}
	return nil
}
