package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mesaeats/mesa-client/pkg/types"
)

// ListVendors fetches the vendor catalog, optionally sorted server-side.
func (c *Client) ListVendors(ctx context.Context, sortBy string) ([]types.Vendor, error) {
	path := "/vendors"
	if sortBy != "" {
		path += "?sortBy=" + url.QueryEscape(sortBy)
	}
	var out []types.Vendor
	if err := c.doJSON(ctx, "list_vendors", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetVendor fetches a single vendor's metadata. The menu comes from a
// separate call so a menu outage does not take vendor details down with it.
func (c *Client) GetVendor(ctx context.Context, vendorID string) (*types.Vendor, error) {
	var out types.Vendor
	if err := c.doJSON(ctx, "get_vendor", http.MethodGet, "/vendors/"+url.PathEscape(vendorID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVendorMenu fetches the vendor's current menu.
func (c *Client) GetVendorMenu(ctx context.Context, vendorID string) ([]types.MenuItem, error) {
	var out []types.MenuItem
	if err := c.doJSON(ctx, "get_vendor_menu", http.MethodGet, "/vendors/"+url.PathEscape(vendorID)+"/menu", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
