package backend

import (
	"context"
	"net/url"
)

// GetVendorLogo fetches the vendor's logo bytes.
func (c *Client) GetVendorLogo(ctx context.Context, vendorID string, asBase64 bool) ([]byte, error) {
	path := "/images/vendor-logo/" + url.PathEscape(vendorID)
	if asBase64 {
		path += "/base64"
	}
	return c.getBytes(ctx, "vendor_logo", path)
}

// GetMenuItemImage fetches a menu item's image bytes.
func (c *Client) GetMenuItemImage(ctx context.Context, vendorID, itemID string, asBase64 bool) ([]byte, error) {
	path := "/images/menu-item/" + url.PathEscape(vendorID) + "/" + url.PathEscape(itemID)
	if asBase64 {
		path += "/base64"
	}
	return c.getBytes(ctx, "menu_item_image", path)
}
