package validators

import (
	"net/http"
	"strings"
)

// QueryParam returns the trimmed value of a query parameter, empty when the
// parameter is absent.
func QueryParam(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
