package shared

import (
	"net/http"
	"strconv"
)

// PageParam reads the "page" query value, defaulting to 1 and clamping
// anything non-positive or unparseable back to 1.
func PageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
