package http

import (
	"net/http"
	"strconv"
	"strings"
)

// queryPtr returns the trimmed query value for key, or nil when it is absent or blank.
func queryPtr(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}

// queryInt returns 0 for absent values so DTO validation applies its defaults.
// Unparseable values become -1 and fail validation.
func queryInt(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
