// Package utils provides common utility functions.
package utils

import "net/http"

// UserAgent identifies the fetcher to upstream services.
const UserAgent = "newsfetch/1.0"

// HTTPHelper provides HTTP utility functions.
type HTTPHelper struct{}

// NewHTTPHelper creates a new HTTP helper.
func NewHTTPHelper() *HTTPHelper {
	return &HTTPHelper{}
}

// BuildHeaders creates HTTP headers with defaults. Custom headers are set
// after the defaults and replace them on conflict.
func (h *HTTPHelper) BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	// Add default headers
	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "application/json")

	// Add custom headers
	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
