package response

import "net/http"

// RequestIDFromRequest reads the request id the middleware echoed into the
// headers.
func RequestIDFromRequest(r *http.Request) string {
	if v := r.Header.Get("X-Request-Id"); v != "" {
		return v
	}
	return r.Header.Get("X-Request-ID")
}
