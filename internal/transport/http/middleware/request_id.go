package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dkomarev/afisha/internal/application/event"
)

const HeaderXRequestID = "X-Request-Id"

// RequestID echoes or mints a request id; it also lands on outbox
// envelopes as trace_id.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		w.Header().Set(HeaderXRequestID, reqID)
		r.Header.Set(HeaderXRequestID, reqID)

		ctx := event.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
