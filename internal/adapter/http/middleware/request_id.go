package middleware

import (
	"net/http"

	wrap "github.com/arlan-b/fleet-snapshot-system/pkg/logger/wrapper"
	"github.com/arlan-b/fleet-snapshot-system/pkg/uuid"
)

// RequestID injects a fresh request id into the context so every log line of
// one request can be correlated.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.New()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := wrap.WithRequestID(r.Context(), id.String())
		w.Header().Set("X-Request-Id", id.String())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
