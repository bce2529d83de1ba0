package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/osanchezal/sgc-backend/pkg/ctxutil"
)

// RequestIDHeader is the header used to propagate and echo the request ID.
const RequestIDHeader = "X-Request-Id"

// RequestID returns middleware that tags each request with an identifier:
// an incoming X-Request-Id is reused, otherwise a fresh UUID is generated.
// The ID is stored in the context and echoed on the response.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
