// Package middleware provides the HTTP cross-cutting layer: request IDs,
// logging, panic recovery, CORS, rate limiting, and bearer-token auth.
package middleware

import "net/http"

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines middleware into one. They apply in the order given:
// Chain(mw1, mw2)(h) is mw1(mw2(h)), so mw1 runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}
