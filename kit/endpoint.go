package kit

import "context"

// Endpoint is a transport-agnostic operation: typed request in, typed
// response out. HTTP handlers and MCP tools both terminate in one.
type Endpoint func(ctx context.Context, request any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(Endpoint) Endpoint

// Chain composes middleware left to right: the first argument is the
// outermost wrapper.
func Chain(mw ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}
