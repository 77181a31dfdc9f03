package middleware

import "github.com/leofalp/mealscan/core/extract"

// Middleware wraps an Invoker.
type Middleware func(next extract.Invoker) extract.Invoker

// Chain applies mws to inv so that mws[0] runs first.
func Chain(inv extract.Invoker, mws ...Middleware) extract.Invoker {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			inv = mws[i](inv)
		}
	}
	return inv
}
