// Package middleware implements the onion-model interceptor chain shared
// by the event and hook buses: a middleware wraps the next link exactly
// once, so a single function can hold setup state across the pre and
// post phases of an emission.
package middleware

// Handler is the terminal or next step in a chain: it observes/mutates
// ctx and returns an error to short-circuit.
type Handler[T any] func(ctx *T) error

// Middleware wraps next into a new Handler. A middleware that doesn't
// call next short-circuits the chain; this is intentional and documented,
// not prevented.
type Middleware[T any] func(ctx *T, next Handler[T]) error

// Chain is an ordered list of middleware wrapped around a terminal handler.
type Chain[T any] struct {
	entries []Middleware[T]
}

// Use appends mw to the chain, executed in append order on the way in
// (m1 pre -> m2 pre -> ... -> terminal -> ... -> m2 post -> m1 post).
func (c *Chain[T]) Use(mw Middleware[T]) {
	c.entries = append(c.entries, mw)
}

// Len returns the number of middleware currently in the chain.
func (c *Chain[T]) Len() int { return len(c.entries) }

// Run executes the chain around terminal.
func (c *Chain[T]) Run(ctx *T, terminal Handler[T]) error {
	next := terminal
	for i := len(c.entries) - 1; i >= 0; i-- {
		mw := c.entries[i]
		prevNext := next
		next = func(ctx *T) error {
			return mw(ctx, prevNext)
		}
	}
	return next(ctx)
}
