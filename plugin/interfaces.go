package plugin

import (
	"context"

	"github.com/go-chi/chi/v5"
)

// --- Optional Capability Interfaces ---
// Plugins may implement these on their own types. The lifecycle engine
// does not detect or call them: a plugin's Setup calls RegisterRoutes or
// RegisterMiddlewares itself against pctx.Router.

// RouteProvider -- register HTTP routes against the kernel's optional router.
type RouteProvider interface {
	RegisterRoutes(router chi.Router)
}

// MiddlewareProvider -- register HTTP middleware against the kernel's
// optional router.
type MiddlewareProvider interface {
	RegisterMiddlewares(router chi.Router)
}

// HealthReporter -- provide a custom health check. Kernel.HealthCheck
// runs it when the plugin's API exposes it as its "healthCheck" entry.
type HealthReporter interface {
	HealthCheck(ctx context.Context) error
}

// EventSubscriber -- subscribe to events/hooks beyond what the plugin
// itself declares. Nothing in the kernel calls SubscribeEvents.
type EventSubscriber interface {
	SubscribeEvents(pctx *Ctx) error
}
