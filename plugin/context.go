package plugin

import (
	"github.com/go-chi/chi/v5"

	"github.com/zernjs/kernel-sub004/events"
	"github.com/zernjs/kernel-sub004/hooks"
	"github.com/zernjs/kernel-sub004/kerrors"
	"github.com/zernjs/kernel-sub004/logging"
)

// Getter resolves another plugin's bound API by name. Implemented by the
// registry package; kept as a narrow interface here so plugin never
// imports registry (avoiding a cycle and keeping Ctx's reference surface
// minimal, per the kernel's "no strong references to other instances" rule).
type Getter interface {
	Get(name string) (API, error)
}

// Ctx is the minimal dependency-injection context passed to every plugin
// lifecycle callback. It holds only the bus handles and a name-keyed
// getter -- never direct references to other plugin instances -- so the
// registry/bus tables and plugin code cannot form reference cycles.
type Ctx struct {
	Name    string // this plugin's own name, for self-identifying log lines etc.
	Logger  logging.Logger
	Events  *events.Bus
	Hooks   *hooks.Bus
	Errors  *kerrors.Bus
	Get     func(name string) (API, error)
	Router  chi.Router // nil unless the kernel was built with WithRouter
}
