// Package kernel assembles the Order Resolver, the three buses, the
// Plugin Registry, and the Lifecycle Engine into the single public
// surface applications depend on: Builder to declare plugins, Kernel to
// run them. Grounded on the teacher's runtime.Config/runtime.NewRuntime.
package kernel

import (
	"github.com/go-chi/chi/v5"

	"github.com/zernjs/kernel-sub004/config"
	"github.com/zernjs/kernel-sub004/events"
	"github.com/zernjs/kernel-sub004/logging"
	"github.com/zernjs/kernel-sub004/plugin"
)

// pendingPlugin pairs a descriptor with the raw options Builder.Use was
// given for it (nil if none were passed explicitly).
type pendingPlugin struct {
	descriptor plugin.Descriptor
	rawOptions any
	order      int
}

// Builder accumulates plugin descriptors and kernel-wide wiring before
// producing an un-started Kernel via Build.
type Builder struct {
	plugins  []pendingPlugin
	router   chi.Router
	cfg      *config.Config
	logger   logging.Logger
	adapters []events.Adapter
	built    bool
	err      error
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Use registers a plugin descriptor. rawOptions, if given, is the
// unvalidated options value for this plugin (SPEC_FULL §4.2a); omit it
// to fall back to the kernel's bound configuration under
// "plugins.<name>", or to nil when OptionsSpec has no DefaultValue.
// Calling Use after Build has already frozen the Builder is rejected:
// it neither appends the descriptor nor mutates the already-captured
// plugin list, and poisons the Builder with KernelAlreadyBuilt.
func (b *Builder) Use(descriptor plugin.Descriptor, rawOptions ...any) *Builder {
	if b.built {
		b.err = &AlreadyBuiltError{}
		return b
	}
	var raw any
	if len(rawOptions) > 0 {
		raw = rawOptions[0]
	}
	b.plugins = append(b.plugins, pendingPlugin{
		descriptor: descriptor,
		rawOptions: raw,
		order:      len(b.plugins),
	})
	return b
}

// WithRouter attaches a chi.Router that plugins implementing
// RouteProvider/MiddlewareProvider register against during setup.
func (b *Builder) WithRouter(r chi.Router) *Builder {
	b.router = r
	return b
}

// WithConfig attaches a bound *config.Config used as the options
// fallback source described by Use.
func (b *Builder) WithConfig(cfg *config.Config) *Builder {
	b.cfg = cfg
	return b
}

// WithLogger overrides the kernel's logger (default: a logger built from
// logging.DefaultConfig, which writes to the terminal and to log files).
func (b *Builder) WithLogger(logger logging.Logger) *Builder {
	b.logger = logger
	return b
}

// WithEventAdapter registers an Event Bus adapter, notified of every
// Define/Emit across all plugin namespaces.
func (b *Builder) WithEventAdapter(a events.Adapter) *Builder {
	b.adapters = append(b.adapters, a)
	return b
}

// Build freezes the Builder's declarations into a Kernel. The returned
// Kernel is not yet initialized; call Init to resolve dependencies and
// run plugins through their lifecycle. Build may only be called once
// per Builder.
func (b *Builder) Build() (*Kernel, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.built {
		return nil, &AlreadyBuiltError{}
	}
	b.built = true
	return newKernel(b), nil
}
