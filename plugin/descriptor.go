// Package plugin declares the shape an independently-authored plugin
// exposes to the kernel: its descriptor, dependency list, runtime
// instance/state, and the minimal context passed to its lifecycle
// callbacks.
package plugin

import (
	"context"

	"github.com/zernjs/kernel-sub004/events"
	"github.com/zernjs/kernel-sub004/options"
)

// Dependency names a required or optional peer plugin and the version
// constraint it must satisfy.
type Dependency struct {
	Name       string
	Constraint string // semver constraint expression, e.g. "^2.0.0"
	Optional   bool
}

// API is a plugin's returned surface: an open mapping from name to callable
// (or any other exported value a consumer resolves via Kernel.Get).
type API map[string]any

// SetupFunc builds a plugin's API from its context and validated options.
type SetupFunc func(ctx context.Context, pctx *Ctx, opts any) (API, error)

// TeardownFunc releases a plugin's resources. Optional.
type TeardownFunc func(ctx context.Context, pctx *Ctx) error

// Descriptor is a plugin's immutable declaration, supplied to Builder.Use.
type Descriptor struct {
	Name         string
	Version      string
	DependsOn    []Dependency
	Priority     int
	OptionsSpec  *options.Spec
	Events       map[string]events.Definition
	Hooks        []string // hook names this plugin declares (pluginName.hookName)
	Setup        SetupFunc
	Teardown     TeardownFunc
}
