package plugin

import "github.com/zernjs/kernel-sub004/semver"

// Instance is a Descriptor plus its runtime lifecycle state.
type Instance struct {
	Descriptor Descriptor

	state          State
	version        semver.Version
	resolvedOpts   any
	api            API
	activationIdx  int // position in the resolved order, -1 until resolved
	lastErr        error
}

// NewInstance parses the descriptor's version and returns a freshly
// Registered instance. Returns *semver.InvalidVersionError on a malformed
// version string.
func NewInstance(d Descriptor) (*Instance, error) {
	v, err := semver.Parse(d.Version)
	if err != nil {
		return nil, err
	}
	return &Instance{
		Descriptor:    d,
		state:         StateRegistered,
		version:       v,
		activationIdx: -1,
	}, nil
}

// Name returns the plugin's declared name.
func (i *Instance) Name() string { return i.Descriptor.Name }

// Version returns the plugin's parsed version.
func (i *Instance) Version() semver.Version { return i.version }

// State returns the instance's current lifecycle state.
func (i *Instance) State() State { return i.state }

// SetState transitions the instance. Lifecycle engine-only; exported so
// the engine and registry (different packages) can both drive it.
func (i *Instance) SetState(s State) { i.state = s }

// ResolvedOptions returns the options produced by the Options phase.
func (i *Instance) ResolvedOptions() any { return i.resolvedOpts }

// SetResolvedOptions records the Options phase's output.
func (i *Instance) SetResolvedOptions(v any) { i.resolvedOpts = v }

// API returns the instance's bound API, valid only once Active.
func (i *Instance) API() API { return i.api }

// SetAPI binds the instance's API, called when transitioning to Active.
func (i *Instance) SetAPI(api API) { i.api = api }

// ActivationIndex returns the instance's position in the resolved order,
// or -1 if not yet resolved.
func (i *Instance) ActivationIndex() int { return i.activationIdx }

// SetActivationIndex records the instance's position in the resolved order.
func (i *Instance) SetActivationIndex(idx int) { i.activationIdx = idx }

// LastError returns the root cause recorded when the instance transitioned
// to Failed, or nil.
func (i *Instance) LastError() error { return i.lastErr }

// SetLastError records the root cause for a Failed transition.
func (i *Instance) SetLastError(err error) { i.lastErr = err }
