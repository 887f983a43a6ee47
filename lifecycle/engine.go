// Package lifecycle drives plugin instances through their state machine:
// options validation, event/hook definition, setup, run, and stop, with
// rollback on partial setup failure. Grounded on the teacher's
// runtime.Bootstrap/Shutdown phase sequencing.
package lifecycle

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/zernjs/kernel-sub004/errors"
	"github.com/zernjs/kernel-sub004/events"
	"github.com/zernjs/kernel-sub004/hooks"
	"github.com/zernjs/kernel-sub004/kerrors"
	"github.com/zernjs/kernel-sub004/logging"
	"github.com/zernjs/kernel-sub004/metrics"
	"github.com/zernjs/kernel-sub004/options"
	"github.com/zernjs/kernel-sub004/plugin"
	"github.com/zernjs/kernel-sub004/registry"
	"github.com/zernjs/kernel-sub004/tracing"
)

var familyErrors = kerrors.DefineFamily("kernel", map[string]string{
	"OptionsValidationFailed": "plugin options failed validation",
	"SetupFailed":             "plugin setup failed",
	"TeardownFailed":          "plugin teardown failed",
})

// OptsSource supplies the raw, un-validated options value for a plugin
// when the caller didn't pass one explicitly to Builder.Use (SPEC_FULL
// §4.2a). Implemented in the kernel package by configSource, an adapter
// over config.Config; nil is a valid OptsSource (every lookup simply misses).
type OptsSource interface {
	RawOptions(pluginName string) (any, bool)
}

// Engine drives a resolved plugin order through its lifecycle.
type Engine struct {
	store      *registry.Store
	events     *events.Bus
	hooks      *hooks.Bus
	errors     *kerrors.Bus
	logger     logging.Logger
	newCtx     func(inst *plugin.Instance) *plugin.Ctx
	optsSource OptsSource
	metrics    *metrics.Kernel
	tracer     *tracing.Tracer
}

// New creates a lifecycle Engine. newCtx builds the minimal Ctx facade
// passed to a plugin's Setup/Teardown/capability methods. metricsKernel
// may be nil, in which case activation/teardown recording is skipped.
func New(store *registry.Store, eventBus *events.Bus, hookBus *hooks.Bus, errBus *kerrors.Bus, logger logging.Logger, newCtx func(inst *plugin.Instance) *plugin.Ctx, optsSource OptsSource, metricsKernel *metrics.Kernel) *Engine {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	return &Engine{
		store:      store,
		events:     eventBus,
		hooks:      hookBus,
		errors:     errBus,
		logger:     logger.Named("lifecycle"),
		newCtx:     newCtx,
		optsSource: optsSource,
		metrics:    metricsKernel,
		tracer:     tracing.NewTracer("lifecycle", nil),
	}
}

func (e *Engine) recordActivation(pluginName string, duration time.Duration, ok bool) {
	if e.metrics != nil {
		e.metrics.RecordActivation(pluginName, duration, ok)
	}
}

func (e *Engine) recordTeardown(pluginName string, ok bool) {
	if e.metrics != nil {
		e.metrics.RecordTeardown(pluginName, ok)
	}
}

// rawOptions picks the options.Validate input for inst: the explicit value
// (the raw options given to Builder.Use, passed in by RunOptionsPhase) wins;
// absent that, the engine's OptsSource (the kernel's config adapter) is consulted.
func (e *Engine) rawOptions(inst *plugin.Instance, explicit any) any {
	if explicit != nil {
		return explicit
	}
	if e.optsSource != nil {
		if v, ok := e.optsSource.RawOptions(inst.Name()); ok {
			return v
		}
	}
	return nil
}

// RunOptionsPhase validates options for every instance in order. Any
// failure aborts the whole phase; instances already validated remain
// Resolved (per spec: the engine never advances further on failure).
func (e *Engine) RunOptionsPhase(order []*plugin.Instance, rawOptions map[string]any) error {
	for _, inst := range order {
		raw := e.rawOptions(inst, rawOptions[inst.Name()])
		normalized, err := options.Validate(inst.Descriptor.OptionsSpec, inst.Name(), raw)
		if err != nil {
			e.errors.Emit(familyErrors["OptionsValidationFailed"](err), kerrors.Meta{"pluginName": inst.Name()})
			return err
		}
		inst.SetResolvedOptions(normalized)
	}
	return nil
}

// RunDefinitionPhase pre-registers every instance's declared events and
// hooks, in order, before any setup runs.
func (e *Engine) RunDefinitionPhase(order []*plugin.Instance) error {
	for _, inst := range order {
		ns := e.events.Namespace(inst.Name())
		for name, def := range inst.Descriptor.Events {
			if err := ns.Define(name, def); err != nil {
				return err
			}
		}
		for _, hookName := range inst.Descriptor.Hooks {
			if _, err := e.hooks.Define(inst.Name(), hookName); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunSetupPhase transitions each instance SettingUp -> Active in order.
// A throw marks the offending plugin Failed, rolls back every previously
// activated plugin's teardown in reverse order, and returns an
// *apperrors.ErrorChain carrying the root cause plus any rollback failures.
func (e *Engine) RunSetupPhase(ctx context.Context, order []*plugin.Instance) error {
	var activated []*plugin.Instance

	for _, inst := range order {
		if err := e.store.Register(inst); err != nil {
			return err
		}

		inst.SetState(plugin.StateSettingUp)

		start := time.Now()
		api, setupErr := e.runSetup(ctx, inst)
		e.recordActivation(inst.Name(), time.Since(start), setupErr == nil)
		if setupErr != nil {
			inst.SetState(plugin.StateFailed)
			inst.SetLastError(setupErr)
			e.errors.Emit(familyErrors["SetupFailed"](setupErr), kerrors.Meta{"pluginName": inst.Name()})

			return e.rollback(ctx, activated, setupErr, inst.Name())
		}

		if err := e.store.BindAPI(inst.Name(), api); err != nil {
			return err
		}
		inst.SetAPI(api)
		inst.SetState(plugin.StateActive)
		activated = append(activated, inst)
	}

	return nil
}

// runSetup invokes inst's Setup under panic containment, matching the
// teacher's errors.ErrorRecoverWithHandler pattern so a panicking plugin
// degrades to Failed instead of crashing the host process.
func (e *Engine) runSetup(ctx context.Context, inst *plugin.Instance) (api plugin.API, err error) {
	spanCtx, span := e.tracer.Start(ctx, "setup."+inst.Name())
	defer func() { e.tracer.End(span, err) }()

	if inst.Descriptor.Setup == nil {
		return plugin.API{}, nil
	}
	pctx := e.newCtx(inst)

	defer apperrors.ErrorRecoverWithHandler(func(appErr *apperrors.AppError) {
		err = appErr
	})

	api, err = inst.Descriptor.Setup(spanCtx, pctx, inst.ResolvedOptions())
	return api, err
}

// rollback tears down every previously activated plugin in reverse
// order, aggregating any teardown errors with rootCause into an
// *apperrors.ErrorChain, and names the plugin that triggered the rollback.
func (e *Engine) rollback(ctx context.Context, activated []*plugin.Instance, rootCause error, failedPlugin string) error {
	chain := apperrors.NewErrorChain()
	chain.Add(apperrors.Wrap(rootCause, fmt.Sprintf("setup failed for plugin %q", failedPlugin)))

	for i := len(activated) - 1; i >= 0; i-- {
		inst := activated[i]
		inst.SetState(plugin.StateStopping)
		if err := e.teardownOne(ctx, inst); err != nil {
			inst.SetState(plugin.StateFailed)
			inst.SetLastError(err)
			e.recordTeardown(inst.Name(), false)
			e.errors.Emit(familyErrors["TeardownFailed"](err), kerrors.Meta{"pluginName": inst.Name()})
			chain.Add(apperrors.Wrap(err, fmt.Sprintf("rollback teardown failed for plugin %q", inst.Name())))
			continue
		}
		e.recordTeardown(inst.Name(), true)
		e.store.Unbind(inst.Name())
		inst.SetState(plugin.StateStopped)
	}

	return chain
}

// RunStopPhase traverses active plugins in reverse activation order,
// tearing each down regardless of prior failures, and returns an
// aggregate *apperrors.ErrorChain (empty chain if everything succeeded).
func (e *Engine) RunStopPhase(ctx context.Context, order []*plugin.Instance) error {
	chain := apperrors.NewErrorChain()

	for i := len(order) - 1; i >= 0; i-- {
		inst := order[i]
		if inst.State() != plugin.StateActive {
			continue
		}
		inst.SetState(plugin.StateStopping)
		if err := e.teardownOne(ctx, inst); err != nil {
			inst.SetState(plugin.StateFailed)
			inst.SetLastError(err)
			e.recordTeardown(inst.Name(), false)
			e.errors.Emit(familyErrors["TeardownFailed"](err), kerrors.Meta{"pluginName": inst.Name()})
			chain.Add(apperrors.Wrap(err, fmt.Sprintf("teardown failed for plugin %q", inst.Name())))
			continue
		}
		e.recordTeardown(inst.Name(), true)
		e.store.Unbind(inst.Name())
		inst.SetState(plugin.StateStopped)
	}

	if chain.HasErrors() {
		return chain
	}
	return nil
}

func (e *Engine) teardownOne(ctx context.Context, inst *plugin.Instance) (err error) {
	spanCtx, span := e.tracer.Start(ctx, "teardown."+inst.Name())
	defer func() { e.tracer.End(span, err) }()

	if inst.Descriptor.Teardown == nil {
		return nil
	}
	pctx := e.newCtx(inst)

	defer apperrors.ErrorRecoverWithHandler(func(appErr *apperrors.AppError) {
		err = appErr
	})

	return inst.Descriptor.Teardown(spanCtx, pctx)
}
