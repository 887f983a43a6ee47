package kernel

import (
	"context"
	"fmt"
	"sync"

	"github.com/zernjs/kernel-sub004/events"
	"github.com/zernjs/kernel-sub004/hooks"
	"github.com/zernjs/kernel-sub004/kerrors"
	"github.com/zernjs/kernel-sub004/lifecycle"
	"github.com/zernjs/kernel-sub004/logging"
	"github.com/zernjs/kernel-sub004/metrics"
	"github.com/zernjs/kernel-sub004/plugin"
	"github.com/zernjs/kernel-sub004/registry"
	"github.com/zernjs/kernel-sub004/resolver"
)

// Kernel is the running application: a resolved plugin order plus the
// three buses and the registry they share. Construct one via
// Builder.Build, then call Init.
type Kernel struct {
	mu     sync.Mutex
	active bool

	pending []pendingPlugin

	store  *registry.Store
	events *events.Bus
	hooks  *hooks.Bus
	errors *kerrors.Bus
	engine  *lifecycle.Engine
	logger  logging.Logger
	metrics *metrics.Kernel

	order []*plugin.Instance
}

func newKernel(b *Builder) *Kernel {
	logger := b.logger
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	logger = logger.Named("kernel")

	errBus := kerrors.NewBus(logger)
	evBus := events.NewBus(errBus, logger)
	for _, a := range b.adapters {
		evBus.RegisterAdapter(a)
	}
	hkBus := hooks.NewBus(errBus)
	store := registry.New()
	metricsKernel := metrics.NewKernel()

	evBus.RegisterAdapter(events.Adapter{
		Name: "metrics",
		OnEmit: func(namespace, eventName string, payload any) {
			metricsKernel.RecordBusEmit("events", namespace+"."+eventName)
		},
	})

	errBus.On("kernel", "SetupFailed", func(err *kerrors.Error, meta kerrors.Meta) {
		metricsKernel.RecordBusError(err.Family, err.Kind)
	})
	errBus.On("kernel", "TeardownFailed", func(err *kerrors.Error, meta kerrors.Meta) {
		metricsKernel.RecordBusError(err.Family, err.Kind)
	})

	k := &Kernel{
		pending: b.plugins,
		store:   store,
		events:  evBus,
		hooks:   hkBus,
		errors:  errBus,
		logger:  logger,
		metrics: metricsKernel,
	}

	newCtx := func(inst *plugin.Instance) *plugin.Ctx {
		return &plugin.Ctx{
			Name:   inst.Name(),
			Logger: logger.Named(inst.Name()),
			Events: evBus,
			Hooks:  hkBus,
			Errors: errBus,
			Get:    store.Get,
			Router: b.router,
		}
	}

	k.engine = lifecycle.New(store, evBus, hkBus, errBus, logger, newCtx, &configSource{cfg: b.cfg}, metricsKernel)
	return k
}

// Init resolves the declared plugins' dependency order and drives them
// through the Options, Definition, and Setup phases, finally marking
// the Event Bus Active so buffered/replay startup emissions flush. Init
// is idempotent: calling it again on an already-active kernel is a
// no-op that returns nil.
func (k *Kernel) Init(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.active {
		return nil
	}

	instances := make([]*plugin.Instance, 0, len(k.pending))
	rawOptions := make(map[string]any, len(k.pending))
	userOrder := make(map[string]int, len(k.pending))
	n := len(k.pending)

	for _, p := range k.pending {
		inst, err := plugin.NewInstance(p.descriptor)
		if err != nil {
			return fmt.Errorf("kernel: invalid descriptor %q: %w", p.descriptor.Name, err)
		}
		instances = append(instances, inst)
		rawOptions[inst.Name()] = p.rawOptions
		userOrder[inst.Name()] = n - p.order
	}

	order, err := resolver.Resolve(instances, userOrder)
	if err != nil {
		return fmt.Errorf("kernel: dependency resolution failed: %w", err)
	}
	k.order = order

	if err := k.engine.RunOptionsPhase(order, rawOptions); err != nil {
		return err
	}
	if err := k.engine.RunDefinitionPhase(order); err != nil {
		return err
	}
	if err := k.engine.RunSetupPhase(ctx, order); err != nil {
		return err
	}

	k.events.Activate()
	k.active = true
	k.logger.Infof("kernel initialized with %d plugins", len(order))
	return nil
}

// HealthCheck runs every Active plugin's "healthCheck" capability (an API
// entry of type func(context.Context) error, the convention
// plugin.HealthReporter implementations expose through their returned
// plugin.API) and returns the per-plugin results. Plugins without a
// "healthCheck" entry are omitted.
func (k *Kernel) HealthCheck(ctx context.Context) map[string]error {
	k.mu.Lock()
	order := append([]*plugin.Instance(nil), k.order...)
	k.mu.Unlock()

	results := make(map[string]error)
	for _, inst := range order {
		if inst.State() != plugin.StateActive {
			continue
		}
		check, ok := inst.API()["healthCheck"].(func(context.Context) error)
		if !ok {
			continue
		}
		results[inst.Name()] = check(ctx)
	}
	return results
}

// Get resolves a plugin's bound API by name. Fails with
// *registry.NotActiveError or *registry.NotFoundError; also fails with
// *NotInitializedError before the first successful Init.
func (k *Kernel) Get(name string) (plugin.API, error) {
	k.mu.Lock()
	active := k.active
	k.mu.Unlock()
	if !active {
		return nil, &NotInitializedError{Op: "Get"}
	}
	return k.store.Get(name)
}

// Events returns the kernel's Event Bus.
func (k *Kernel) Events() *events.Bus { return k.events }

// Hooks returns the kernel's Hook Bus.
func (k *Kernel) Hooks() *hooks.Bus { return k.hooks }

// Errors returns the kernel's Error Bus.
func (k *Kernel) Errors() *kerrors.Bus { return k.errors }

// Metrics returns the kernel's activation/teardown/error counters.
func (k *Kernel) Metrics() *metrics.Kernel { return k.metrics }

// Order returns the resolved activation order, or nil before Init.
func (k *Kernel) Order() []*plugin.Instance {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]*plugin.Instance(nil), k.order...)
}

// Stop tears down every Active plugin in reverse activation order and
// closes the Event Bus's dispatch pool. Idempotent: calling Stop before
// Init or more than once is a no-op that returns nil.
func (k *Kernel) Stop(ctx context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.active {
		return nil
	}
	k.active = false

	stopErr := k.engine.RunStopPhase(ctx, k.order)
	if err := k.events.Close(); err != nil && stopErr == nil {
		return err
	}
	return stopErr
}
