// Package events implements the kernel's Event Bus: namespaced event
// definitions, sync/async delivery, startup buffering, middleware, and
// adapter notification.
package events

import (
	"fmt"
	"sync"

	"github.com/zernjs/kernel-sub004/concurrency"
	"github.com/zernjs/kernel-sub004/kerrors"
	"github.com/zernjs/kernel-sub004/logging"
)

// DeliveryMode controls whether handlers complete before emit returns.
type DeliveryMode string

const (
	Sync  DeliveryMode = "sync"
	Async DeliveryMode = "async"
)

// StartupPolicy controls how emissions before the kernel is Active are handled.
type StartupPolicy string

const (
	Drop    StartupPolicy = "drop"
	Buffer  StartupPolicy = "buffer"
	Replay  StartupPolicy = "replay"
)

// Definition is an event's declared delivery mode and startup policy.
type Definition struct {
	Delivery DeliveryMode
	Startup  StartupPolicy
}

// Handler processes one emitted payload.
type Handler func(payload any) error

// Ctx is the middleware context for one emission: the event identity and
// its mutable payload.
type Ctx struct {
	Namespace string
	EventName string
	Payload   any
}

var familyErrors = kerrors.DefineFamily("events", map[string]string{
	"EventAlreadyDefined": "event already defined",
	"UnknownEvent":        "emission to an undefined event",
	"EventHandlerError":   "event handler threw",
	"EventBufferOverflow": "startup buffer overflowed, oldest entry dropped",
	"AdapterError":        "adapter observer threw",
	"MiddlewareError":     "middleware threw during delivery",
})

// Adapter observes bus activity for integration with external reactive
// libraries. Adapters are pure observers and may not block delivery.
type Adapter struct {
	Name     string
	OnDefine func(namespace, eventName string)
	OnEmit   func(namespace, eventName string, payload any)
}

const defaultBufferCapacity = 64

// Bus is the root Event Bus: a set of namespaces plus shared infrastructure.
type Bus struct {
	mu             sync.RWMutex
	namespaces     map[string]*Namespace
	errors         *kerrors.Bus
	logger         logging.Logger
	pool           *concurrency.WorkerPool
	adapters       []Adapter
	bufferCapacity int
	active         bool
}

// Option configures a Bus at construction time.
type Option func(*Bus)

// WithBufferCapacity overrides the default startup-buffer capacity (64).
func WithBufferCapacity(n int) Option {
	return func(b *Bus) { b.bufferCapacity = n }
}

// NewBus creates an Event Bus routing handler/middleware/adapter failures
// to errBus and dispatching async handlers through a bounded worker pool.
func NewBus(errBus *kerrors.Bus, logger logging.Logger, opts ...Option) *Bus {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	b := &Bus{
		namespaces:     make(map[string]*Namespace),
		errors:         errBus,
		logger:         logger.Named("events"),
		bufferCapacity: defaultBufferCapacity,
	}
	for _, opt := range opts {
		opt(b)
	}
	pool := concurrency.NewWorkerPool(8)
	pool.Start()
	b.pool = pool
	// Async handler results are surfaced via Error Bus routing, not the
	// result channel, so drain it continuously to keep Submit from
	// blocking once the worker pool's result buffer fills.
	go func() {
		for range pool.GetResults() {
		}
	}()
	return b
}

// RegisterAdapter attaches an adapter notified at OnDefine/OnEmit.
func (b *Bus) RegisterAdapter(a Adapter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adapters = append(b.adapters, a)
}

// Namespace returns (creating if necessary) the handle for ns.
func (b *Bus) Namespace(ns string) *Namespace {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n, ok := b.namespaces[ns]; ok {
		return n
	}
	n := newNamespace(ns, b)
	b.namespaces[ns] = n
	return n
}

// Activate flushes every namespace's startup buffers to current
// subscribers and marks the bus live: buffer-policy events stop
// buffering new emissions (they deliver immediately from now on) while
// replay-policy events keep the payloads retained during startup and hand
// them to each later subscriber (see Namespace.On). Emissions after
// activation are delivered immediately and are not retained.
func (b *Bus) Activate() {
	b.mu.Lock()
	b.active = true
	nss := make([]*Namespace, 0, len(b.namespaces))
	for _, n := range b.namespaces {
		nss = append(nss, n)
	}
	b.mu.Unlock()

	for _, n := range nss {
		n.flushAll()
	}
}

// Close stops the async dispatch pool. Safe to call once.
func (b *Bus) Close() error {
	return b.pool.Stop()
}

func (b *Bus) emitAdapters(fn func(a Adapter)) {
	b.mu.RLock()
	adapters := append([]Adapter(nil), b.adapters...)
	b.mu.RUnlock()

	for _, a := range adapters {
		func(a Adapter) {
			defer func() {
				if r := recover(); r != nil {
					b.routeAdapterError(a.Name, fmt.Errorf("%v", r))
				}
			}()
			fn(a)
		}(a)
	}
}

func (b *Bus) routeHandlerError(ns, eventName string, handlerIndex int, cause error) {
	factory := familyErrors["EventHandlerError"]
	b.errors.Emit(factory(cause), kerrors.Meta{
		"namespace":    ns,
		"eventName":    eventName,
		"handlerIndex": handlerIndex,
	})
}

func (b *Bus) routeAdapterError(adapterName string, cause error) {
	factory := familyErrors["AdapterError"]
	b.errors.Emit(factory(cause), kerrors.Meta{"adapter": adapterName})
}

func (b *Bus) routeMiddlewareError(ns, eventName string, cause error) {
	factory := familyErrors["MiddlewareError"]
	b.errors.Emit(factory(cause), kerrors.Meta{"namespace": ns, "eventName": eventName})
}

func (b *Bus) routeBufferOverflow(ns, eventName string) {
	factory := familyErrors["EventBufferOverflow"]
	b.errors.Emit(factory(fmt.Errorf("buffer overflow for %s.%s", ns, eventName)), kerrors.Meta{
		"namespace": ns,
		"eventName": eventName,
	})
}
