// Package hooks implements the kernel's Hook Bus: named (pluginName,
// hookName) points with ordered subscribers, once-semantics, and
// exception routing into the Error Bus.
package hooks

import (
	"fmt"
	"sync"

	"github.com/zernjs/kernel-sub004/kerrors"
	"github.com/zernjs/kernel-sub004/middleware"
)

// Handler processes one emitted hook payload.
type Handler func(payload any) error

// Ctx is the middleware context for one hook emission.
type Ctx struct {
	FullName string
	Payload  any
}

var familyErrors = kerrors.DefineFamily("hooks", map[string]string{
	"HookAlreadyDefined": "hook already defined",
	"UnknownHook":        "emission to an undefined hook",
	"HookHandlerError":   "hook handler threw",
	"MiddlewareError":    "middleware threw during delivery",
})

type subscriber struct {
	id      uint64
	handler Handler
	once    bool
}

// Point is one (pluginName, hookName) hook with its ordered subscribers.
type Point struct {
	fullName string
	bus      *Bus
	mu       sync.Mutex
	subs     []subscriber
	nextID   uint64
	chain    middleware.Chain[Ctx]
}

// Bus is the root Hook Bus.
type Bus struct {
	mu     sync.RWMutex
	points map[string]*Point
	errors *kerrors.Bus
}

// NewBus creates an empty Hook Bus routing handler failures to errBus.
func NewBus(errBus *kerrors.Bus) *Bus {
	return &Bus{
		points: make(map[string]*Point),
		errors: errBus,
	}
}

func fullName(pluginName, hookName string) string {
	return pluginName + "." + hookName
}

// Define reifies the (pluginName, hookName) pair as a hook Point. Fails
// with *AlreadyDefinedError if it was already defined.
func (b *Bus) Define(pluginName, hookName string) (*Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn := fullName(pluginName, hookName)
	if _, exists := b.points[fn]; exists {
		return nil, &AlreadyDefinedError{FullName: fn}
	}
	p := &Point{fullName: fn, bus: b}
	b.points[fn] = p
	return p, nil
}

// Get returns the hook Point for fullName ("pluginName.hookName").
// Fails with *UnknownHookError if it was never defined.
func (b *Bus) Get(fullName string) (*Point, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p, ok := b.points[fullName]
	if !ok {
		return nil, &UnknownHookError{FullName: fullName}
	}
	return p, nil
}

// Use appends middleware to this point's onion chain.
func (p *Point) Use(mw middleware.Middleware[Ctx]) {
	p.chain.Use(mw)
}

// On subscribes handler, executed on every future Emit. Returns a
// disposer that acts as off.
func (p *Point) On(handler Handler) func() {
	return p.subscribe(handler, false)
}

// Once subscribes handler to receive exactly the next Emit, then
// auto-unsubscribes.
func (p *Point) Once(handler Handler) func() {
	return p.subscribe(handler, true)
}

func (p *Point) subscribe(handler Handler, once bool) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs = append(p.subs, subscriber{id: id, handler: handler, once: once})
	p.mu.Unlock()
	return func() { p.off(id) }
}

func (p *Point) off(id uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.subs {
		if s.id == id {
			p.subs = append(p.subs[:i], p.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers payload to subscribers in subscription order. A handler
// throw is routed to the Error Bus as HookHandlerError and processing
// continues with the remaining subscribers. A middleware throw is
// routed to the Error Bus as MiddlewareError and never propagates to
// the caller.
func (p *Point) Emit(payload any) error {
	p.mu.Lock()
	subs := append([]subscriber(nil), p.subs...)
	var remaining []subscriber
	for _, s := range p.subs {
		if !s.once {
			remaining = append(remaining, s)
		}
	}
	p.subs = remaining
	p.mu.Unlock()

	ctx := &Ctx{FullName: p.fullName, Payload: payload}
	err := p.chain.Run(ctx, func(ctx *Ctx) error {
		for i, s := range subs {
			p.invoke(i, s, ctx.Payload)
		}
		return nil
	})
	if err != nil {
		p.bus.routeMiddlewareError(p.fullName, err)
	}
	return nil
}

func (p *Point) invoke(index int, s subscriber, payload any) {
	defer func() {
		if r := recover(); r != nil {
			p.routeError(index, fmt.Errorf("%v", r))
		}
	}()
	if err := s.handler(payload); err != nil {
		p.routeError(index, err)
	}
}

func (p *Point) routeError(handlerIndex int, cause error) {
	factory := familyErrors["HookHandlerError"]
	p.bus.errors.Emit(factory(cause), kerrors.Meta{
		"eventName":    p.fullName,
		"handlerIndex": handlerIndex,
	})
}

func (b *Bus) routeMiddlewareError(fullName string, cause error) {
	factory := familyErrors["MiddlewareError"]
	b.errors.Emit(factory(cause), kerrors.Meta{"eventName": fullName})
}

// AlreadyDefinedError is HookAlreadyDefined.
type AlreadyDefinedError struct{ FullName string }

func (e *AlreadyDefinedError) Error() string {
	return fmt.Sprintf("hook %s already defined", e.FullName)
}

// UnknownHookError is UnknownHook.
type UnknownHookError struct{ FullName string }

func (e *UnknownHookError) Error() string {
	return fmt.Sprintf("unknown hook %s", e.FullName)
}
