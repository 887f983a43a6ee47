package events

import (
	"fmt"
	"sync"

	"github.com/zernjs/kernel-sub004/concurrency"
	"github.com/zernjs/kernel-sub004/middleware"
)

// subscriberEntry pairs a handler with the id that On's disposer removes.
type subscriberEntry struct {
	id      uint64
	handler Handler
}

// eventState holds one (namespace, eventName)'s definition, subscribers,
// and startup buffer.
type eventState struct {
	def         Definition
	mu          sync.Mutex
	subscribers []subscriberEntry
	buffer      []any // FIFO of buffered/replayed payloads
	nextSubID   uint64
}

// Namespace is a handle into one partition of the event name space.
type Namespace struct {
	name   string
	bus    *Bus
	mu     sync.RWMutex
	events map[string]*eventState
	chain  middleware.Chain[Ctx]
}

func newNamespace(name string, bus *Bus) *Namespace {
	return &Namespace{
		name:   name,
		bus:    bus,
		events: make(map[string]*eventState),
	}
}

// Use appends a middleware to this namespace's onion chain.
func (n *Namespace) Use(mw middleware.Middleware[Ctx]) {
	n.chain.Use(mw)
}

// Define declares an event. Redefining an existing (ns, name) fails with
// *AlreadyDefinedError.
func (n *Namespace) Define(name string, def Definition) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, exists := n.events[name]; exists {
		return &AlreadyDefinedError{Namespace: n.name, EventName: name}
	}
	n.events[name] = &eventState{def: def}
	n.bus.emitAdapters(func(a Adapter) {
		if a.OnDefine != nil {
			a.OnDefine(n.name, name)
		}
	})
	return nil
}

func (n *Namespace) state(name string) (*eventState, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	st, ok := n.events[name]
	if !ok {
		return nil, &UnknownEventError{Namespace: n.name, EventName: name}
	}
	return st, nil
}

// On subscribes handler to name. Returns a disposer usable as off. On a
// replay-policy event of an active bus, the payloads retained during
// startup are delivered to handler, in FIFO order, before On returns.
func (n *Namespace) On(name string, handler Handler) (func(), error) {
	st, err := n.state(name)
	if err != nil {
		return nil, err
	}
	n.bus.mu.RLock()
	active := n.bus.active
	n.bus.mu.RUnlock()

	st.mu.Lock()
	id := st.nextSubID
	st.nextSubID++
	entry := subscriberEntry{id: id, handler: handler}
	st.subscribers = append(st.subscribers, entry)
	var history []any
	if active && st.def.Startup == Replay {
		history = append(history, st.buffer...)
	}
	st.mu.Unlock()

	for _, p := range history {
		n.deliverSync(name, []subscriberEntry{entry}, p)
	}

	return func() { n.off(st, id) }, nil
}

// off removes the subscription with the given id. It is reached through
// the disposer On returns; functions cannot be compared in Go, so there
// is no removal by handler value.
func (n *Namespace) off(st *eventState, id uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	for i, s := range st.subscribers {
		if s.id == id {
			st.subscribers = append(st.subscribers[:i], st.subscribers[i+1:]...)
			return
		}
	}
}

// Emit delivers payload to name's subscribers per its declared delivery
// mode and startup policy. See Definition/DeliveryMode/StartupPolicy.
func (n *Namespace) Emit(name string, payload any) error {
	st, err := n.state(name)
	if err != nil {
		return err
	}

	n.bus.mu.RLock()
	active := n.bus.active
	n.bus.mu.RUnlock()

	if !active {
		switch st.def.Startup {
		case Drop:
			return nil
		case Buffer, Replay:
			n.enqueue(st, name, payload)
			return nil
		}
	}

	n.deliver(st, name, payload)
	return nil
}

func (n *Namespace) enqueue(st *eventState, name string, payload any) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if len(st.buffer) >= n.bus.bufferCapacity {
		st.buffer = st.buffer[1:]
		n.bus.routeBufferOverflow(n.name, name)
	}
	st.buffer = append(st.buffer, payload)
}

// flushAll replays every buffered event's payloads to current subscribers
// in FIFO order, exactly once for buffer-policy events. Replay-policy
// events keep their buffer so future subscribers still receive history.
func (n *Namespace) flushAll() {
	n.mu.RLock()
	names := make([]string, 0, len(n.events))
	for name := range n.events {
		names = append(names, name)
	}
	n.mu.RUnlock()

	for _, name := range names {
		st, _ := n.state(name)
		if st.def.Startup != Buffer && st.def.Startup != Replay {
			continue
		}
		st.mu.Lock()
		payloads := append([]any(nil), st.buffer...)
		if st.def.Startup == Buffer {
			st.buffer = nil
		}
		st.mu.Unlock()

		for _, p := range payloads {
			n.deliver(st, name, p)
		}
	}
}

func (n *Namespace) deliver(st *eventState, name string, payload any) {
	n.bus.emitAdapters(func(a Adapter) {
		if a.OnEmit != nil {
			a.OnEmit(n.name, name, payload)
		}
	})

	ctx := &Ctx{Namespace: n.name, EventName: name, Payload: payload}

	err := n.chain.Run(ctx, func(ctx *Ctx) error {
		st.mu.Lock()
		subs := append([]subscriberEntry(nil), st.subscribers...)
		st.mu.Unlock()

		switch st.def.Delivery {
		case Async:
			n.deliverAsync(name, subs, ctx.Payload)
		default:
			n.deliverSync(name, subs, ctx.Payload)
		}
		return nil
	})
	if err != nil {
		n.bus.routeMiddlewareError(n.name, name, err)
	}
}

func (n *Namespace) deliverSync(name string, subs []subscriberEntry, payload any) {
	for i, s := range subs {
		func(i int, s subscriberEntry) {
			defer func() {
				if r := recover(); r != nil {
					n.bus.routeHandlerError(n.name, name, i, fmt.Errorf("%v", r))
				}
			}()
			if err := s.handler(payload); err != nil {
				n.bus.routeHandlerError(n.name, name, i, err)
			}
		}(i, s)
	}
}

// deliverAsync submits each handler to the bus's bounded worker pool in
// subscription order; handlers may settle concurrently, but buffered
// replay ordering (see flushAll) stays strictly FIFO regardless.
func (n *Namespace) deliverAsync(name string, subs []subscriberEntry, payload any) {
	for i, s := range subs {
		idx, entry := i, s
		job := concurrency.JobFunc(func() error {
			defer func() {
				if r := recover(); r != nil {
					n.bus.routeHandlerError(n.name, name, idx, fmt.Errorf("%v", r))
				}
			}()
			if err := entry.handler(payload); err != nil {
				n.bus.routeHandlerError(n.name, name, idx, err)
			}
			return nil
		})
		if err := n.bus.pool.Submit(job); err != nil {
			n.bus.routeHandlerError(n.name, name, idx, err)
		}
	}
}
