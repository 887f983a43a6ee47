// Package kerrors implements the kernel's Error Bus: typed error families
// with factories, and subscription by error kind with contextual metadata.
package kerrors

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/zernjs/kernel-sub004/errors"
	"github.com/zernjs/kernel-sub004/logging"
)

// Meta is the contextual record attached to a bus-routed error.
type Meta map[string]any

// Error is a distinctly-typed error object produced by a family factory.
// It embeds the teacher's AppError so kernel errors compose with the rest
// of the ambient error-handling stack (ErrorChain, ErrorRecoverWithHandler).
type Error struct {
	*apperrors.AppError
	ID        string
	Family    string
	Kind      string
	Timestamp time.Time
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s.%s] %s", e.Family, e.Kind, e.AppError.Error())
}

// Factory builds an Error of a fixed family/kind from a cause.
type Factory func(cause error) *Error

// Listener is invoked for every emission matching a registered kind.
type Listener func(err *Error, meta Meta)

// Bus is the Error Bus: `on(kind, listener)` / `emit(err, meta)`.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	logger    logging.Logger
}

// NewBus creates an empty Error Bus. logger is used to report listener
// panics/errors; the bus never re-enters itself for a listener's own failure.
func NewBus(logger logging.Logger) *Bus {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger.Named("kerrors"),
	}
}

// DefineFamily produces a factories record: each factory accepts a cause
// and yields a distinctly-typed error carrying family, kind, message and
// a timestamp. kinds maps kind name -> human message template.
func DefineFamily(family string, kinds map[string]string) map[string]Factory {
	factories := make(map[string]Factory, len(kinds))
	for kind, message := range kinds {
		k, msg := kind, message
		factories[k] = func(cause error) *Error {
			return &Error{
				AppError:  apperrors.Wrap(cause, msg),
				ID:        uuid.NewString(),
				Family:    family,
				Kind:      k,
				Timestamp: time.Now(),
			}
		}
	}
	return factories
}

// key identifies listeners by "family.kind".
func key(family, kind string) string { return family + "." + kind }

// On attaches a listener for every emission of the given family/kind.
func (b *Bus) On(family, kind string, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	k := key(family, kind)
	b.listeners[k] = append(b.listeners[k], listener)
}

// Emit dispatches synchronously to all matching listeners. A listener
// panic or the listener itself is logged and swallowed; it can never
// propagate back to the emitter or cause a second Error Bus emission.
func (b *Bus) Emit(err *Error, meta Meta) {
	if err == nil {
		return
	}
	b.mu.RLock()
	ls := append([]Listener(nil), b.listeners[key(err.Family, err.Kind)]...)
	b.mu.RUnlock()

	for _, l := range ls {
		b.invoke(l, err, meta)
	}
}

func (b *Bus) invoke(l Listener, err *Error, meta Meta) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("error bus listener panicked for %s.%s: %v", err.Family, err.Kind, r)
		}
	}()
	l(err, meta)
}
