package events

import (
	"testing"
	"time"

	"github.com/zernjs/kernel-sub004/kerrors"
)

func newTestBus() *Bus {
	return NewBus(kerrors.NewBus(nil), nil)
}

func TestDefineAndEmitSync(t *testing.T) {
	b := newTestBus()
	defer b.Close()
	ns := b.Namespace("users")
	if err := ns.Define("created", Definition{Delivery: Sync, Startup: Drop}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	b.Activate()

	var got any
	if _, err := ns.On("created", func(p any) error { got = p; return nil }); err != nil {
		t.Fatalf("On: %v", err)
	}
	if err := ns.Emit("created", 42); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if got != 42 {
		t.Errorf("got %v, want 42", got)
	}
}

func TestRedefineFails(t *testing.T) {
	b := newTestBus()
	defer b.Close()
	ns := b.Namespace("users")
	if err := ns.Define("created", Definition{Delivery: Sync, Startup: Drop}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	err := ns.Define("created", Definition{Delivery: Sync, Startup: Drop})
	if _, ok := err.(*AlreadyDefinedError); !ok {
		t.Fatalf("expected *AlreadyDefinedError, got %T (%v)", err, err)
	}
}

func TestEmitUnknownEvent(t *testing.T) {
	b := newTestBus()
	defer b.Close()
	ns := b.Namespace("users")
	err := ns.Emit("nope", nil)
	if _, ok := err.(*UnknownEventError); !ok {
		t.Fatalf("expected *UnknownEventError, got %T", err)
	}
}

func TestHandlerPanicRoutesToErrorBus(t *testing.T) {
	errBus := kerrors.NewBus(nil)
	b := NewBus(errBus, nil)
	defer b.Close()

	var gotMeta kerrors.Meta
	errBus.On("events", "EventHandlerError", func(err *kerrors.Error, meta kerrors.Meta) {
		gotMeta = meta
	})

	ns := b.Namespace("users")
	ns.Define("created", Definition{Delivery: Sync, Startup: Drop})
	b.Activate()
	ns.On("created", func(any) error { panic("boom") })

	if err := ns.Emit("created", nil); err != nil {
		t.Fatalf("Emit must never propagate a handler panic: %v", err)
	}
	if gotMeta["eventName"] != "created" {
		t.Errorf("expected routed metadata eventName=created, got %v", gotMeta)
	}
}

func TestStartupBufferFlush(t *testing.T) {
	b := newTestBus()
	defer b.Close()
	ns := b.Namespace("users")
	ns.Define("created", Definition{Delivery: Sync, Startup: Buffer})

	ns.Emit("created", 1)
	ns.Emit("created", 2)
	ns.Emit("created", 3)

	var got []any
	ns.On("created", func(p any) error { got = append(got, p); return nil })

	b.Activate()

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3] in FIFO order", got)
	}
}

func TestAsyncDeliverySettles(t *testing.T) {
	b := newTestBus()
	defer b.Close()
	ns := b.Namespace("users")
	ns.Define("created", Definition{Delivery: Async, Startup: Drop})
	b.Activate()

	done := make(chan struct{})
	ns.On("created", func(any) error {
		close(done)
		return nil
	})
	if err := ns.Emit("created", nil); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("async handler never ran")
	}
}
