package hooks

import (
	"errors"
	"testing"

	"github.com/zernjs/kernel-sub004/kerrors"
	"github.com/zernjs/kernel-sub004/middleware"
)

func TestDefineGetEmit(t *testing.T) {
	b := NewBus(kerrors.NewBus(nil))
	p, err := b.Define("p", "boom")
	if err != nil {
		t.Fatalf("Define: %v", err)
	}
	got, err := b.Get("p.boom")
	if err != nil || got != p {
		t.Fatalf("Get: %v, %v", got, err)
	}

	var payload any
	p.On(func(v any) error { payload = v; return nil })
	if err := p.Emit("hi"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if payload != "hi" {
		t.Errorf("payload = %v, want hi", payload)
	}
}

func TestHookHandlerExceptionRouting(t *testing.T) {
	errBus := kerrors.NewBus(nil)
	b := NewBus(errBus)
	p, _ := b.Define("p", "boom")

	var gotMeta kerrors.Meta
	calls := 0
	errBus.On("hooks", "HookHandlerError", func(err *kerrors.Error, meta kerrors.Meta) {
		calls++
		gotMeta = meta
	})

	p.On(func(any) error { panic("kaboom") })
	if err := p.Emit(map[string]any{}); err != nil {
		t.Fatalf("Emit must not propagate handler panic: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 listener call, got %d", calls)
	}
	if gotMeta["eventName"] != "p.boom" {
		t.Errorf("meta eventName = %v, want p.boom", gotMeta["eventName"])
	}
}

func TestMiddlewareExceptionRouting(t *testing.T) {
	errBus := kerrors.NewBus(nil)
	b := NewBus(errBus)
	p, _ := b.Define("p", "boom")

	var gotMeta kerrors.Meta
	calls := 0
	errBus.On("hooks", "MiddlewareError", func(err *kerrors.Error, meta kerrors.Meta) {
		calls++
		gotMeta = meta
	})

	p.Use(func(ctx *Ctx, next middleware.Handler[Ctx]) error {
		return errors.New("middleware exploded")
	})
	p.On(func(any) error { return nil })

	if err := p.Emit("hi"); err != nil {
		t.Fatalf("Emit must not propagate a middleware error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 listener call, got %d", calls)
	}
	if gotMeta["eventName"] != "p.boom" {
		t.Errorf("meta eventName = %v, want p.boom", gotMeta["eventName"])
	}
}

func TestOnceFiresExactlyOnce(t *testing.T) {
	b := NewBus(kerrors.NewBus(nil))
	p, _ := b.Define("p", "once")
	count := 0
	p.Once(func(any) error { count++; return nil })
	p.Emit(nil)
	p.Emit(nil)
	if count != 1 {
		t.Errorf("once handler fired %d times, want 1", count)
	}
}

func TestOffRemovesSubscription(t *testing.T) {
	b := NewBus(kerrors.NewBus(nil))
	p, _ := b.Define("p", "ev")
	count := 0
	off := p.On(func(any) error { count++; return nil })
	p.Emit(nil)
	off()
	p.Emit(nil)
	if count != 1 {
		t.Errorf("handler fired %d times after off, want 1", count)
	}
}

func TestGetUnknownHook(t *testing.T) {
	b := NewBus(kerrors.NewBus(nil))
	_, err := b.Get("p.nope")
	if _, ok := err.(*UnknownHookError); !ok {
		t.Fatalf("expected *UnknownHookError, got %T", err)
	}
}
