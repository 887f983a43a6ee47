package kerrors

import (
	"errors"
	"testing"
)

func TestDefineFamilyAndEmit(t *testing.T) {
	b := NewBus(nil)
	factories := DefineFamily("kernel", map[string]string{
		"SetupFailed": "plugin setup failed",
	})

	var gotMeta Meta
	var gotErr *Error
	b.On("kernel", "SetupFailed", func(err *Error, meta Meta) {
		gotErr = err
		gotMeta = meta
	})

	cause := errors.New("boom")
	b.Emit(factories["SetupFailed"](cause), Meta{"pluginName": "audit"})

	if gotErr == nil {
		t.Fatal("listener was not invoked")
	}
	if gotErr.Family != "kernel" || gotErr.Kind != "SetupFailed" {
		t.Errorf("got family=%s kind=%s", gotErr.Family, gotErr.Kind)
	}
	if gotMeta["pluginName"] != "audit" {
		t.Errorf("meta = %v", gotMeta)
	}
}

func TestListenerPanicIsSwallowed(t *testing.T) {
	b := NewBus(nil)
	factories := DefineFamily("kernel", map[string]string{"SetupFailed": "x"})
	b.On("kernel", "SetupFailed", func(*Error, Meta) { panic("listener exploded") })

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Emit must not propagate a listener panic: %v", r)
		}
	}()
	b.Emit(factories["SetupFailed"](errors.New("cause")), nil)
}

func TestUnmatchedKindNoListenersInvoked(t *testing.T) {
	b := NewBus(nil)
	factories := DefineFamily("kernel", map[string]string{"A": "a", "B": "b"})
	called := false
	b.On("kernel", "A", func(*Error, Meta) { called = true })
	b.Emit(factories["B"](errors.New("x")), nil)
	if called {
		t.Error("listener for kind A should not fire for kind B")
	}
}
