package registry

import (
	"testing"

	"github.com/zernjs/kernel-sub004/plugin"
)

func mustInstance(t *testing.T, name, version string) *plugin.Instance {
	t.Helper()
	inst, err := plugin.NewInstance(plugin.Descriptor{Name: name, Version: version})
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	return inst
}

func TestRegisterDuplicateFails(t *testing.T) {
	s := New()
	if err := s.Register(mustInstance(t, "a", "1.0.0")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	err := s.Register(mustInstance(t, "a", "1.0.0"))
	if _, ok := err.(*DuplicateError); !ok {
		t.Fatalf("expected *DuplicateError, got %T", err)
	}
}

func TestGetOnlyVisibleWhenActive(t *testing.T) {
	s := New()
	inst := mustInstance(t, "a", "1.0.0")
	s.Register(inst)

	if _, err := s.Get("a"); err == nil {
		t.Fatal("expected error, plugin not active")
	}

	inst.SetState(plugin.StateSettingUp)
	if err := s.BindAPI("a", plugin.API{"k": 1}); err != nil {
		t.Fatalf("BindAPI: %v", err)
	}
	inst.SetState(plugin.StateActive)

	api, err := s.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if api["k"] != 1 {
		t.Errorf("api = %v", api)
	}
}

func TestUnbindMakesGetFail(t *testing.T) {
	s := New()
	inst := mustInstance(t, "a", "1.0.0")
	s.Register(inst)
	inst.SetState(plugin.StateSettingUp)
	s.BindAPI("a", plugin.API{})
	inst.SetState(plugin.StateActive)

	s.Unbind("a")
	inst.SetState(plugin.StateStopped)
	if _, err := s.Get("a"); err == nil {
		t.Fatal("expected error after unbind+stop")
	}
}

func TestGetUnknownPlugin(t *testing.T) {
	s := New()
	_, err := s.Get("nope")
	if _, ok := err.(*NotFoundError); !ok {
		t.Fatalf("expected *NotFoundError, got %T", err)
	}
}
