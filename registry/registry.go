// Package registry is the kernel's Plugin Registry / API Store: it holds
// plugin instances and their exposed APIs keyed by name, enforcing name
// uniqueness and Active-only API visibility.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/zernjs/kernel-sub004/plugin"
)

// Store holds plugin instances and their bound APIs, both keyed by name.
// The api map is only populated while the corresponding instance is Active.
type Store struct {
	mu        sync.RWMutex
	instances map[string]*plugin.Instance
	apis      map[string]plugin.API
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		instances: make(map[string]*plugin.Instance),
		apis:      make(map[string]plugin.API),
	}
}

// Register adds inst. Fails with *DuplicateError if the name already exists.
func (s *Store) Register(inst *plugin.Instance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := inst.Name()
	if _, exists := s.instances[name]; exists {
		return &DuplicateError{Name: name}
	}
	s.instances[name] = inst
	return nil
}

// Instance returns the registered instance for name, or *NotFoundError.
func (s *Store) Instance(name string) (*plugin.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return inst, nil
}

// All returns every registered instance, sorted by name for deterministic
// iteration (callers needing activation order should use the resolver's
// output instead).
func (s *Store) All() []*plugin.Instance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*plugin.Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// BindAPI binds api under name, only valid while the instance is
// transitioning SettingUp -> Active.
func (s *Store) BindAPI(name string, api plugin.API) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[name]
	if !ok {
		return &NotFoundError{Name: name}
	}
	if inst.State() != plugin.StateSettingUp {
		return fmt.Errorf("registry: cannot bind API for %q in state %v", name, inst.State())
	}
	s.apis[name] = api
	return nil
}

// Get returns the API bound to name. Fails with *NotActiveError if the
// instance is not Active, or *NotFoundError if the name is unknown.
func (s *Store) Get(name string) (plugin.API, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	if inst.State() != plugin.StateActive {
		return nil, &NotActiveError{Name: name, State: inst.State()}
	}
	return s.apis[name], nil
}

// Unbind removes name's API, invoked on stop; subsequent Get calls fail.
func (s *Store) Unbind(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.apis, name)
}

// DuplicateError is DuplicatePlugin.
type DuplicateError struct{ Name string }

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("plugin %q already registered", e.Name)
}

// NotFoundError is PluginNotFound.
type NotFoundError struct{ Name string }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("plugin %q not found", e.Name)
}

// NotActiveError is PluginNotActive.
type NotActiveError struct {
	Name  string
	State plugin.State
}

func (e *NotActiveError) Error() string {
	return fmt.Sprintf("plugin %q is not active (state=%v)", e.Name, e.State)
}
