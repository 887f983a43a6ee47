package resolver

import (
	"fmt"
	"strings"
)

// MissingDependencyError is MissingDependency: a non-optional dependency
// names a plugin that was never registered.
type MissingDependencyError struct {
	Plugin     string
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("plugin %q depends on unregistered plugin %q", e.Plugin, e.Dependency)
}

// VersionConflictError is VersionConflict: a dependency's actual version
// does not satisfy the consumer's declared constraint.
type VersionConflictError struct {
	Consumer   string
	Dependency string
	Constraint string
	Actual     string
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("plugin %q requires %q%s, but %s is %s", e.Consumer, e.Dependency, e.Constraint, e.Dependency, e.Actual)
}

// CircularDependencyError is CircularDependency: the dependency graph
// contains a cycle, listed in cycle order.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " -> "))
}
