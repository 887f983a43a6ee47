// Package resolver implements the kernel's Order Resolver: it builds a
// dependency graph over a plugin instance set, validates version
// constraints, detects cycles, and produces a deterministic total
// activation order via a Kahn-style topological sort.
package resolver

import (
	"sort"

	"github.com/zernjs/kernel-sub004/plugin"
	"github.com/zernjs/kernel-sub004/semver"
)

// Resolve computes a total activation order for instances, honoring each
// instance's DependsOn list, version constraints, optional dependencies,
// and userOrder priority hints (caller-supplied, e.g. registration index
// or an explicit override map).
//
// Tie-break among ready nodes: higher Priority first, then higher
// userOrder[name] first, then lexicographically smaller name first.
func Resolve(instances []*plugin.Instance, userOrder map[string]int) ([]*plugin.Instance, error) {
	byName := make(map[string]*plugin.Instance, len(instances))
	for _, inst := range instances {
		byName[inst.Name()] = inst
	}

	edges, err := buildGraph(byName)
	if err != nil {
		return nil, err
	}

	if cycle := findCycle(byName, edges); cycle != nil {
		return nil, &CircularDependencyError{Cycle: cycle}
	}

	return topologicalSort(instances, byName, edges, userOrder), nil
}

// buildGraph returns, for each node name, the set of names it depends on
// (edges[consumer] = dependencies). Missing non-optional dependencies
// fail with *MissingDependencyError; missing optional ones are dropped.
// Present dependencies failing their version constraint fail with
// *VersionConflictError.
func buildGraph(byName map[string]*plugin.Instance) (map[string][]string, error) {
	edges := make(map[string][]string, len(byName))

	for name, inst := range byName {
		var deps []string
		for _, dep := range inst.Descriptor.DependsOn {
			depInst, ok := byName[dep.Name]
			if !ok {
				if dep.Optional {
					continue
				}
				return nil, &MissingDependencyError{Plugin: name, Dependency: dep.Name}
			}

			if dep.Constraint != "" {
				constraint, err := semver.ParseConstraint(dep.Constraint)
				if err != nil {
					return nil, err
				}
				if !constraint.Check(depInst.Version()) {
					return nil, &VersionConflictError{
						Consumer:   name,
						Dependency: dep.Name,
						Constraint: dep.Constraint,
						Actual:     depInst.Version().String(),
					}
				}
			}

			deps = append(deps, dep.Name)
		}
		edges[name] = deps
	}

	return edges, nil
}

// topologicalSort runs Kahn's algorithm: nodes whose remaining
// dependencies have all been emitted form the "ready frontier"; the
// tie-break picks one deterministically from that frontier each step.
func topologicalSort(instances []*plugin.Instance, byName map[string]*plugin.Instance, edges map[string][]string, userOrder map[string]int) []*plugin.Instance {
	inDegree := make(map[string]int, len(byName))
	dependents := make(map[string][]string, len(byName))

	for name, deps := range edges {
		inDegree[name] = len(deps)
		for _, dep := range deps {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var frontier []string
	for name, deg := range inDegree {
		if deg == 0 {
			frontier = append(frontier, name)
		}
	}

	less := func(a, b string) bool {
		ia, ib := byName[a], byName[b]
		if ia.Descriptor.Priority != ib.Descriptor.Priority {
			return ia.Descriptor.Priority > ib.Descriptor.Priority
		}
		if userOrder[a] != userOrder[b] {
			return userOrder[a] > userOrder[b]
		}
		return a < b
	}

	var order []*plugin.Instance
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool { return less(frontier[i], frontier[j]) })
		next := frontier[0]
		frontier = frontier[1:]

		order = append(order, byName[next])

		for _, dependent := range dependents[next] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				frontier = append(frontier, dependent)
			}
		}
	}

	for idx, inst := range order {
		inst.SetActivationIndex(idx)
		inst.SetState(plugin.StateResolved)
	}

	return order
}

// findCycle runs a DFS with a recursion stack over the dependency graph
// (consumer -> dependency edges) and returns the first cycle found, node
// names in cycle order, or nil if the graph is acyclic.
func findCycle(byName map[string]*plugin.Instance, edges map[string][]string) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(byName))
	var path []string
	var cycle []string

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		path = append(path, name)

		for _, dep := range edges[name] {
			switch color[dep] {
			case white:
				if visit(dep) {
					return true
				}
			case gray:
				cycle = cycleFrom(path, dep)
				return true
			}
		}

		path = path[:len(path)-1]
		color[name] = black
		return false
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if color[name] == white {
			if visit(name) {
				return cycle
			}
		}
	}
	return nil
}

// cycleFrom extracts the cycle portion of path starting at start.
func cycleFrom(path []string, start string) []string {
	for i, n := range path {
		if n == start {
			return append([]string(nil), path[i:]...)
		}
	}
	return path
}
