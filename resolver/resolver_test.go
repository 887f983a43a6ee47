package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zernjs/kernel-sub004/plugin"
)

func inst(t *testing.T, name, version string, priority int, deps ...plugin.Dependency) *plugin.Instance {
	t.Helper()
	i, err := plugin.NewInstance(plugin.Descriptor{
		Name: name, Version: version, Priority: priority, DependsOn: deps,
	})
	require.NoError(t, err, "NewInstance(%s)", name)
	return i
}

func names(insts []*plugin.Instance) []string {
	out := make([]string, len(insts))
	for i, ins := range insts {
		out[i] = ins.Name()
	}
	return out
}

// Scenario 1: order under priority.
func TestOrderUnderPriority(t *testing.T) {
	a := inst(t, "A", "1.0.0", 0)
	b := inst(t, "B", "1.0.0", 0, plugin.Dependency{Name: "A"})
	c := inst(t, "C", "1.0.0", 10)

	order, err := Resolve([]*plugin.Instance{a, b, c}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"C", "A", "B"}, names(order))
}

// Scenario 2: cycle detection.
func TestCycleDetection(t *testing.T) {
	a := inst(t, "A", "1.0.0", 0, plugin.Dependency{Name: "B"})
	b := inst(t, "B", "1.0.0", 0, plugin.Dependency{Name: "C"})
	c := inst(t, "C", "1.0.0", 0, plugin.Dependency{Name: "A"})

	_, err := Resolve([]*plugin.Instance{a, b, c}, nil)
	cycErr, ok := err.(*CircularDependencyError)
	require.True(t, ok, "expected *CircularDependencyError, got %T (%v)", err, err)
	require.Len(t, cycErr.Cycle, 3)
}

// Scenario 3: version conflict.
func TestVersionConflict(t *testing.T) {
	a := inst(t, "A", "1.0.0", 0)
	b := inst(t, "B", "1.0.0", 0, plugin.Dependency{Name: "A", Constraint: "^2.0.0"})

	_, err := Resolve([]*plugin.Instance{a, b}, nil)
	vc, ok := err.(*VersionConflictError)
	require.True(t, ok, "expected *VersionConflictError, got %T (%v)", err, err)
	require.Equal(t, "B", vc.Consumer)
	require.Equal(t, "A", vc.Dependency)
	require.Equal(t, "^2.0.0", vc.Constraint)
	require.Equal(t, "1.0.0", vc.Actual)
}

func TestMissingDependency(t *testing.T) {
	a := inst(t, "A", "1.0.0", 0, plugin.Dependency{Name: "ghost"})
	_, err := Resolve([]*plugin.Instance{a}, nil)
	_, ok := err.(*MissingDependencyError)
	require.True(t, ok, "expected *MissingDependencyError, got %T", err)
}

func TestOptionalMissingDependencyDropped(t *testing.T) {
	a := inst(t, "A", "1.0.0", 0, plugin.Dependency{Name: "ghost", Optional: true})
	order, err := Resolve([]*plugin.Instance{a}, nil)
	require.NoError(t, err)
	require.Len(t, order, 1)
}

func TestResolveIsPermutationAndDeterministic(t *testing.T) {
	a := inst(t, "A", "1.0.0", 0)
	b := inst(t, "B", "1.0.0", 0, plugin.Dependency{Name: "A"})
	c := inst(t, "C", "1.0.0", 0, plugin.Dependency{Name: "A"})
	d := inst(t, "D", "1.0.0", 0, plugin.Dependency{Name: "B"}, plugin.Dependency{Name: "C"})

	order1, err := Resolve([]*plugin.Instance{d, c, b, a}, nil)
	require.NoError(t, err)

	a2 := inst(t, "A", "1.0.0", 0)
	b2 := inst(t, "B", "1.0.0", 0, plugin.Dependency{Name: "A"})
	c2 := inst(t, "C", "1.0.0", 0, plugin.Dependency{Name: "A"})
	d2 := inst(t, "D", "1.0.0", 0, plugin.Dependency{Name: "B"}, plugin.Dependency{Name: "C"})
	order2, err := Resolve([]*plugin.Instance{d2, c2, b2, a2}, nil)
	require.NoError(t, err)

	require.Len(t, order1, 4)
	g1, g2 := names(order1), names(order2)
	require.Equal(t, g1, g2, "resolution must be deterministic")

	pos := map[string]int{}
	for i, n := range g1 {
		pos[n] = i
	}
	require.True(t, pos["A"] < pos["B"] && pos["A"] < pos["C"] && pos["B"] < pos["D"] && pos["C"] < pos["D"],
		"dependency ordering violated: %v", g1)
}
