package graph

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

func testContext() context.Context {
	logger := zerolog.Nop()
	return logger.WithContext(context.Background())
}

func lifecycle(name string, deps ...string) *Task {
	return &Task{Name: name, DependsOn: deps, Enabled: true}
}

func TestGraph_AddDuplicate(t *testing.T) {
	g := New()
	require.NoError(t, g.Add(lifecycle("a")))
	require.ErrorIs(t, g.Add(lifecycle("a")), rerrors.ErrDuplicateTask)
}

func TestGraph_Validate_UnknownReference(t *testing.T) {
	g := New()
	g.MustAdd(lifecycle("a", "missing"))
	require.ErrorIs(t, g.Validate(), rerrors.ErrUnknownTask)

	g = New()
	g.MustAdd(&Task{Name: "a", FinalizedBy: []string{"gone"}, Enabled: true})
	require.ErrorIs(t, g.Validate(), rerrors.ErrUnknownTask)
}

func TestGraph_Validate_Cycle(t *testing.T) {
	g := New()
	g.MustAdd(lifecycle("a", "c"), lifecycle("b", "a"), lifecycle("c", "b"))

	err := g.Validate()
	require.ErrorIs(t, err, rerrors.ErrGraphCycle)
	assert.Contains(t, err.Error(), "->")
}

func TestGraph_Validate_FinalizerCycle(t *testing.T) {
	g := New()
	// A dependency and a finalizer edge pointing the same way do not form a cycle.
	g.MustAdd(
		&Task{Name: "a", Enabled: true, DependsOn: []string{"b"}},
		&Task{Name: "b", Enabled: true, FinalizedBy: []string{"a"}},
	)
	require.NoError(t, g.Validate(), "b -> a via dependency and finalizer is the same direction")

	g = New()
	g.MustAdd(
		&Task{Name: "a", Enabled: true, FinalizedBy: []string{"b"}},
		&Task{Name: "b", Enabled: true, FinalizedBy: []string{"a"}},
	)
	require.ErrorIs(t, g.Validate(), rerrors.ErrGraphCycle)
}

func TestGraph_Plan(t *testing.T) {
	g := New()
	g.MustAdd(
		lifecycle("compile"),
		&Task{Name: "lint", Enabled: true, DependsOn: []string{"compile"}, FinalizedBy: []string{"report"}},
		lifecycle("report"),
		lifecycle("check", "lint"),
		lifecycle("unrelated"),
	)
	require.NoError(t, g.Validate())

	p, err := g.Plan("check")
	require.NoError(t, err)

	assert.Equal(t, []string{"compile", "lint", "check", "report"}, p.Order())
	assert.False(t, p.Contains("unrelated"))
	assert.True(t, p.IsFinalizer("report"))
	assert.Equal(t, []string{"lint"}, p.FinalizerTargets("report"))
	assert.Equal(t, []string{"check"}, p.Requested())
	assert.Equal(t, 4, p.Len())
}

func TestGraph_Plan_Errors(t *testing.T) {
	g := New()
	g.MustAdd(lifecycle("a"))

	_, err := g.Plan()
	require.ErrorIs(t, err, rerrors.ErrNoTasksRequested)

	_, err = g.Plan("a", "nope")
	require.ErrorIs(t, err, rerrors.ErrUnknownTask)
}

func TestState(t *testing.T) {
	for _, s := range []State{StateSucceeded, StateSkipped, StateUpToDate} {
		assert.True(t, s.Satisfied(), s)
		assert.True(t, s.Terminal(), s)
	}
	for _, s := range []State{StateFailed, StateNotRun, StateCanceled} {
		assert.False(t, s.Satisfied(), s)
		assert.True(t, s.Terminal(), s)
	}
	assert.False(t, StateRunning.Terminal())
	assert.Equal(t, "UP-TO-DATE", StateUpToDate.Label())
	assert.Equal(t, "NOT RUN", StateNotRun.Label())
}
