package graph

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "github.com/UsatovPavel/RIID/internal/errors"
)

// recorder logs the order in which task bodies run.
type recorder struct {
	mu   sync.Mutex
	runs []string
}

func (r *recorder) action(name string, err error) Action {
	return func(context.Context) error {
		r.mu.Lock()
		r.runs = append(r.runs, name)
		r.mu.Unlock()
		return err
	}
}

func (r *recorder) ran() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.runs...)
}

func indexOf(list []string, s string) int {
	for i, e := range list {
		if e == s {
			return i
		}
	}
	return -1
}

func run(t *testing.T, g *Graph, workers int, tasks ...string) (*Report, error) {
	t.Helper()
	require.NoError(t, g.Validate())
	p, err := g.Plan(tasks...)
	require.NoError(t, err)
	return NewExecutor(workers).Run(testContext(), p)
}

func TestExecutor_DependenciesRunFirst(t *testing.T) {
	rec := &recorder{}
	g := New()
	g.MustAdd(
		&Task{Name: "a", Enabled: true, Action: rec.action("a", nil)},
		&Task{Name: "b", Enabled: true, DependsOn: []string{"a"}, Action: rec.action("b", nil)},
		&Task{Name: "c", Enabled: true, DependsOn: []string{"b"}, Action: rec.action("c", nil)},
	)

	report, err := run(t, g, 4, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, rec.ran())
	assert.True(t, report.Succeeded())
}

func TestExecutor_FailureStopsDependentsOnly(t *testing.T) {
	rec := &recorder{}
	boom := stderrors.New("boom")
	g := New()
	g.MustAdd(
		&Task{Name: "bad", Enabled: true, Action: rec.action("bad", boom)},
		&Task{Name: "after", Enabled: true, DependsOn: []string{"bad"}, Action: rec.action("after", nil)},
		&Task{Name: "peer", Enabled: true, Action: rec.action("peer", nil)},
		lifecycle("all", "after", "peer"),
	)

	report, err := run(t, g, 1, "all")
	require.ErrorIs(t, err, rerrors.ErrBuildFailed)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, StateFailed, report.State("bad"))
	assert.Equal(t, StateNotRun, report.State("after"))
	assert.Equal(t, StateSucceeded, report.State("peer"))
	assert.Equal(t, StateNotRun, report.State("all"))
	assert.NotContains(t, rec.ran(), "after")
	require.Len(t, report.Failures(), 1)
}

func TestExecutor_FinalizerRunsAfterFailure(t *testing.T) {
	rec := &recorder{}
	g := New()
	g.MustAdd(
		&Task{Name: "q1", Enabled: true, FinalizedBy: []string{"agg"}, Action: rec.action("q1", stderrors.New("violations"))},
		&Task{Name: "q2", Enabled: true, FinalizedBy: []string{"agg"}, Action: rec.action("q2", nil)},
		&Task{Name: "check", Enabled: true, DependsOn: []string{"q1", "q2"}, FinalizedBy: []string{"agg"}},
		&Task{Name: "agg", Enabled: true, Action: rec.action("agg", nil)},
	)

	report, err := run(t, g, 2, "check")
	require.Error(t, err)

	ran := rec.ran()
	assert.Equal(t, "agg", ran[len(ran)-1], "finalizer runs after every target")
	assert.Contains(t, ran, "q2", "peer analyzer still runs")
	assert.Equal(t, StateSucceeded, report.State("agg"))
	assert.Equal(t, StateNotRun, report.State("check"))
}

func TestExecutor_DisabledDependencyIsSatisfied(t *testing.T) {
	rec := &recorder{}
	g := New()
	g.MustAdd(
		&Task{Name: "off", Enabled: false, Action: rec.action("off", nil)},
		&Task{Name: "on", Enabled: true, DependsOn: []string{"off"}, Action: rec.action("on", nil)},
	)

	report, err := run(t, g, 2, "on")
	require.NoError(t, err)
	assert.Equal(t, []string{"on"}, rec.ran())
	assert.Equal(t, StateSkipped, report.State("off"))
}

func TestExecutor_UpToDate(t *testing.T) {
	rec := &recorder{}
	g := New()
	g.MustAdd(
		&Task{
			Name: "cached", Enabled: true,
			UpToDate: func(context.Context) (bool, error) { return true, nil },
			Action:   rec.action("cached", nil),
		},
		&Task{
			Name: "always", Enabled: true,
			UpToDate: func(context.Context) (bool, error) { return false, nil },
			Action:   rec.action("always", nil),
		},
	)

	report, err := run(t, g, 2, "cached", "always")
	require.NoError(t, err)
	assert.Equal(t, []string{"always"}, rec.ran())
	assert.Equal(t, StateUpToDate, report.State("cached"))
}

func TestExecutor_BoundedWorkers(t *testing.T) {
	var current, peak int32
	body := func(context.Context) error {
		n := atomic.AddInt32(&current, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt32(&current, -1)
		return nil
	}

	g := New()
	var names []string
	for _, n := range []string{"t1", "t2", "t3", "t4", "t5", "t6"} {
		g.MustAdd(&Task{Name: n, Enabled: true, Action: body})
		names = append(names, n)
	}

	_, err := run(t, g, 2, names...)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestExecutor_PanicBecomesFailure(t *testing.T) {
	g := New()
	g.MustAdd(&Task{Name: "p", Enabled: true, Action: func(context.Context) error { panic("oops") }})

	report, err := run(t, g, 1, "p")
	require.ErrorIs(t, err, rerrors.ErrTaskFailed)
	assert.Equal(t, StateFailed, report.State("p"))
}

func TestExecutor_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	finalizerCtxErr := make(chan error, 1)

	g := New()
	g.MustAdd(
		&Task{
			Name: "long", Enabled: true, FinalizedBy: []string{"fin"},
			Action: func(ctx context.Context) error {
				cancel()
				<-ctx.Done()
				return ctx.Err()
			},
		},
		&Task{Name: "next", Enabled: true, DependsOn: []string{"long"}, Action: func(context.Context) error { return nil }},
		&Task{
			Name: "fin", Enabled: true,
			Action: func(ctx context.Context) error {
				finalizerCtxErr <- ctx.Err()
				return nil
			},
		},
	)
	require.NoError(t, g.Validate())
	p, err := g.Plan("next")
	require.NoError(t, err)

	report, err := NewExecutor(2).Run(ctx, p)
	require.ErrorIs(t, err, rerrors.ErrOperationCanceled)

	assert.Equal(t, StateFailed, report.State("long"))
	assert.Equal(t, StateCanceled, report.State("next"))
	assert.Equal(t, StateSucceeded, report.State("fin"))
	require.NoError(t, <-finalizerCtxErr, "finalizers run on a context that is not canceled")
}

type countingObserver struct {
	started, finished atomic.Int32
}

func (o *countingObserver) TaskStarted(string)        { o.started.Add(1) }
func (o *countingObserver) TaskFinished(Result) { o.finished.Add(1) }

func TestExecutor_Observer(t *testing.T) {
	g := New()
	g.MustAdd(
		&Task{Name: "a", Enabled: true, Action: func(context.Context) error { return nil }},
		lifecycle("b", "a"),
	)
	require.NoError(t, g.Validate())
	p, err := g.Plan("b")
	require.NoError(t, err)

	obs := &countingObserver{}
	_, err = NewExecutor(1, WithObserver(obs)).Run(testContext(), p)
	require.NoError(t, err)
	assert.Equal(t, int32(1), obs.started.Load(), "lifecycle tasks do not start a body")
	assert.Equal(t, int32(2), obs.finished.Load())
}
