package graph

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/UsatovPavel/RIID/internal/clock"
	"github.com/UsatovPavel/RIID/internal/errors"
)

// Result is the outcome of one planned task.
type Result struct {
	Name     string
	State    State
	Err      error
	Start    time.Time
	Duration time.Duration
}

// Observer receives task lifecycle notifications. Methods may be called
// from multiple goroutines.
type Observer interface {
	TaskStarted(name string)
	TaskFinished(r Result)
}

type nopObserver struct{}

func (nopObserver) TaskStarted(string)  {}
func (nopObserver) TaskFinished(Result) {}

// Report collects the results of an execution.
type Report struct {
	mu      sync.Mutex
	results []Result
	byName  map[string]int
}

func newReport() *Report {
	return &Report{byName: make(map[string]int)}
}

func (r *Report) add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[res.Name] = len(r.results)
	r.results = append(r.results, res)
}

// Results returns every result in completion order.
func (r *Report) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

// Result returns the result of a task.
func (r *Report) Result(name string) (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byName[name]
	if !ok {
		return Result{}, false
	}
	return r.results[i], true
}

// State returns the state of a task, StatePending when it has no result.
func (r *Report) State(name string) State {
	if res, ok := r.Result(name); ok {
		return res.State
	}
	return StatePending
}

// Failures returns the failed tasks in completion order.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results() {
		if res.State == StateFailed {
			out = append(out, res)
		}
	}
	return out
}

// Succeeded reports whether every task reached a satisfied state.
func (r *Report) Succeeded() bool {
	for _, res := range r.Results() {
		if !res.State.Satisfied() {
			return false
		}
	}
	return true
}

// Executor runs a plan with a bounded worker pool.
type Executor struct {
	workers  int
	observer Observer
	clock    clock.Clock
}

// Option configures an Executor.
type Option func(*Executor)

// WithObserver sets the task lifecycle observer.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithClock sets the clock used for timings.
func WithClock(c clock.Clock) Option {
	return func(e *Executor) {
		if c != nil {
			e.clock = c
		}
	}
}

// NewExecutor creates an executor running at most workers task bodies at
// once. A non-positive value means runtime.NumCPU().
func NewExecutor(workers int, opts ...Option) *Executor {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	e := &Executor{workers: workers, observer: nopObserver{}, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type waiter struct {
	name       string
	dependency bool
}

// Run executes the plan. Independent tasks keep running after a failure;
// dependents of a task that did not reach a satisfied state are not run.
// Finalizers run once all of their planned targets are terminal, on a
// context that is not canceled with ctx.
//
// The returned error wraps ErrBuildFailed and the first failure's error when
// any task failed, or ErrOperationCanceled when ctx was canceled.
func (e *Executor) Run(ctx context.Context, plan *Plan) (*Report, error) {
	log := zerolog.Ctx(ctx)
	report := newReport()
	order := plan.Order()

	pending := make(map[string]int, len(order))
	doomed := make(map[string]bool)
	consumers := make(map[string][]waiter)
	for _, name := range order {
		for _, d := range plan.Dependencies(name) {
			pending[name]++
			consumers[d] = append(consumers[d], waiter{name: name, dependency: true})
		}
		for _, target := range plan.FinalizerTargets(name) {
			pending[name]++
			consumers[target] = append(consumers[target], waiter{name: name})
		}
	}

	var ready []string
	for _, name := range order {
		if pending[name] == 0 {
			ready = append(ready, name)
		}
	}

	done := make(chan Result, len(order))
	g := new(errgroup.Group)
	g.SetLimit(e.workers)

	finished := 0
	settle := func(res Result) {
		finished++
		report.add(res)
		e.observer.TaskFinished(res)
		logResult(log, res)
		for _, w := range consumers[res.Name] {
			if w.dependency && !res.State.Satisfied() {
				doomed[w.name] = true
			}
			pending[w.name]--
			if pending[w.name] == 0 {
				ready = append(ready, w.name)
			}
		}
		sort.SliceStable(ready, func(i, j int) bool {
			return plan.index[ready[i]] < plan.index[ready[j]]
		})
	}

	log.Info().Int("tasks", len(order)).Int("workers", e.workers).Msg("executing plan")

	for finished < len(order) {
		for len(ready) > 0 {
			name := ready[0]
			ready = ready[1:]
			t, _ := plan.graph.Task(name)
			finalizer := plan.IsFinalizer(name)
			now := e.clock.Now()

			switch {
			case ctx.Err() != nil && !finalizer:
				settle(Result{Name: name, State: StateCanceled, Err: ctx.Err(), Start: now})
			case doomed[name]:
				settle(Result{Name: name, State: StateNotRun, Start: now})
			case !t.Enabled:
				settle(Result{Name: name, State: StateSkipped, Start: now})
			case t.IsLifecycle():
				settle(Result{Name: name, State: StateSucceeded, Start: now})
			default:
				runCtx := ctx
				if finalizer {
					runCtx = context.WithoutCancel(ctx)
				}
				g.Go(func() error {
					done <- e.runTask(runCtx, t)
					return nil
				})
			}
		}
		if finished == len(order) {
			break
		}
		settle(<-done)
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("%w: %w", errors.ErrOperationCanceled, err)
	}
	return report, buildError(report)
}

func (e *Executor) runTask(ctx context.Context, t *Task) (res Result) {
	res = Result{Name: t.Name, Start: e.clock.Now()}
	logger := zerolog.Ctx(ctx).With().Str("task", t.Name).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			res.State = StateFailed
			res.Err = fmt.Errorf("%w: panic: %v", errors.ErrTaskFailed, r)
		}
		res.Duration = e.clock.Now().Sub(res.Start)
	}()

	if t.UpToDate != nil {
		upToDate, err := t.UpToDate(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("up-to-date check failed, running task")
		} else if upToDate {
			res.State = StateUpToDate
			return res
		}
	}

	e.observer.TaskStarted(t.Name)
	logger.Debug().Msg("task started")
	if err := t.Action(ctx); err != nil {
		res.State = StateFailed
		res.Err = err
		return res
	}
	res.State = StateSucceeded
	return res
}

func logResult(log *zerolog.Logger, res Result) {
	ev := log.Debug()
	if res.State == StateFailed {
		ev = log.Error().Err(res.Err)
	}
	ev.Str("task", res.Name).
		Str("state", string(res.State)).
		Dur("duration_ms", res.Duration).
		Msg("task finished")
}

func buildError(report *Report) error {
	if report.Succeeded() {
		return nil
	}
	failures := report.Failures()
	if len(failures) == 0 {
		return errors.ErrBuildFailed
	}
	names := make([]string, 0, len(failures))
	for _, f := range failures {
		names = append(names, f.Name)
	}
	return fmt.Errorf("%w: %s: %w", errors.ErrBuildFailed, strings.Join(names, ", "), failures[0].Err)
}
