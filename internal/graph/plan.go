package graph

import (
	"sort"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// Plan is the subset of a graph scheduled for one invocation: the requested
// tasks, their transitive dependencies, and every finalizer of a planned task.
type Plan struct {
	graph     *Graph
	requested []string
	order     []string
	index     map[string]int
	deps      map[string][]string
	finalizes map[string][]string
}

// Plan computes the execution plan for the requested task names.
// Unknown names return ErrUnknownTask.
func (g *Graph) Plan(requested ...string) (*Plan, error) {
	if len(requested) == 0 {
		return nil, errors.ErrNoTasksRequested
	}
	for _, name := range requested {
		if _, ok := g.tasks[name]; !ok {
			return nil, errors.Wrapf(errors.ErrUnknownTask, "%q", name)
		}
	}

	included := make(map[string]bool)
	queue := append([]string(nil), requested...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if included[name] {
			continue
		}
		included[name] = true
		t := g.tasks[name]
		queue = append(queue, t.DependsOn...)
		queue = append(queue, t.FinalizedBy...)
	}

	names := make([]string, 0, len(included))
	for n := range included {
		names = append(names, n)
	}
	sort.Strings(names)

	p := &Plan{
		graph:     g,
		requested: append([]string(nil), requested...),
		deps:      make(map[string][]string),
		finalizes: make(map[string][]string),
	}

	idx := make(map[string]int, len(names))
	for i, n := range names {
		idx[n] = i
	}
	outgoing := make([][]int, len(names))
	for i, n := range names {
		t := g.tasks[n]
		for _, d := range t.DependsOn {
			p.deps[n] = appendUnique(p.deps[n], d)
			outgoing[idx[d]] = append(outgoing[idx[d]], i)
		}
		for _, f := range t.FinalizedBy {
			p.finalizes[f] = appendUnique(p.finalizes[f], n)
			outgoing[i] = append(outgoing[i], idx[f])
		}
	}
	for i := range outgoing {
		sort.Ints(outgoing[i])
	}

	order := topoOrder(outgoing)
	if len(order) != len(names) {
		return nil, errors.ErrGraphCycle
	}
	p.index = make(map[string]int, len(order))
	for pos, i := range order {
		p.order = append(p.order, names[i])
		p.index[names[i]] = pos
	}
	for f := range p.finalizes {
		sort.Strings(p.finalizes[f])
	}
	return p, nil
}

func appendUnique(list []string, s string) []string {
	for _, e := range list {
		if e == s {
			return list
		}
	}
	return append(list, s)
}

// Graph returns the graph the plan was computed from.
func (p *Plan) Graph() *Graph { return p.graph }

// Requested returns the task names given on the command line.
func (p *Plan) Requested() []string { return append([]string(nil), p.requested...) }

// Order returns every planned task in a deterministic topological order.
func (p *Plan) Order() []string { return append([]string(nil), p.order...) }

// Len returns the number of planned tasks.
func (p *Plan) Len() int { return len(p.order) }

// Contains reports whether name is planned.
func (p *Plan) Contains(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Dependencies returns the direct dependencies of name.
func (p *Plan) Dependencies(name string) []string { return p.deps[name] }

// FinalizerTargets returns the planned tasks that name finalizes.
func (p *Plan) FinalizerTargets(name string) []string { return p.finalizes[name] }

// IsFinalizer reports whether name runs as a finalizer in this plan.
func (p *Plan) IsFinalizer(name string) bool { return len(p.finalizes[name]) > 0 }
