package graph

import (
	"container/heap"
	"sort"
	"strings"

	"github.com/UsatovPavel/RIID/internal/errors"
)

// Graph is the set of tasks known to an invocation. It is built once and
// not modified after Validate.
type Graph struct {
	tasks map[string]*Task
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{tasks: make(map[string]*Task)}
}

// Add registers a task.
func (g *Graph) Add(t *Task) error {
	if t == nil || t.Name == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "task must have a name")
	}
	if _, exists := g.tasks[t.Name]; exists {
		return errors.Wrapf(errors.ErrDuplicateTask, "%q", t.Name)
	}
	g.tasks[t.Name] = t
	return nil
}

// MustAdd registers tasks and panics on a duplicate. It is meant for graph
// assembly code where a duplicate is a programming error.
func (g *Graph) MustAdd(tasks ...*Task) {
	for _, t := range tasks {
		if err := g.Add(t); err != nil {
			panic(err)
		}
	}
}

// Task returns a registered task.
func (g *Graph) Task(name string) (*Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// Names returns every task name in lexical order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.tasks))
	for n := range g.tasks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every edge names a registered task and that the
// dependency and finalizer edges together form no cycle.
func (g *Graph) Validate() error {
	names := g.Names()
	for _, n := range names {
		t := g.tasks[n]
		for _, d := range t.DependsOn {
			if _, ok := g.tasks[d]; !ok {
				return errors.Wrapf(errors.ErrUnknownTask, "%q depends on %q", n, d)
			}
		}
		for _, f := range t.FinalizedBy {
			if _, ok := g.tasks[f]; !ok {
				return errors.Wrapf(errors.ErrUnknownTask, "%q is finalized by %q", n, f)
			}
		}
	}

	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	outgoing := make([][]int, len(names))
	for i, n := range names {
		t := g.tasks[n]
		for _, d := range t.DependsOn {
			outgoing[index[d]] = append(outgoing[index[d]], i)
		}
		for _, f := range t.FinalizedBy {
			outgoing[i] = append(outgoing[i], index[f])
		}
	}
	for i := range outgoing {
		sort.Ints(outgoing[i])
	}

	if order := topoOrder(outgoing); len(order) != len(names) {
		cycle := findCycle(outgoing, names)
		return errors.Wrap(errors.ErrGraphCycle, strings.Join(cycle, " -> "))
	}
	return nil
}

type intMinHeap []int

func (h intMinHeap) Len() int           { return len(h) }
func (h intMinHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h intMinHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *intMinHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *intMinHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoOrder returns a deterministic topological order of node indices using
// Kahn's algorithm with a min-heap ready queue. Nodes on a cycle are omitted.
func topoOrder(outgoing [][]int) []int {
	indeg := make([]int, len(outgoing))
	for _, targets := range outgoing {
		for _, m := range targets {
			indeg[m]++
		}
	}

	ready := &intMinHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}

	out := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		out = append(out, n)
		for _, m := range outgoing[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return out
}

// findCycle extracts one cycle as a closed path of names, e.g. [a b a].
func findCycle(outgoing [][]int, names []string) []string {
	const (
		white = iota
		gray
		black
	)
	color := make([]int, len(outgoing))
	parent := make([]int, len(outgoing))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var dfs func(u int) bool
	dfs = func(u int) bool {
		color[u] = gray
		for _, v := range outgoing[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				cycle = append(cycle, v)
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}

	for i := range outgoing {
		if color[i] == white && dfs(i) {
			break
		}
	}

	out := make([]string, 0, len(cycle))
	for i := len(cycle) - 1; i >= 0; i-- {
		out = append(out, names[cycle[i]])
	}
	return out
}
