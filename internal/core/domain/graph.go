// Package domain contains the core domain models of the asset pipeline:
// the path tree, tasks, the task graph and watch bindings.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks.
type Graph struct {
	tasks          map[InternedString]Task
	executionOrder []InternedString
	dependents     map[InternedString][]InternedString
	ancestors      map[InternedString]map[InternedString]bool
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks: make(map[InternedString]Task),
	}
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(zerr.Wrap(ErrTaskAlreadyExists, "cannot add task"), "task_name", t.Name.String())
	}
	g.tasks[t.Name] = *t
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Validate checks for missing dependencies and cycles using a topological sort,
// then rejects overlapping outputs between tasks that may run concurrently.
// It populates the execution order used by Walk.
func (g *Graph) Validate() error {
	g.executionOrder = make([]InternedString, 0, len(g.tasks))
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		task := g.tasks[u]
		for _, dep := range task.Dependencies {
			if _, exists := g.tasks[dep]; !exists {
				err := zerr.Wrap(ErrMissingDependency, "invalid task graph")
				err = zerr.With(err, "task", u.String())
				return zerr.With(err, "missing_dependency", dep.String())
			}
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		g.executionOrder = append(g.executionOrder, u)
		return nil
	}

	for _, name := range g.sortedNames() {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	g.indexDependents()
	g.indexAncestors()

	return g.checkOutputs()
}

func (g *Graph) sortedNames() []InternedString {
	names := make([]InternedString, 0, len(g.tasks))
	for name := range g.tasks {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})
	return names
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := -1
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(zerr.Wrap(ErrCycleDetected, "invalid task graph"), "cycle", cyclePath)
}

func (g *Graph) indexDependents() {
	g.dependents = make(map[InternedString][]InternedString, len(g.tasks))
	for _, name := range g.executionOrder {
		for _, dep := range g.tasks[name].Dependencies {
			g.dependents[dep] = append(g.dependents[dep], name)
		}
	}
}

// indexAncestors records the transitive dependencies of every task.
// executionOrder lists dependencies before dependents.
func (g *Graph) indexAncestors() {
	g.ancestors = make(map[InternedString]map[InternedString]bool, len(g.tasks))
	for _, name := range g.executionOrder {
		set := make(map[InternedString]bool)
		for _, dep := range g.tasks[name].Dependencies {
			set[dep] = true
			for a := range g.ancestors[dep] {
				set[a] = true
			}
		}
		g.ancestors[name] = set
	}
}

// Ordered reports whether one of the two tasks transitively depends on the other.
// Tasks that are not ordered may run concurrently.
func (g *Graph) Ordered(a, b InternedString) bool {
	return g.ancestors[a][b] || g.ancestors[b][a]
}

func (g *Graph) checkOutputs() error {
	order := g.executionOrder
	for i := range order {
		for j := i + 1; j < len(order); j++ {
			a, b := order[i], order[j]
			if g.Ordered(a, b) {
				continue
			}
			if err := g.checkPair(a, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) checkPair(a, b InternedString) error {
	for _, outA := range g.tasks[a].Outputs {
		for _, outB := range g.tasks[b].Outputs {
			overlap, err := outA.Overlaps(outB)
			if err != nil {
				return zerr.With(err, "task", a.String())
			}
			if overlap {
				err := zerr.Wrap(ErrOverlappingOutputs, "invalid task graph")
				err = zerr.With(err, "tasks", a.String()+", "+b.String())
				return zerr.With(err, "outputs", outA.Dir+", "+outB.Dir)
			}
		}
	}
	return nil
}

// Dependents returns the tasks that directly depend on name.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Subgraph returns a validated graph holding only the named tasks.
// Dependencies on tasks outside the selection are dropped, so a watch
// rebuild of "copy-images" runs "svg-optimize" first but never "clean".
func (g *Graph) Subgraph(names []InternedString) (*Graph, error) {
	keep := make(map[InternedString]bool, len(names))
	for _, name := range names {
		if _, ok := g.tasks[name]; !ok {
			return nil, zerr.With(zerr.Wrap(ErrTaskNotFound, "invalid subgraph"), "task", name.String())
		}
		keep[name] = true
	}

	sub := NewGraph()
	for _, name := range names {
		task := g.tasks[name]
		deps := make([]InternedString, 0, len(task.Dependencies))
		for _, dep := range task.Dependencies {
			if keep[dep] {
				deps = append(deps, dep)
			}
		}
		task.Dependencies = deps
		if err := sub.AddTask(&task); err != nil {
			return nil, err
		}
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	return sub, nil
}
