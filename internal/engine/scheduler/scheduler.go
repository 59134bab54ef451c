// Package scheduler runs the tasks of a dependency graph with bounded parallelism.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusCompleted indicates the task has finished successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
	// StatusSkipped indicates the task never started because the run stopped early.
	StatusSkipped TaskStatus = "Skipped"
)

// Scheduler manages the execution of tasks in a dependency graph.
type Scheduler struct {
	executor ports.Executor
	tracer   ports.Tracer

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]TaskStatus
}

// NewScheduler creates a new Scheduler.
func NewScheduler(executor ports.Executor, tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		executor:   executor,
		tracer:     tracer,
		taskStatus: make(map[domain.InternedString]TaskStatus),
	}
}

func (s *Scheduler) initTaskStatuses(tasks map[domain.InternedString]domain.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taskStatus = make(map[domain.InternedString]TaskStatus, len(tasks))
	for name := range tasks {
		s.taskStatus[name] = StatusPending
	}
}

func (s *Scheduler) updateStatus(name domain.InternedString, status TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

// Statuses returns the status of every task of the last run, keyed by name.
func (s *Scheduler) Statuses() map[string]TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make(map[string]TaskStatus, len(s.taskStatus))
	for name, status := range s.taskStatus {
		statuses[name.String()] = status
	}
	return statuses
}

// Run executes the targets of a validated graph together with everything they
// depend on. An empty target list runs the whole graph. A task starts once all
// of its dependencies completed; after the first failure or cancellation no
// further task starts, and Run returns once the running tasks finished.
func (s *Scheduler) Run(ctx context.Context, graph *domain.Graph, targets []string, parallelism int) error {
	tasks, err := selectTasks(graph, targets)
	if err != nil {
		return err
	}
	if parallelism < 1 {
		parallelism = 1
	}

	s.initTaskStatuses(tasks)
	s.emitPlan(ctx, graph, tasks, targets)

	state := s.newRunState(ctx, graph, tasks, parallelism)
	for !state.isDone() {
		state.schedule()
		if state.isDone() {
			break
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
			state.stop()
			if state.active > 0 {
				state.handleResult(<-state.resultsCh)
			}
		}
	}

	state.markSkipped()

	if err := ctx.Err(); err != nil {
		state.errs = errors.Join(state.errs, err)
	}
	return state.errs
}

// selectTasks returns the targets and their transitive dependencies.
func selectTasks(graph *domain.Graph, targets []string) (map[domain.InternedString]domain.Task, error) {
	tasks := make(map[domain.InternedString]domain.Task, graph.TaskCount())
	if len(targets) == 0 {
		for task := range graph.Walk() {
			tasks[task.Name] = task
		}
		return tasks, nil
	}

	var visit func(name domain.InternedString) error
	visit = func(name domain.InternedString) error {
		if _, ok := tasks[name]; ok {
			return nil
		}
		task, ok := graph.GetTask(name)
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrTaskNotFound, "unknown target"), "task", name.String())
		}
		tasks[name] = task
		for _, dep := range task.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}
	for _, target := range targets {
		if err := visit(domain.NewInternedString(target)); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *Scheduler) emitPlan(
	ctx context.Context,
	graph *domain.Graph,
	tasks map[domain.InternedString]domain.Task,
	targets []string,
) {
	names := make([]string, 0, len(tasks))
	deps := make(map[string][]string, len(tasks))
	for task := range graph.Walk() {
		if _, ok := tasks[task.Name]; !ok {
			continue
		}
		names = append(names, task.Name.String())
		deps[task.Name.String()] = domain.Strings(task.Dependencies)
	}
	if len(targets) == 0 {
		targets = names
	}
	s.tracer.EmitPlan(ctx, names, deps, targets)
}

type result struct {
	task domain.InternedString
	err  error
}

type runState struct {
	s           *Scheduler
	ctx         context.Context
	graph       *domain.Graph
	tasks       map[domain.InternedString]domain.Task
	inDegree    map[domain.InternedString]int
	ready       []domain.InternedString
	started     map[domain.InternedString]bool
	active      int
	parallelism int
	failed      bool
	resultsCh   chan result
	errs        error
}

func (s *Scheduler) newRunState(
	ctx context.Context,
	graph *domain.Graph,
	tasks map[domain.InternedString]domain.Task,
	parallelism int,
) *runState {
	inDegree := make(map[domain.InternedString]int, len(tasks))
	var ready []domain.InternedString

	// Walk yields the execution order, so the ready queue starts in it.
	for task := range graph.Walk() {
		if _, ok := tasks[task.Name]; !ok {
			continue
		}
		inDegree[task.Name] = len(task.Dependencies)
		if len(task.Dependencies) == 0 {
			ready = append(ready, task.Name)
		}
	}

	return &runState{
		s:           s,
		ctx:         ctx,
		graph:       graph,
		tasks:       tasks,
		inDegree:    inDegree,
		ready:       ready,
		started:     make(map[domain.InternedString]bool, len(tasks)),
		parallelism: parallelism,
		resultsCh:   make(chan result, parallelism),
	}
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

// stop drops every task that has not started yet.
func (state *runState) stop() {
	state.ready = nil
}

func (state *runState) schedule() {
	if state.failed || state.ctx.Err() != nil {
		state.stop()
		return
	}

	for len(state.ready) > 0 && state.active < state.parallelism {
		name := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.started[name] = true
		state.s.updateStatus(name, StatusRunning)

		task := state.tasks[name]
		go func() {
			state.resultsCh <- result{task: task.Name, err: state.execute(&task)}
		}()
	}
}

func (state *runState) execute(task *domain.Task) error {
	ctx, span := state.s.tracer.Start(state.ctx, task.Name.String(),
		ports.WithAttribute(ports.TaskAttribute, task.Name.String()),
		ports.WithAttribute("dependencies", len(task.Dependencies)),
	)
	defer span.End()

	err := state.s.executor.Execute(ctx, task, span)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (state *runState) handleResult(res result) {
	state.active--
	if res.err != nil {
		err := zerr.With(zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()), "task", res.task.String())
		state.errs = errors.Join(state.errs, err)
		state.failed = true
		state.s.updateStatus(res.task, StatusFailed)
		return
	}

	state.s.updateStatus(res.task, StatusCompleted)
	for _, dep := range state.graph.Dependents(res.task) {
		if _, ok := state.inDegree[dep]; !ok {
			continue
		}
		state.inDegree[dep]--
		if state.inDegree[dep] == 0 {
			state.ready = append(state.ready, dep)
		}
	}
}

func (state *runState) markSkipped() {
	for name := range state.tasks {
		if !state.started[name] {
			state.s.updateStatus(name, StatusSkipped)
		}
	}
}
