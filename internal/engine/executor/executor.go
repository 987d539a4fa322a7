// Package executor implements the incremental, parallel task-graph
// execution engine. Dependencies between tasks are not declared: they
// are discovered by matching each task's input paths against the
// output paths of every other task.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/bob/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// TaskStatus represents the status of a task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting to be executed.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is currently executing.
	StatusRunning TaskStatus = "Running"
	// StatusSkipped indicates the task's action was not run because no input changed.
	StatusSkipped TaskStatus = "Skipped"
	// StatusCompleted indicates the task's action ran successfully.
	StatusCompleted TaskStatus = "Completed"
	// StatusFailed indicates the task execution failed.
	StatusFailed TaskStatus = "Failed"
)

// Options configure one build invocation.
type Options struct {
	// Parallelism is the worker count; zero means runtime.NumCPU().
	Parallelism int

	// Verbose logs the discovered task list before execution starts.
	Verbose bool
}

// Executor drives the execution of a task set.
type Executor struct {
	runner  ports.Runner
	snap    ports.Snapshotter
	logs    ports.BuildLogOpener
	tracer  ports.Tracer
	logger  ports.Logger

	mu     sync.RWMutex
	status map[int]TaskStatus
}

// New creates a new Executor with the given collaborators.
func New(
	runner ports.Runner,
	snap ports.Snapshotter,
	logs ports.BuildLogOpener,
	tracer ports.Tracer,
	logger ports.Logger,
) *Executor {
	return &Executor{
		runner: runner,
		snap:   snap,
		logs:   logs,
		tracer: tracer,
		logger: logger,
		status: make(map[int]TaskStatus),
	}
}

// Execute runs every task reachable from root, in dependency order,
// skipping tasks whose inputs are unchanged since the state recorded
// in the build log at logPath. Tasks not reachable from root are never
// scheduled. On success the log is compacted and persisted for the
// next invocation.
//
// The first task failure cancels the run: in-flight tasks finish,
// nothing new starts, and the joined errors are returned.
func (e *Executor) Execute(
	ctx context.Context,
	set *domain.TaskSet,
	rootID int,
	logPath string,
	opts Options,
) error {
	plan, err := discover(set, rootID)
	if err != nil {
		return err
	}

	log, err := e.logs.Open(logPath)
	if err != nil {
		return err
	}
	defer log.Close() //nolint:errcheck // aborted runs keep the appended partial log

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}

	e.initTaskStatuses(plan)

	names := plan.displayNames()
	e.tracer.EmitPlan(ctx, names)
	if opts.Verbose {
		for i, name := range names {
			e.logger.Info(fmt.Sprintf("plan %d/%d: %s", i+1, len(names), name))
		}
	}

	state := e.newRunState(ctx, plan, log, parallelism)
	defer state.cancel()

	if err := state.runExecutionLoop(); err != nil {
		return err
	}

	if err := log.Compact(); err != nil {
		return err
	}

	e.logger.Info(fmt.Sprintf("Build finished: %d executed, %d up to date", state.completed, state.skipped))
	return nil
}

// initTaskStatuses marks every planned task Pending. The map is
// rebuilt per run so a reused executor never reports statuses from an
// earlier invocation.
func (e *Executor) initTaskStatuses(plan *plan) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status = make(map[int]TaskStatus, len(plan.tasks))
	for id := range plan.tasks {
		e.status[id] = StatusPending
	}
}

// updateStatus updates the status of a task.
func (e *Executor) updateStatus(id int, status TaskStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status[id] = status
}

// getStatus retrieves the status of a task.
func (e *Executor) getStatus(id int) TaskStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status[id]
}

type result struct {
	id      int
	err     error
	skipped bool
}

type runState struct {
	e           *Executor
	ctx         context.Context
	cancel      context.CancelFunc
	log         ports.BuildLog
	plan        *plan
	inDegree    map[int]int
	ready       []int
	active      int
	resultsCh   chan result
	errs        error
	parallelism int
	completed   int
	skipped     int

	inputsMu sync.Mutex
	inputs   map[string]*inputState
}

// inputState holds the once-per-run change verdict for one input path.
// The decision compares the snapshot against the log entry recorded by
// the previous run; once the entry is refreshed, later consumers of
// the same path reuse the verdict instead of re-reading the log.
type inputState struct {
	once    sync.Once
	changed bool
	err     error
}

func (e *Executor) newRunState(
	ctx context.Context,
	plan *plan,
	log ports.BuildLog,
	parallelism int,
) *runState {
	ctx, cancel := context.WithCancel(ctx)

	inDegree := make(map[int]int, len(plan.tasks))
	var ready []int
	for _, id := range plan.order {
		inDegree[id] = len(plan.deps[id])
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	return &runState{
		e:           e,
		ctx:         ctx,
		cancel:      cancel,
		log:         log,
		plan:        plan,
		inDegree:    inDegree,
		ready:       ready,
		resultsCh:   make(chan result, parallelism),
		parallelism: parallelism,
		inputs:      make(map[string]*inputState),
	}
}

func (state *runState) runExecutionLoop() error {
	for !state.isDone() {
		state.schedule()

		if state.isDone() {
			break
		}

		// Once canceled, only in-flight results remain of interest.
		if state.ctx.Err() != nil {
			if state.active == 0 {
				return errors.Join(state.errs, context.Cause(state.ctx))
			}
			state.handleResult(<-state.resultsCh)
			continue
		}

		select {
		case res := <-state.resultsCh:
			state.handleResult(res)
		case <-state.ctx.Done():
		}
	}

	if state.errs != nil {
		return state.errs
	}
	if state.ctx.Err() != nil {
		return state.ctx.Err()
	}
	return nil
}

func (state *runState) isDone() bool {
	return state.active == 0 && len(state.ready) == 0
}

func (state *runState) schedule() {
	for len(state.ready) > 0 && state.active < state.parallelism && state.ctx.Err() == nil {
		id := state.ready[0]
		state.ready = state.ready[1:]

		state.active++
		state.e.updateStatus(id, StatusRunning)

		t := state.plan.tasks[id]
		go func() {
			state.resultsCh <- state.executeTask(&t)
		}()
	}
}

func (state *runState) handleResult(res result) {
	state.active--

	if res.err != nil {
		enhanced := zerr.With(
			zerr.Wrap(res.err, domain.ErrTaskExecutionFailed.Error()),
			"task", state.plan.tasks[res.id].Action.Display(),
		)
		state.errs = errors.Join(state.errs, enhanced)
		state.e.updateStatus(res.id, StatusFailed)
		// Fail fast: no new tasks start once anything failed.
		state.cancel()
		return
	}

	if res.skipped {
		state.skipped++
		state.e.updateStatus(res.id, StatusSkipped)
	} else {
		state.completed++
		state.e.updateStatus(res.id, StatusCompleted)
	}

	for _, dependent := range state.plan.dependents[res.id] {
		state.inDegree[dependent]--
		if state.inDegree[dependent] == 0 {
			state.ready = append(state.ready, dependent)
		}
	}
}

func (state *runState) executeTask(t *domain.Task) result {
	_, span := state.e.tracer.Start(state.ctx, t.Action.Display())
	defer span.End()

	changed, err := state.refreshInputs(t)
	if err != nil {
		span.RecordError(err)
		return result{id: t.ID, err: err}
	}

	if !changed {
		changed = outputsMissing(t)
	}

	if !changed {
		span.Cached()
		return result{id: t.ID, skipped: true}
	}

	if err := createOutputDirs(t); err != nil {
		span.RecordError(err)
		return result{id: t.ID, err: err}
	}

	if err := state.e.runner.Run(state.ctx, t.Action, span, span); err != nil {
		span.RecordError(err)
		return result{id: t.ID, err: err}
	}

	if err := state.recordOutputDirs(t); err != nil {
		span.RecordError(err)
		return result{id: t.ID, err: err}
	}

	return result{id: t.ID}
}

// refreshInputs reports whether any input of the task changed since
// the state the previous run recorded in the build log. Each path is
// decided at most once per run: the first consumer snapshots it,
// compares it with the logged entry and upserts the fresh observation
// before any action runs; every later consumer of the same path gets
// that verdict, so a shared changed input reruns all of its consumers
// even though its log entry was already refreshed.
func (state *runState) refreshInputs(t *domain.Task) (bool, error) {
	if len(t.Inputs) == 0 {
		return false, nil
	}

	verdicts := make([]bool, len(t.Inputs))

	var g errgroup.Group
	g.SetLimit(snapshotParallelism)
	for i, input := range t.Inputs {
		g.Go(func() error {
			st := state.inputStateFor(input.String())
			st.once.Do(func() {
				st.changed, st.err = state.decideInput(input.String())
			})
			if st.err != nil {
				return st.err
			}
			verdicts[i] = st.changed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, err
	}

	for _, changed := range verdicts {
		if changed {
			return true, nil
		}
	}
	return false, nil
}

func (state *runState) inputStateFor(path string) *inputState {
	state.inputsMu.Lock()
	defer state.inputsMu.Unlock()

	st, ok := state.inputs[path]
	if !ok {
		st = &inputState{}
		state.inputs[path] = st
	}
	return st
}

// decideInput snapshots one path and records the fresh observation in
// the log when it differs from the previous run's entry.
func (state *runState) decideInput(path string) (bool, error) {
	entry, err := state.e.snap.Snapshot(path)
	if err != nil {
		return false, err
	}

	prev, ok := state.log.Get(path)
	if ok && prev.Same(entry) {
		return false, nil
	}
	if err := state.log.Upsert(entry); err != nil {
		return false, err
	}
	return true, nil
}

// snapshotParallelism bounds concurrent input hashing per task.
const snapshotParallelism = 8

// outputsMissing reports whether any declared output does not exist.
func outputsMissing(t *domain.Task) bool {
	for _, output := range t.Outputs {
		if _, err := os.Stat(output.String()); err != nil {
			return true
		}
	}
	return false
}

// createOutputDirs creates the parent directories of every output.
func createOutputDirs(t *domain.Task) error {
	for _, output := range t.Outputs {
		parent := filepath.Dir(output.String())
		if parent == "." || parent == string(filepath.Separator) {
			continue
		}
		if err := os.MkdirAll(parent, 0o750); err != nil {
			return zerr.With(
				zerr.Wrap(err, domain.ErrOutputDirCreateFailed.Error()),
				"path", parent,
			)
		}
	}
	return nil
}

// recordOutputDirs writes a synthetic log entry for every output that
// is a directory. The entry is backdated one second so the directory
// never looks newer than files examined in the same second, which
// forces the next run to re-examine its contents.
func (state *runState) recordOutputDirs(t *domain.Task) error {
	for _, output := range t.Outputs {
		path := output.String()
		info, err := os.Stat(path)
		if err != nil {
			return zerr.With(
				zerr.Wrap(err, domain.ErrOutputStatFailed.Error()),
				"path", path,
			)
		}
		if !info.IsDir() {
			continue
		}
		entry := domain.BuildLogEntry{
			Path:    path,
			ModTime: time.Now().Add(-time.Second).Unix(),
		}
		if err := state.log.Upsert(entry); err != nil {
			return err
		}
	}
	return nil
}
