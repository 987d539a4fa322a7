package executor

import (
	"go.trai.ch/bob/internal/core/domain"
	"go.trai.ch/zerr"
)

// plan is the dependency graph of the tasks reachable from the root.
type plan struct {
	tasks      map[int]domain.Task
	deps       map[int][]int
	dependents map[int][]int
	order      []int // reverse-postorder of the discovery walk
}

// discover builds the execution plan for root. A task depends on
// another when one of its inputs matches one of the other's outputs;
// the match is resolved through an output-to-producer index, and when
// several tasks claim the same output path the first registered one
// wins. Discovery walks only the subgraph reachable from root, so
// unrelated tasks never execute.
func discover(set *domain.TaskSet, rootID int) (*plan, error) {
	all := set.Tasks()
	if len(all) == 0 {
		return nil, domain.ErrNoTasks
	}

	byID := make(map[int]domain.Task, len(all))
	producers := make(map[domain.InternedString]int, len(all))
	for _, t := range all {
		byID[t.ID] = t
		for _, output := range t.Outputs {
			if _, taken := producers[output]; !taken {
				producers[output] = t.ID
			}
		}
	}

	if _, ok := byID[rootID]; !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrRootNotFound, "dependency discovery"), "task_id", rootID)
	}

	p := &plan{
		tasks:      make(map[int]domain.Task),
		deps:       make(map[int][]int),
		dependents: make(map[int][]int),
	}

	w := &walker{
		byID:      byID,
		producers: producers,
		plan:      p,
		state:     make(map[int]visitState),
	}
	if err := w.visit(rootID); err != nil {
		return nil, err
	}
	return p, nil
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type walker struct {
	byID      map[int]domain.Task
	producers map[domain.InternedString]int
	plan      *plan
	state     map[int]visitState
	stack     []int
}

func (w *walker) visit(id int) error {
	switch w.state[id] {
	case visited:
		return nil
	case visiting:
		return w.cycleError(id)
	}

	w.state[id] = visiting
	w.stack = append(w.stack, id)

	t := w.byID[id]
	seen := make(map[int]struct{})
	for _, input := range t.Inputs {
		producer, ok := w.producers[input]
		if !ok || producer == id {
			continue
		}
		if _, dup := seen[producer]; dup {
			continue
		}
		seen[producer] = struct{}{}

		if err := w.visit(producer); err != nil {
			return err
		}
		w.plan.deps[id] = append(w.plan.deps[id], producer)
		w.plan.dependents[producer] = append(w.plan.dependents[producer], id)
	}

	w.stack = w.stack[:len(w.stack)-1]
	w.state[id] = visited
	w.plan.tasks[id] = t
	w.plan.order = append(w.plan.order, id)
	return nil
}

// cycleError renders the cycle closed by id out of the visiting stack.
func (w *walker) cycleError(id int) error {
	start := 0
	for i, v := range w.stack {
		if v == id {
			start = i
			break
		}
	}

	cycle := make([]string, 0, len(w.stack)-start+1)
	for _, v := range w.stack[start:] {
		cycle = append(cycle, w.byID[v].Action.Display())
	}
	cycle = append(cycle, w.byID[id].Action.Display())

	return zerr.With(zerr.Wrap(domain.ErrCycleDetected, "dependency discovery"), "cycle", cycle)
}

// displayNames returns the plan's task names in discovery order.
func (p *plan) displayNames() []string {
	names := make([]string, 0, len(p.order))
	for _, id := range p.order {
		names = append(names, p.tasks[id].Action.Display())
	}
	return names
}
