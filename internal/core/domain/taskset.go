package domain

import (
	"slices"

	"github.com/cespare/xxhash/v2"
)

// TaskSet collects the tasks declared for one build invocation.
// It assigns sequential IDs and drops tasks whose output signature has
// already been registered, so two generators declaring the same
// artifact do not schedule it twice.
//
// The last task added is the conventional root: callers append the
// final desired artifact's task last and pass Root() to the executor.
type TaskSet struct {
	tasks      []Task
	outputSigs map[uint64]struct{}
}

// NewTaskSet creates an empty TaskSet.
func NewTaskSet() *TaskSet {
	return &TaskSet{
		outputSigs: make(map[uint64]struct{}),
	}
}

// Add registers a task with the given action, inputs and outputs.
// Inputs and outputs are treated as unordered sets: they are sorted
// and deduplicated. A task whose output signature is already present
// is silently dropped; the first registration wins.
func (s *TaskSet) Add(action TaskAction, inputs, outputs []string) {
	canonicalOutputs := canonicalize(outputs)

	if len(canonicalOutputs) > 0 {
		sig := outputSignature(canonicalOutputs)
		if _, exists := s.outputSigs[sig]; exists {
			return
		}
		s.outputSigs[sig] = struct{}{}
	}

	s.tasks = append(s.tasks, Task{
		ID:      len(s.tasks),
		Action:  action,
		Inputs:  internCanonical(canonicalize(inputs)),
		Outputs: internCanonical(canonicalOutputs),
	})
}

// AddPhony registers a no-op synchronization task labelled with its outputs.
func (s *TaskSet) AddPhony(inputs, outputs []string) {
	s.Add(Phony{Label: joinPaths(outputs)}, inputs, outputs)
}

// AddCopy registers a file copy task with src as input and dst as output.
func (s *TaskSet) AddCopy(src, dst string) {
	s.Add(Copy{Src: src, Dst: dst}, []string{src}, []string{dst})
}

// AddCommand registers a shell command task.
func (s *TaskSet) AddCommand(line string, inputs, outputs []string) {
	s.Add(Command{Line: line}, inputs, outputs)
}

// Tasks returns the registered tasks in insertion order.
func (s *TaskSet) Tasks() []Task {
	return s.tasks
}

// Len returns the number of registered tasks.
func (s *TaskSet) Len() int {
	return len(s.tasks)
}

// Root returns the last-added task, the conventional build root.
// It returns false if the set is empty.
func (s *TaskSet) Root() (Task, bool) {
	if len(s.tasks) == 0 {
		return Task{}, false
	}
	return s.tasks[len(s.tasks)-1], true
}

// outputSignature fingerprints a canonical output list. The paths are
// already sorted, so the digest is order-independent for the caller.
func outputSignature(outputs []string) uint64 {
	h := xxhash.New()
	for _, out := range outputs {
		_, _ = h.WriteString(out)
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func canonicalize(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

func internCanonical(paths []string) []InternedString {
	if len(paths) == 0 {
		return nil
	}
	res := make([]InternedString, len(paths))
	for i, p := range paths {
		res[i] = NewInternedString(p)
	}
	return res
}

func joinPaths(paths []string) string {
	label := ""
	for i, p := range paths {
		if i > 0 {
			label += " "
		}
		label += p
	}
	return label
}
