// Package domain contains the core domain models for the incremental
// build engine: tasks, actions and the persisted build log entries.
package domain

// Task represents a unit of work declared by a generator.
// It is immutable after construction; the executor owns the task list.
// The ID is assigned by the TaskSet and is only used for bookkeeping,
// it carries no content meaning.
type Task struct {
	ID      int
	Action  TaskAction
	Inputs  []InternedString
	Outputs []InternedString
}

// TaskAction describes the effect of a single task. It is a closed
// variant: Phony, Copy and Command are the only implementations.
type TaskAction interface {
	// Display returns the line printed for this action when it runs.
	Display() string

	taskAction()
}

// Phony is a no-op synchronization point in the graph, typically an
// aggregation node with many inputs and no real outputs.
type Phony struct {
	Label string
}

// Display returns the phony label.
func (p Phony) Display() string { return p.Label }

func (Phony) taskAction() {}

// Copy copies a single file from Src to Dst.
type Copy struct {
	Src string
	Dst string
}

// Display returns the copy invocation line.
func (c Copy) Display() string { return "cp " + c.Src + " " + c.Dst }

func (Copy) taskAction() {}

// Command runs a single shell command line.
type Command struct {
	Line string
}

// Display returns the command line.
func (c Command) Display() string { return c.Line }

func (Command) taskAction() {}
