package sim

import "fmt"

// TurnKind selects how an ExecContext bounds a dispatch turn.
type TurnKind int

const (
	// Bounded turns run for at most a fixed quantum (round-robin levels).
	Bounded TurnKind = iota
	// Unbounded turns run the task to completion (FIFO level).
	Unbounded
)

func (k TurnKind) String() string {
	switch k {
	case Bounded:
		return "bounded"
	case Unbounded:
		return "unbounded"
	default:
		return fmt.Sprintf("TurnKind(%d)", int(k))
	}
}

// TurnStatus is the outcome of one ExecContext.Exec call.
type TurnStatus int

const (
	// TurnReady: the task keeps the running slot for the next tick.
	TurnReady TurnStatus = iota
	// TurnTimedOut: the quantum is spent and the task is still Ready; it must be demoted.
	// This is unrelated to the task's own deadline.
	TurnTimedOut
	// TurnFinished: the task reached a terminal status and leaves the system.
	TurnFinished
)

func (s TurnStatus) String() string {
	switch s {
	case TurnReady:
		return "ready"
	case TurnTimedOut:
		return "timed-out"
	case TurnFinished:
		return "finished"
	default:
		return fmt.Sprintf("TurnStatus(%d)", int(s))
	}
}

// ExecContext wraps one task for exactly one dispatch turn.
// The zero value is not usable; obtain one from a LevelQueue.Pop.
type ExecContext struct {
	kind      TurnKind
	remaining int64 // ticks left in the quantum; Bounded only
	task      *Task
}

// NewBoundedContext wraps task in a round-robin turn of quantum ticks.
func NewBoundedContext(task *Task, quantum int64) *ExecContext {
	if task == nil {
		panic("NewBoundedContext: task must not be nil")
	}
	return &ExecContext{kind: Bounded, remaining: quantum, task: task}
}

// NewUnboundedContext wraps task in a run-to-completion turn.
func NewUnboundedContext(task *Task) *ExecContext {
	if task == nil {
		panic("NewUnboundedContext: task must not be nil")
	}
	return &ExecContext{kind: Unbounded, task: task}
}

// Kind returns the turn discipline.
func (c *ExecContext) Kind() TurnKind { return c.kind }

// Remaining returns the ticks left in a bounded quantum (always 0 for unbounded turns).
func (c *ExecContext) Remaining() int64 { return c.remaining }

// Task returns the wrapped task without releasing it.
func (c *ExecContext) Task() *Task { return c.task }

// Exec runs the wrapped task for the tick at clock and reports how the turn stands.
func (c *ExecContext) Exec(clock int64) TurnStatus {
	if c.task == nil {
		panic("ExecContext.Exec: context already released")
	}
	switch c.kind {
	case Bounded:
		if c.remaining <= 0 {
			if c.task.Status == StatusReady {
				return TurnTimedOut
			}
			return TurnFinished
		}
		c.task.Execute(clock)
		c.remaining--
	case Unbounded:
		c.task.Execute(clock)
	default:
		panic(fmt.Sprintf("ExecContext.Exec: unhandled turn kind %v", c.kind))
	}
	if c.task.Status.IsTerminal() {
		return TurnFinished
	}
	return TurnReady
}

// Release hands the task back to the caller and invalidates the context.
func (c *ExecContext) Release() *Task {
	t := c.task
	c.task = nil
	return t
}
