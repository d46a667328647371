// Implements the level queues that hold promoted tasks between dispatch turns.
// Each queue discipline hands out the ExecContext matching its service policy.

package sim

import (
	"fmt"
	"strings"
)

// LevelQueue is a feedback level of the MLFQ cascade.
// Pop returns nil when the queue is empty.
type LevelQueue interface {
	Push(task *Task)
	Pop() *ExecContext
	Len() int
	// Tasks returns the resident tasks for read-only inspection.
	// Callers MUST NOT retain or mutate the returned slice.
	Tasks() []*Task
}

// RoundRobinQueue is a FIFO deque whose turns are bounded by a fixed quantum.
type RoundRobinQueue struct {
	quantum int64
	queue   []*Task
}

// NewRoundRobinQueue creates a round-robin level with the given quantum in ticks.
func NewRoundRobinQueue(quantum int64) *RoundRobinQueue {
	return &RoundRobinQueue{quantum: quantum}
}

// Quantum returns the time-slice handed to each turn.
func (q *RoundRobinQueue) Quantum() int64 { return q.quantum }

// Push appends task at the tail.
func (q *RoundRobinQueue) Push(task *Task) {
	if task == nil {
		panic("RoundRobinQueue.Push: task must not be nil")
	}
	q.queue = append(q.queue, task)
}

// Pop removes the head task and wraps it in a bounded turn.
func (q *RoundRobinQueue) Pop() *ExecContext {
	if len(q.queue) == 0 {
		return nil
	}
	head := q.queue[0]
	q.queue[0] = nil
	q.queue = q.queue[1:]
	return NewBoundedContext(head, q.quantum)
}

// Len returns the number of resident tasks.
func (q *RoundRobinQueue) Len() int { return len(q.queue) }

func (q *RoundRobinQueue) Tasks() []*Task { return q.queue }

func (q *RoundRobinQueue) String() string {
	return fmt.Sprintf("rr(q=%d)%s", q.quantum, formatTasks(q.queue))
}

// FIFOQueue is the run-to-completion stage. Once a task is selected it keeps
// the running slot until it finishes or its deadline passes.
// Pop takes the most recently pushed task.
type FIFOQueue struct {
	queue []*Task
}

// NewFIFOQueue creates an empty run-to-completion level.
func NewFIFOQueue() *FIFOQueue {
	return &FIFOQueue{}
}

// Push appends task.
func (q *FIFOQueue) Push(task *Task) {
	if task == nil {
		panic("FIFOQueue.Push: task must not be nil")
	}
	q.queue = append(q.queue, task)
}

// Pop removes the last pushed task and wraps it in an unbounded turn.
func (q *FIFOQueue) Pop() *ExecContext {
	n := len(q.queue)
	if n == 0 {
		return nil
	}
	last := q.queue[n-1]
	q.queue[n-1] = nil
	q.queue = q.queue[:n-1]
	return NewUnboundedContext(last)
}

// Len returns the number of resident tasks.
func (q *FIFOQueue) Len() int { return len(q.queue) }

func (q *FIFOQueue) Tasks() []*Task { return q.queue }

func (q *FIFOQueue) String() string {
	return "fifo" + formatTasks(q.queue)
}

func formatTasks(tasks []*Task) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, t := range tasks {
		sb.WriteString(fmt.Sprint(t.ID))
		if i < len(tasks)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
