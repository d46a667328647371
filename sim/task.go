// Defines the Task struct that models one synthetic job in the simulation.
// Tracks arrival, remaining work, the ticks it actually ran on, and its terminal state.

package sim

import (
	"fmt"
)

// Priority is the admission priority of a task. Higher values are promoted first.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityNormal:
		return "Normal"
	case PriorityHigh:
		return "High"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// TaskStatus represents the lifecycle state of a task.
// Finished and TimedOut are terminal: once reached, the status never changes.
type TaskStatus string

const (
	StatusReady    TaskStatus = "Ready"
	StatusFinished TaskStatus = "Finished"
	StatusTimedOut TaskStatus = "TimedOut"
)

// IsTerminal reports whether s is Finished or TimedOut.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusTimedOut
}

// TaskDefinition holds the immutable creation parameters of a task.
// Produced by the JobCreator (or a caller seeding load) and consumed once by Scheduler.Submit.
type TaskDefinition struct {
	ExecTime int64
	Priority Priority
	Timeout  *int64 // ticks after arrival before the task is abandoned; nil = no deadline
}

// NewTaskDefinition builds a definition without a deadline.
func NewTaskDefinition(execTime int64, priority Priority) TaskDefinition {
	return TaskDefinition{ExecTime: execTime, Priority: priority}
}

// WithTimeout returns a copy of d carrying the given deadline.
func (d TaskDefinition) WithTimeout(timeout int64) TaskDefinition {
	d.Timeout = &timeout
	return d
}

// Task is the mutable execution record of one job.
// A task is owned by exactly one container at a time: the admission queue,
// one level queue, the running slot, or the completed list.
type Task struct {
	ID           int64 // Sequence number assigned at admission; used for logging and tie-breaking only
	ExecTime     int64 // Total ticks of work required
	ArrivalTime  int64 // Tick the task entered the admission queue
	Remaining    int64 // Ticks of work left; never increases, never negative
	Priority     Priority
	Status       TaskStatus
	Progress     []int64 // Ticks during which the task actually executed, ascending
	Timeout      *int64  // Relative deadline (ticks after ArrivalTime); nil = none
	ScheduleTime *int64  // Tick of promotion out of admission; stamped once
}

// NewTask creates a Ready task from a definition arriving at clock.
func NewTask(id int64, def TaskDefinition, clock int64) *Task {
	var timeout *int64
	if def.Timeout != nil {
		t := *def.Timeout
		timeout = &t
	}
	return &Task{
		ID:          id,
		ExecTime:    def.ExecTime,
		ArrivalTime: clock,
		Remaining:   max(def.ExecTime, 0),
		Priority:    def.Priority,
		Status:      StatusReady,
		Timeout:     timeout,
	}
}

// Deadline returns the absolute tick after which the task is abandoned.
func (t *Task) Deadline() (int64, bool) {
	if t.Timeout == nil {
		return 0, false
	}
	return t.ArrivalTime + *t.Timeout, true
}

// Execute advances the task by one tick of simulated time.
// Past its deadline the task becomes TimedOut and no work is recorded.
// A zero-length task still records the tick and finishes on it.
// Calling Execute on a terminal task is a no-op.
func (t *Task) Execute(clock int64) {
	if t.Status.IsTerminal() {
		return
	}
	if deadline, ok := t.Deadline(); ok && clock > deadline {
		t.Status = StatusTimedOut
		return
	}
	t.Progress = append(t.Progress, clock)
	if t.Remaining > 0 {
		t.Remaining--
	}
	if t.Remaining == 0 {
		t.Status = StatusFinished
	} else {
		t.Status = StatusReady
	}
}

// markScheduled stamps the promotion tick. Later calls are ignored.
func (t *Task) markScheduled(clock int64) {
	if t.ScheduleTime != nil {
		return
	}
	c := clock
	t.ScheduleTime = &c
}

// Less orders tasks for admission: higher priority first, then earlier
// arrival, then lower ID for determinism.
func (t *Task) Less(other *Task) bool {
	if t.Priority != other.Priority {
		return t.Priority > other.Priority
	}
	if t.ArrivalTime != other.ArrivalTime {
		return t.ArrivalTime < other.ArrivalTime
	}
	return t.ID < other.ID
}

// Export derives the read-only TaskRecord projection of t.
func (t *Task) Export() TaskRecord {
	rec := TaskRecord{
		ArrivalTime: t.ArrivalTime,
		ServiceTime: int64(len(t.Progress)),
		ExecTime:    t.ExecTime,
		Priority:    t.Priority.String(),
		Status:      string(t.Status),
	}
	if n := len(t.Progress); n > 0 {
		rec.ServiceStart = t.Progress[0]
		rec.ServiceEnd = t.Progress[n-1]
	}
	if t.Status == StatusTimedOut {
		if deadline, ok := t.Deadline(); ok {
			rec.ServiceEnd = deadline
		}
	}
	if t.ScheduleTime != nil {
		s := *t.ScheduleTime
		rec.ScheduleTime = &s
	}
	return rec
}

// This method returns a human-readable string representation of a Task.
func (t Task) String() string {
	return fmt.Sprintf("Task: (ID: %d, Priority: %s, Status: %s, Remaining: %d/%d, ArrivalTime: %d)",
		t.ID, t.Priority, t.Status, t.Remaining, t.ExecTime, t.ArrivalTime)
}

// TaskRecord is the flattened export row for one task.
// Field order matches the CSV column order written by WriteRecords.
type TaskRecord struct {
	ServiceStart int64  `yaml:"service_start"`
	ServiceEnd   int64  `yaml:"service_end"`
	ArrivalTime  int64  `yaml:"arrival_time"`
	ScheduleTime *int64 `yaml:"schedule_time,omitempty"`
	ServiceTime  int64  `yaml:"service_time"`
	ExecTime     int64  `yaml:"exec_time"`
	Priority     string `yaml:"priority"`
	Status       string `yaml:"status"`
}
