package sim

import "container/heap"

// taskHeap implements heap.Interface as a max-heap under Task.Less.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type taskHeap []*Task

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].Less(h[j]) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*Task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return item
}

// AdmissionQueue holds newly arrived tasks until promotion moves them into L1.
// Pop always yields the highest-priority task, earliest arrival first among equals.
type AdmissionQueue struct {
	tasks taskHeap
}

// NewAdmissionQueue creates an empty admission queue.
func NewAdmissionQueue() *AdmissionQueue {
	return &AdmissionQueue{tasks: make(taskHeap, 0)}
}

// Push admits task.
func (aq *AdmissionQueue) Push(task *Task) {
	if task == nil {
		panic("AdmissionQueue.Push: task must not be nil")
	}
	heap.Push(&aq.tasks, task)
}

// Pop removes the highest-ranked task, or returns nil when empty.
func (aq *AdmissionQueue) Pop() *Task {
	if len(aq.tasks) == 0 {
		return nil
	}
	return heap.Pop(&aq.tasks).(*Task)
}

// Peek returns the highest-ranked task without removing it.
func (aq *AdmissionQueue) Peek() *Task {
	if len(aq.tasks) == 0 {
		return nil
	}
	return aq.tasks[0]
}

// Len returns the number of waiting tasks.
func (aq *AdmissionQueue) Len() int { return len(aq.tasks) }

// Tasks returns the waiting tasks in heap order (not sorted).
// Callers MUST NOT retain or mutate the returned slice.
func (aq *AdmissionQueue) Tasks() []*Task { return aq.tasks }
