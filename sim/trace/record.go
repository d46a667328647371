// Package trace provides decision-trace recording for MLFQ scheduling analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// PromotionRecord captures one task moved from admission into L1.
type PromotionRecord struct {
	TaskID   int64
	Clock    int64
	Priority string
	Waited   int64 // ticks spent in admission
}

// DispatchRecord captures one task taking the running slot.
type DispatchRecord struct {
	TaskID     int64
	Clock      int64
	Level      int
	Dispatcher string
}

// DemotionRecord captures a task whose quantum expired on level From.
type DemotionRecord struct {
	TaskID int64
	Clock  int64
	From   int
	To     int
}

// CompletionRecord captures a task leaving the system.
type CompletionRecord struct {
	TaskID int64
	Clock  int64
	Level  int    // level the final turn ran on
	Status string // "Finished" or "TimedOut"
}
