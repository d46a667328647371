// Tracks simulation-wide scheduling metrics such as:
// completions, demotions, per-level dispatches and turnaround/waiting/response times.

package sim

import "fmt"

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating the scheduling
// policy and debugging behavior over time.
type Metrics struct {
	SubmittedTasks int // Number of tasks admitted
	CompletedTasks int // Number of tasks that left the system
	FinishedTasks  int // Completed with all work done
	TimedOutTasks  int // Completed by passing their deadline
	Promotions     int // Tasks moved from admission into L1
	Demotions      int // Quantum expiries (L1→L2, L2→L3)

	Dispatches map[Level]int // Turns started per level
	IdleTicks  int64         // Ticks with an empty running slot

	TotalTurnaround int64 // Sum over completed tasks of (completion tick - arrival)
	TotalWaiting    int64 // Sum over promoted tasks of (schedule tick - arrival)
	TotalResponse   int64 // Sum over executed tasks of (first service tick - arrival)
	RespondedTasks  int   // Completed tasks that executed at least one tick

	SimEndedTime int64 // Clock value when the metrics were read
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Dispatches: make(map[Level]int),
	}
}

func (m *Metrics) recordCompletion(t *Task, clock int64) {
	m.CompletedTasks++
	if t.Status == StatusTimedOut {
		m.TimedOutTasks++
	} else {
		m.FinishedTasks++
	}
	m.TotalTurnaround += clock - t.ArrivalTime
	if len(t.Progress) > 0 {
		m.TotalResponse += t.Progress[0] - t.ArrivalTime
		m.RespondedTasks++
	}
}

// MeanTurnaround returns the average ticks from arrival to completion.
func (m *Metrics) MeanTurnaround() float64 {
	if m.CompletedTasks == 0 {
		return 0
	}
	return float64(m.TotalTurnaround) / float64(m.CompletedTasks)
}

// MeanWaiting returns the average ticks a task spent in admission.
func (m *Metrics) MeanWaiting() float64 {
	if m.Promotions == 0 {
		return 0
	}
	return float64(m.TotalWaiting) / float64(m.Promotions)
}

// MeanResponse returns the average ticks from arrival to first execution.
func (m *Metrics) MeanResponse() float64 {
	if m.RespondedTasks == 0 {
		return 0
	}
	return float64(m.TotalResponse) / float64(m.RespondedTasks)
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Simulated Ticks      : %d\n", m.SimEndedTime)
	fmt.Printf("Submitted Tasks      : %d\n", m.SubmittedTasks)
	fmt.Printf("Completed Tasks      : %d (finished=%d, timed_out=%d)\n", m.CompletedTasks, m.FinishedTasks, m.TimedOutTasks)
	fmt.Printf("Promotions           : %d\n", m.Promotions)
	fmt.Printf("Demotions            : %d\n", m.Demotions)
	fmt.Printf("Dispatches           : L1=%d L2=%d L3=%d\n", m.Dispatches[L1], m.Dispatches[L2], m.Dispatches[L3])
	fmt.Printf("Idle Ticks           : %d\n", m.IdleTicks)
	if m.CompletedTasks > 0 {
		fmt.Printf("Average Turnaround   : %.2f ticks\n", m.MeanTurnaround())
		fmt.Printf("Average Response     : %.2f ticks\n", m.MeanResponse())
	}
	if m.Promotions > 0 {
		fmt.Printf("Average Waiting      : %.2f ticks\n", m.MeanWaiting())
	}
	if m.SimEndedTime > 0 {
		fmt.Printf("Throughput           : %.4f tasks/tick\n", float64(m.CompletedTasks)/float64(m.SimEndedTime))
	}
}
