package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// noArrivals is a JobSource that never produces work, so tests control load via Submit.
type noArrivals struct{}

func (noArrivals) Poll() (TaskDefinition, bool) { return TaskDefinition{}, false }

// fixedDraw is a UniformSource that always returns the same value.
type fixedDraw float64

func (f fixedDraw) Float64() float64 { return float64(f) }

// testConfig promotes every tick with a generous quota.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.SyncPeriod = 1
	cfg.JobThreshold = 5
	cfg.Quantum1 = 2
	cfg.Quantum2 = 2
	return cfg
}

// newTestScheduler builds a scheduler without stochastic arrivals.
func newTestScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	s, err := NewScheduler(cfg, NewSimulationKey(42))
	require.NoError(t, err)
	return s.WithJobSource(noArrivals{})
}

// runTicks calls Run n times.
func runTicks(s *Scheduler, n int) {
	for i := 0; i < n; i++ {
		s.Run()
	}
}

// allTasks collects every task owned by s, failing on a task held by two containers.
func allTasks(t *testing.T, s *Scheduler) []*Task {
	t.Helper()
	var tasks []*Task
	tasks = append(tasks, s.Completed()...)
	if task, _, ok := s.Running(); ok {
		tasks = append(tasks, task)
	}
	for _, l := range []Level{L1, L2, L3} {
		tasks = append(tasks, s.Level(l).Tasks()...)
	}
	tasks = append(tasks, s.admission.Tasks()...)

	seen := make(map[int64]bool, len(tasks))
	for _, task := range tasks {
		if seen[task.ID] {
			t.Fatalf("task %d is owned by more than one container", task.ID)
		}
		seen[task.ID] = true
	}
	return tasks
}

func int64Ptr(v int64) *int64 { return &v }

func float64Ptr(v float64) *float64 { return &v }
