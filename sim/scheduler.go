package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/mlfq-sim/mlfq-sim/sim/trace"
)

// JobSource produces at most one new task definition per tick.
// *JobCreator is the production implementation.
type JobSource interface {
	Poll() (TaskDefinition, bool)
}

// Scheduler is the core object that holds simulation time, all queues, the
// running slot and the completed list. It advances one tick per Run call.
//
// Thread-safety: NOT thread-safe. The caller drives Run from a single goroutine.
type Scheduler struct {
	clock        int64
	syncPeriod   int64
	jobThreshold int
	nextID       int64

	jobs      JobSource
	admission *AdmissionQueue
	levels    *Levels

	dispatcher     Dispatcher
	dispatcherName string
	rng            *PartitionedRNG

	// running holds the current turn; runningLevel is the level it was taken from.
	running      *ExecContext
	runningLevel Level

	completed []*Task
	metrics   *Metrics
	trace     *trace.SimulationTrace
}

// NewScheduler builds a scheduler from cfg with all randomness derived from key.
// Returns ErrArrivalRateTooSmall or ErrServiceRateTooSmall (wrapped) for unusable
// rates, or a validation error for structural parameters.
func NewScheduler(cfg Config, key SimulationKey) (*Scheduler, error) {
	rng := NewPartitionedRNG(key)
	jc, err := NewJobCreator(cfg.ArrivalRate, cfg.ExecRate, cfg.TimeoutRate, rng)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	name := cfg.Dispatcher
	if name == "" {
		name = "default"
	}
	return &Scheduler{
		syncPeriod:     cfg.SyncPeriod,
		jobThreshold:   cfg.JobThreshold,
		jobs:           jc,
		admission:      NewAdmissionQueue(),
		levels:         NewLevels(cfg.Quantum1, cfg.Quantum2),
		dispatcher:     NewDispatcher(name, rng),
		dispatcherName: name,
		rng:            rng,
		metrics:        NewMetrics(),
	}, nil
}

// WithWeightedDispatcher switches s to the weighted dispatcher. The switch is
// one-way; all other state is preserved.
func (s *Scheduler) WithWeightedDispatcher() *Scheduler {
	if s.dispatcherName == "weighted" {
		return s
	}
	return s.withWeightedSource(s.rng.ForSubsystem(SubsystemDispatch))
}

// withWeightedSource installs a weighted dispatcher drawing from src.
func (s *Scheduler) withWeightedSource(src UniformSource) *Scheduler {
	s.dispatcher = NewWeightedDispatcher(src)
	s.dispatcherName = "weighted"
	return s
}

// WithJobSource replaces the stochastic job creator, e.g. with a replayed or empty source.
func (s *Scheduler) WithJobSource(src JobSource) *Scheduler {
	if src == nil {
		panic("WithJobSource: source must not be nil")
	}
	s.jobs = src
	return s
}

// WithTrace attaches a decision trace. A nil or disabled trace records nothing.
func (s *Scheduler) WithTrace(st *trace.SimulationTrace) *Scheduler {
	s.trace = st
	return s
}

// Submit admits a new task arriving at the current clock.
func (s *Scheduler) Submit(def TaskDefinition) {
	task := NewTask(s.nextID, def, s.clock)
	s.nextID++
	s.admission.Push(task)
	s.metrics.SubmittedTasks++
	logrus.Debugf("[tick %07d] << Admit %v", s.clock, task)
}

// Run advances the simulation by exactly one tick.
func (s *Scheduler) Run() {
	if def, ok := s.jobs.Poll(); ok {
		s.Submit(def)
	}
	if s.clock%s.syncPeriod == 0 {
		s.promote()
	}
	if s.running == nil {
		s.dispatch()
	}
	if s.running != nil {
		s.step()
	} else {
		s.metrics.IdleTicks++
	}
	s.clock++
	s.metrics.SimEndedTime = s.clock
}

// promote moves up to jobThreshold tasks from admission into L1, unless the
// levels already hold at least jobThreshold tasks.
func (s *Scheduler) promote() {
	if s.levels.Len() >= s.jobThreshold {
		return
	}
	for n := 0; n < s.jobThreshold && s.admission.Peek() != nil; n++ {
		task := s.admission.Pop()
		task.markScheduled(s.clock)
		s.levels.L1.Push(task)
		waited := s.clock - task.ArrivalTime
		s.metrics.Promotions++
		s.metrics.TotalWaiting += waited
		if s.trace.Enabled() {
			s.trace.RecordPromotion(trace.PromotionRecord{
				TaskID: task.ID, Clock: s.clock, Priority: task.Priority.String(), Waited: waited,
			})
		}
		logrus.Debugf("[tick %07d] Promote task %d (%s) to L1", s.clock, task.ID, task.Priority)
	}
}

func (s *Scheduler) dispatch() {
	ctx, level, ok := s.dispatcher.Select(s.levels)
	if !ok {
		return
	}
	s.running = ctx
	s.runningLevel = level
	s.metrics.Dispatches[level]++
	if s.trace.Enabled() {
		s.trace.RecordDispatch(trace.DispatchRecord{
			TaskID: ctx.Task().ID, Clock: s.clock, Level: int(level), Dispatcher: s.dispatcherName,
		})
	}
	logrus.Debugf("[tick %07d] Dispatch task %d from %v (%v turn)", s.clock, ctx.Task().ID, level, ctx.Kind())
}

func (s *Scheduler) step() {
	switch status := s.running.Exec(s.clock); status {
	case TurnReady:
	case TurnTimedOut:
		from := s.runningLevel
		to := demotionTarget(from)
		task := s.release()
		s.levels.Queue(to).Push(task)
		s.metrics.Demotions++
		if s.trace.Enabled() {
			s.trace.RecordDemotion(trace.DemotionRecord{TaskID: task.ID, Clock: s.clock, From: int(from), To: int(to)})
		}
		logrus.Debugf("[tick %07d] Demote task %d %v -> %v", s.clock, task.ID, from, to)
	case TurnFinished:
		level := s.runningLevel
		task := s.release()
		s.completed = append(s.completed, task)
		s.metrics.recordCompletion(task, s.clock)
		if s.trace.Enabled() {
			s.trace.RecordCompletion(trace.CompletionRecord{
				TaskID: task.ID, Clock: s.clock, Level: int(level), Status: string(task.Status),
			})
		}
		logrus.Debugf("[tick %07d] >> Complete %v", s.clock, task)
	default:
		panic(fmt.Sprintf("Scheduler.step: unhandled turn status %v", status))
	}
}

// demotionTarget returns the level below from. Only round-robin levels can
// expire a quantum; reaching this with L3 is an invariant violation.
func demotionTarget(from Level) Level {
	switch from {
	case L1:
		return L2
	case L2:
		return L3
	default:
		panic(fmt.Sprintf("demotionTarget: quantum expired on %v, which has no quantum", from))
	}
}

func (s *Scheduler) release() *Task {
	task := s.running.Release()
	s.running = nil
	s.runningLevel = 0
	return task
}

// Clock returns the current tick.
func (s *Scheduler) Clock() int64 { return s.clock }

// DispatcherName returns the active dispatch strategy.
func (s *Scheduler) DispatcherName() string { return s.dispatcherName }

// Metrics returns the live metrics.
func (s *Scheduler) Metrics() *Metrics { return s.metrics }

// Trace returns the attached decision trace, or nil.
func (s *Scheduler) Trace() *trace.SimulationTrace { return s.trace }

// Completed returns the tasks that have left the system, in completion order.
// Callers MUST NOT mutate the returned tasks.
func (s *Scheduler) Completed() []*Task { return s.completed }

// Running returns the task holding the running slot and the level it came from.
func (s *Scheduler) Running() (*Task, Level, bool) {
	if s.running == nil {
		return nil, 0, false
	}
	return s.running.Task(), s.runningLevel, true
}

// Level returns the queue for level l.
func (s *Scheduler) Level(l Level) LevelQueue { return s.levels.Queue(l) }

// AdmissionLen returns the number of tasks waiting for promotion.
func (s *Scheduler) AdmissionLen() int { return s.admission.Len() }

// Records returns a snapshot of every task in the system: completed, running,
// L1, L2, L3, then admission in promotion order. No queue is drained.
func (s *Scheduler) Records() []TaskRecord {
	records := make([]TaskRecord, 0, len(s.completed)+s.levels.Len()+s.admission.Len()+1)
	for _, t := range s.completed {
		records = append(records, t.Export())
	}
	if s.running != nil {
		records = append(records, s.running.Task().Export())
	}
	for _, l := range []Level{L1, L2, L3} {
		for _, t := range s.levels.Queue(l).Tasks() {
			records = append(records, t.Export())
		}
	}
	waiting := append([]*Task(nil), s.admission.Tasks()...)
	sort.Slice(waiting, func(i, j int) bool { return waiting[i].Less(waiting[j]) })
	for _, t := range waiting {
		records = append(records, t.Export())
	}
	return records
}

// Export writes the Records snapshot to w as CSV.
func (s *Scheduler) Export(w io.Writer) error {
	return WriteRecords(w, s.Records())
}
