package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Priority mix of generated tasks: Low 70%, Normal 20%, High 10%.
const (
	lowPriorityCutoff    = 0.7
	normalPriorityCutoff = 0.9
)

// JobCreator is a stateful stochastic generator of task definitions.
// Inter-arrival gaps are Poisson(arrivalRate) ticks; execution times and
// deadlines are Exponential(rate) samples floored to whole ticks.
type JobCreator struct {
	interval     distuv.Poisson
	execTime     distuv.Exponential
	timeout      *distuv.Exponential // nil when deadlines are disabled
	priorityRNG  *rand.Rand
	nextDispatch int64 // ticks until the next arrival is due
}

// NewJobCreator validates the rates and binds each distribution to its own RNG subsystem.
// A nil timeoutRate disables deadlines.
func NewJobCreator(arrivalRate, execRate float64, timeoutRate *float64, rng *PartitionedRNG) (*JobCreator, error) {
	if rng == nil {
		panic("NewJobCreator: rng must not be nil")
	}
	if !validRate(arrivalRate) {
		return nil, fmt.Errorf("%w: arrival_rate=%v must be positive and finite", ErrArrivalRateTooSmall, arrivalRate)
	}
	if !validRate(execRate) {
		return nil, fmt.Errorf("%w: exec_rate=%v must be positive and finite", ErrServiceRateTooSmall, execRate)
	}
	jc := &JobCreator{
		interval:    distuv.Poisson{Lambda: arrivalRate, Src: rng.ForSubsystem(SubsystemArrival)},
		execTime:    distuv.Exponential{Rate: execRate, Src: rng.ForSubsystem(SubsystemService)},
		priorityRNG: rng.ForSubsystem(SubsystemPriority),
	}
	if timeoutRate != nil {
		if !validRate(*timeoutRate) {
			return nil, fmt.Errorf("%w: timeout_rate=%v must be positive and finite", ErrServiceRateTooSmall, *timeoutRate)
		}
		jc.timeout = &distuv.Exponential{Rate: *timeoutRate, Src: rng.ForSubsystem(SubsystemTimeout)}
	}
	return jc, nil
}

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// Poll is called once per tick. It emits a definition when the countdown has
// reached zero (resampling the next gap), otherwise it counts down.
func (jc *JobCreator) Poll() (TaskDefinition, bool) {
	if jc.nextDispatch > 0 {
		jc.nextDispatch--
		return TaskDefinition{}, false
	}
	jc.nextDispatch = int64(jc.interval.Rand())
	def := NewTaskDefinition(int64(jc.execTime.Rand()), samplePriority(jc.priorityRNG))
	if jc.timeout != nil {
		def = def.WithTimeout(int64(jc.timeout.Rand()))
	}
	return def, true
}

// NextDispatch returns the ticks remaining until the next arrival.
func (jc *JobCreator) NextDispatch() int64 { return jc.nextDispatch }

// samplePriority maps a uniform draw onto the priority mix.
func samplePriority(rng *rand.Rand) Priority {
	return priorityForDraw(rng.Float64())
}

func priorityForDraw(u float64) Priority {
	switch {
	case u < lowPriorityCutoff:
		return PriorityLow
	case u < normalPriorityCutoff:
		return PriorityNormal
	default:
		return PriorityHigh
	}
}
