package sim

import (
	"fmt"
)

// Level identifies one of the three feedback levels.
type Level int

const (
	L1 Level = iota + 1
	L2
	L3
)

func (l Level) String() string {
	switch l {
	case L1, L2, L3:
		return fmt.Sprintf("L%d", int(l))
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Levels is the MLFQ cascade: two round-robin levels over a run-to-completion stage.
type Levels struct {
	L1 LevelQueue
	L2 LevelQueue
	L3 LevelQueue
}

// NewLevels builds the standard cascade with the given round-robin quanta.
func NewLevels(quantum1, quantum2 int64) *Levels {
	return &Levels{
		L1: NewRoundRobinQueue(quantum1),
		L2: NewRoundRobinQueue(quantum2),
		L3: NewFIFOQueue(),
	}
}

// Queue returns the queue for level l. Panics on an unknown level.
func (ls *Levels) Queue(l Level) LevelQueue {
	switch l {
	case L1:
		return ls.L1
	case L2:
		return ls.L2
	case L3:
		return ls.L3
	default:
		panic(fmt.Sprintf("Levels.Queue: unknown level %v", l))
	}
}

// Len returns the combined size of all levels.
func (ls *Levels) Len() int {
	return ls.L1.Len() + ls.L2.Len() + ls.L3.Len()
}

// Dispatcher picks the level to service when the running slot is empty.
// ok is false when the consulted levels yielded nothing.
type Dispatcher interface {
	Select(levels *Levels) (ctx *ExecContext, level Level, ok bool)
}

// DefaultDispatcher serves levels in strict priority order: L1, then L2, then L3.
type DefaultDispatcher struct{}

func (d *DefaultDispatcher) Select(levels *Levels) (*ExecContext, Level, bool) {
	for _, l := range []Level{L1, L2, L3} {
		if ctx := levels.Queue(l).Pop(); ctx != nil {
			return ctx, l, true
		}
	}
	return nil, 0, false
}

// UniformSource yields uniform draws in [0, 1). *rand.Rand satisfies it.
type UniformSource interface {
	Float64() float64
}

// Weighted dispatch shares: L1 80%, L2 10%, L3 10%.
const (
	weightedL1Cutoff = 0.8
	weightedL2Cutoff = 0.9
)

// WeightedDispatcher draws one level per tick (L1 80%, L2 10%, L3 10%) and
// consults only that level. An empty draw yields no dispatch for the tick,
// even if other levels hold tasks.
type WeightedDispatcher struct {
	src UniformSource
}

// NewWeightedDispatcher creates a weighted dispatcher drawing from src.
func NewWeightedDispatcher(src UniformSource) *WeightedDispatcher {
	if src == nil {
		panic("NewWeightedDispatcher: src must not be nil")
	}
	return &WeightedDispatcher{src: src}
}

func (w *WeightedDispatcher) Select(levels *Levels) (*ExecContext, Level, bool) {
	level := levelForDraw(w.src.Float64())
	if ctx := levels.Queue(level).Pop(); ctx != nil {
		return ctx, level, true
	}
	return nil, 0, false
}

func levelForDraw(u float64) Level {
	switch {
	case u < weightedL1Cutoff:
		return L1
	case u < weightedL2Cutoff:
		return L2
	default:
		return L3
	}
}

// ValidDispatchers is the set of recognized dispatcher names.
// Shared by Config.Validate() and NewDispatcher() to avoid duplication.
var ValidDispatchers = map[string]bool{"": true, "default": true, "weighted": true}

// IsValidDispatcher returns true if name is a recognized dispatcher.
func IsValidDispatcher(name string) bool {
	return ValidDispatchers[name]
}

// NewDispatcher creates a Dispatcher by name.
// Empty string defaults to DefaultDispatcher (for CLI flag default compatibility).
// The weighted dispatcher draws from the rng's dispatch subsystem.
// Panics on unrecognized names.
func NewDispatcher(name string, rng *PartitionedRNG) Dispatcher {
	if !IsValidDispatcher(name) {
		panic(fmt.Sprintf("unknown dispatcher %q", name))
	}
	switch name {
	case "", "default":
		return &DefaultDispatcher{}
	case "weighted":
		return NewWeightedDispatcher(rng.ForSubsystem(SubsystemDispatch))
	default:
		panic(fmt.Sprintf("unhandled dispatcher %q", name))
	}
}
