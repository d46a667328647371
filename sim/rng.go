package sim

import (
	"hash/fnv"
	"math/rand/v2"
)

// SimulationKey is the master seed of a run. Equal keys with equal Config
// yield identical task records.
type SimulationKey int64

// NewSimulationKey wraps a CLI or test seed.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// Random stream names. Each stochastic concern draws from its own stream.
const (
	SubsystemArrival  = "arrival"  // inter-arrival gaps
	SubsystemService  = "service"  // execution times
	SubsystemTimeout  = "timeout"  // deadlines
	SubsystemPriority = "priority" // priority mix of new tasks
	SubsystemDispatch = "dispatch" // weighted dispatcher level draw
)

// PartitionedRNG hands out one PCG stream per subsystem, keyed by
// (seed, FNV-1a of the subsystem name). Turning deadlines on or switching to
// the weighted dispatcher therefore leaves the arrival and service streams
// untouched.
//
// Not safe for concurrent use.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG creates an empty set of streams for key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: map[string]*rand.Rand{}}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same *rand.Rand.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	stream, ok := p.streams[name]
	if !ok {
		stream = rand.New(rand.NewPCG(uint64(p.key), streamID(name)))
		p.streams[name] = stream
	}
	return stream
}

// Key returns the master seed.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func streamID(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}
