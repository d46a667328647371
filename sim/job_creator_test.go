package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobCreator_InvalidRates(t *testing.T) {
	tests := []struct {
		name    string
		arrival float64
		exec    float64
		timeout *float64
		wantErr error
	}{
		{"zero arrival", 0, 1, nil, ErrArrivalRateTooSmall},
		{"negative arrival", -1, 1, nil, ErrArrivalRateTooSmall},
		{"NaN arrival", math.NaN(), 1, nil, ErrArrivalRateTooSmall},
		{"infinite arrival", math.Inf(1), 1, nil, ErrArrivalRateTooSmall},
		{"zero exec", 1, 0, nil, ErrServiceRateTooSmall},
		{"negative exec", 1, -0.5, nil, ErrServiceRateTooSmall},
		{"zero timeout", 1, 1, float64Ptr(0), ErrServiceRateTooSmall},
		{"negative timeout", 1, 1, float64Ptr(-2), ErrServiceRateTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewJobCreator(tt.arrival, tt.exec, tt.timeout, NewPartitionedRNG(NewSimulationKey(1)))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestJobCreator_Poll_FirstTickEmits(t *testing.T) {
	jc, err := NewJobCreator(3, 0.5, nil, NewPartitionedRNG(NewSimulationKey(7)))
	require.NoError(t, err)

	def, ok := jc.Poll()

	assert.True(t, ok, "countdown starts at zero")
	assert.GreaterOrEqual(t, def.ExecTime, int64(0))
	assert.Nil(t, def.Timeout, "no timeout distribution configured")
}

func TestJobCreator_Poll_CountsDownBetweenArrivals(t *testing.T) {
	// GIVEN a creator that just emitted
	jc, err := NewJobCreator(5, 0.5, nil, NewPartitionedRNG(NewSimulationKey(11)))
	require.NoError(t, err)
	_, ok := jc.Poll()
	require.True(t, ok)
	gap := jc.NextDispatch()

	// WHEN polled gap more times
	for i := int64(0); i < gap; i++ {
		_, ok := jc.Poll()
		// THEN nothing is emitted until the countdown hits zero
		require.False(t, ok, "poll %d of %d emitted early", i+1, gap)
	}
	_, ok = jc.Poll()
	assert.True(t, ok, "countdown reached zero")
}

func TestJobCreator_ArrivalFrequency_MatchesPoissonGap(t *testing.T) {
	// GIVEN a Poisson gap with mean 2 ticks (one arrival per 3 polls on average)
	jc, err := NewJobCreator(2, 1, nil, NewPartitionedRNG(NewSimulationKey(42)))
	require.NoError(t, err)

	const polls = 30000
	arrivals := 0
	for i := 0; i < polls; i++ {
		if _, ok := jc.Poll(); ok {
			arrivals++
		}
	}

	assert.InDelta(t, polls/3.0, float64(arrivals), polls/3.0*0.1)
}

func TestJobCreator_ExecTime_MatchesExponentialMean(t *testing.T) {
	// GIVEN an exec rate of 0.1 (mean 10 ticks; floor lowers the mean by ~0.5)
	jc, err := NewJobCreator(0.001, 0.1, nil, NewPartitionedRNG(NewSimulationKey(3)))
	require.NoError(t, err)

	var total int64
	n := 0
	for n < 5000 {
		if def, ok := jc.Poll(); ok {
			require.GreaterOrEqual(t, def.ExecTime, int64(0))
			total += def.ExecTime
			n++
		}
	}
	assert.InDelta(t, 9.5, float64(total)/float64(n), 1.0)
}

func TestJobCreator_WithTimeoutRate_EmitsDeadlines(t *testing.T) {
	jc, err := NewJobCreator(1, 1, float64Ptr(0.05), NewPartitionedRNG(NewSimulationKey(5)))
	require.NoError(t, err)

	def, ok := jc.Poll()
	require.True(t, ok)
	if assert.NotNil(t, def.Timeout) {
		assert.GreaterOrEqual(t, *def.Timeout, int64(0))
	}
}

func TestJobCreator_SameSeed_SameDefinitions(t *testing.T) {
	poll := func() []TaskDefinition {
		jc, err := NewJobCreator(2, 0.2, float64Ptr(0.1), NewPartitionedRNG(NewSimulationKey(99)))
		require.NoError(t, err)
		var defs []TaskDefinition
		for i := 0; i < 200; i++ {
			if def, ok := jc.Poll(); ok {
				defs = append(defs, def)
			}
		}
		return defs
	}
	assert.Equal(t, poll(), poll())
}

func TestPriorityForDraw_Mix(t *testing.T) {
	tests := []struct {
		u    float64
		want Priority
	}{
		{0.0, PriorityLow},
		{0.69, PriorityLow},
		{0.7, PriorityNormal},
		{0.89, PriorityNormal},
		{0.9, PriorityHigh},
		{0.999, PriorityHigh},
	}
	for _, tt := range tests {
		if got := priorityForDraw(tt.u); got != tt.want {
			t.Errorf("priorityForDraw(%v) = %v, want %v", tt.u, got, tt.want)
		}
	}
}

func TestSamplePriority_Distribution(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(8)).ForSubsystem(SubsystemPriority)
	counts := map[Priority]int{}
	const n = 20000
	for i := 0; i < n; i++ {
		counts[samplePriority(rng)]++
	}
	assert.InDelta(t, 0.7, float64(counts[PriorityLow])/n, 0.02)
	assert.InDelta(t, 0.2, float64(counts[PriorityNormal])/n, 0.02)
	assert.InDelta(t, 0.1, float64(counts[PriorityHigh])/n, 0.02)
}
