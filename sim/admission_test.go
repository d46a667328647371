package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdmissionQueue_Pop_PriorityThenArrival(t *testing.T) {
	// GIVEN tasks (Low, arrival=5), (High, arrival=10), (High, arrival=2)
	aq := NewAdmissionQueue()
	aq.Push(NewTask(0, NewTaskDefinition(1, PriorityLow), 5))
	aq.Push(NewTask(1, NewTaskDefinition(1, PriorityHigh), 10))
	aq.Push(NewTask(2, NewTaskDefinition(1, PriorityHigh), 2))

	// WHEN drained
	var got []*Task
	for aq.Len() > 0 {
		got = append(got, aq.Pop())
	}

	// THEN order is (High,2), (High,10), (Low,5)
	if assert.Len(t, got, 3) {
		assert.Equal(t, PriorityHigh, got[0].Priority)
		assert.Equal(t, int64(2), got[0].ArrivalTime)
		assert.Equal(t, PriorityHigh, got[1].Priority)
		assert.Equal(t, int64(10), got[1].ArrivalTime)
		assert.Equal(t, PriorityLow, got[2].Priority)
		assert.Equal(t, int64(5), got[2].ArrivalTime)
	}
}

func TestAdmissionQueue_EqualPriorityAndArrival_LowerIDFirst(t *testing.T) {
	aq := NewAdmissionQueue()
	for _, id := range []int64{4, 1, 3, 2} {
		aq.Push(NewTask(id, NewTaskDefinition(1, PriorityNormal), 0))
	}
	var ids []int64
	for aq.Len() > 0 {
		ids = append(ids, aq.Pop().ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)
}

func TestAdmissionQueue_Empty(t *testing.T) {
	aq := NewAdmissionQueue()
	assert.Nil(t, aq.Pop())
	assert.Nil(t, aq.Peek())
	assert.Equal(t, 0, aq.Len())
}

func TestAdmissionQueue_Peek_DoesNotRemove(t *testing.T) {
	aq := NewAdmissionQueue()
	high := NewTask(1, NewTaskDefinition(1, PriorityHigh), 3)
	aq.Push(NewTask(0, NewTaskDefinition(1, PriorityLow), 0))
	aq.Push(high)

	assert.Same(t, high, aq.Peek())
	assert.Equal(t, 2, aq.Len())
}
