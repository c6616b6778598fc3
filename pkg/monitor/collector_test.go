package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCollector_EmitAndStats(t *testing.T) {
	c := NewEventCollector()

	c.EmitStarted("job-1", "orders")
	c.EmitCompleted("job-1", "orders", 10*time.Millisecond)
	c.EmitStarted("job-2", "orders")
	c.EmitFailed("job-2", "orders", 3)
	c.EmitErrored("job-3", "orders", "data unavailable")

	stats := c.Stats()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Passed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Errored)

	events := c.Events()
	require.Len(t, events, 5)
	assert.Equal(t, EventStarted, events[0].Type)
	assert.Equal(t, "passed", events[1].Status)
	assert.Equal(t, 3, events[3].ErrorCount)
	assert.Equal(t, "data unavailable", events[4].Message)
}

func TestEventCollector_StartedEventsDoNotCountAsOutcomes(t *testing.T) {
	c := NewEventCollector()

	c.EmitStarted("job-1", "orders")
	c.EmitCheckFailed("job-1", "orders", "gt")

	stats := c.Stats()
	assert.Equal(t, 0, stats.Total)
	assert.Len(t, c.Events(), 2)
}

func TestEventCollector_Handlers(t *testing.T) {
	c := NewEventCollector()

	var mu sync.Mutex
	var seen []EventType
	c.OnEvent(func(e ValidationEvent) {
		mu.Lock()
		seen = append(seen, e.Type)
		mu.Unlock()
	})

	c.EmitStarted("job-1", "orders")
	c.EmitCompleted("job-1", "orders", time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(
		t, []EventType{EventStarted, EventCompleted}, seen,
	)
}

func TestEventCollector_TimestampAssigned(t *testing.T) {
	c := NewEventCollector()

	c.Emit(ValidationEvent{Type: EventStarted, JobID: "job-1"})

	events := c.Events()
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestEventCollector_Reset(t *testing.T) {
	c := NewEventCollector()

	c.EmitCompleted("job-1", "orders", time.Millisecond)
	c.Reset()

	assert.Empty(t, c.Events())
	assert.Equal(t, 0, c.Stats().Total)
}

func TestEventCollector_ConcurrentEmit(t *testing.T) {
	c := NewEventCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.EmitCompleted("job", "orders", time.Millisecond)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Stats().Passed)
	assert.Len(t, c.Events(), 50)
}
