package service

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cli-utils/internal/logging"
)

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	s := NewSchedulerService(time.UTC, logging.Discard())
	_, err := s.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = s.ScheduleInterval(-time.Second, func() {})
	assert.Error(t, err)
}

func TestScheduleIntervalSkipsOverlappingRuns(t *testing.T) {
	s := NewSchedulerService(time.UTC, logging.Discard())

	var running, maxRunning, runs atomic.Int32
	_, err := s.ScheduleInterval(time.Second, func() {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		runs.Add(1)
		time.Sleep(1500 * time.Millisecond)
		running.Add(-1)
	})
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 6*time.Second, 20*time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), maxRunning.Load())
	assert.Zero(t, running.Load(), "Stop waits for the running job")
}
