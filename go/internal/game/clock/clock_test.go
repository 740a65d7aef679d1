package clock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundClock_NotStartedReadsFullDuration(t *testing.T) {
	fc := clockwork.NewFakeClock()
	rc := New(fc, DefaultRoundDuration)

	fc.Advance(time.Minute)

	assert.False(t, rc.Started())
	assert.Equal(t, 20, rc.Remaining())
	assert.False(t, rc.Expired())
	_, ok := rc.Deadline()
	assert.False(t, ok)
}

func TestRoundClock_StartCapturedOnce(t *testing.T) {
	fc := clockwork.NewFakeClock()
	rc := New(fc, DefaultRoundDuration)

	first := rc.Start()
	fc.Advance(3 * time.Second)
	second := rc.Start()

	assert.Equal(t, first, second)
	assert.Equal(t, 17, rc.Remaining())
	deadline, ok := rc.Deadline()
	require.True(t, ok)
	assert.Equal(t, first.Add(20*time.Second), deadline)
}

func TestRoundClock_RemainingFloorsElapsed(t *testing.T) {
	fc := clockwork.NewFakeClock()
	rc := New(fc, DefaultQuizDuration)
	rc.Start()

	fc.Advance(999 * time.Millisecond)
	assert.Equal(t, 15, rc.Remaining())

	fc.Advance(time.Millisecond)
	assert.Equal(t, 14, rc.Remaining())

	fc.Advance(20 * time.Second)
	assert.Equal(t, 0, rc.Remaining())
	assert.True(t, rc.Expired())
}

func TestRemainingAt_SharedStartAgrees(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	total := DefaultRoundDuration

	// two surfaces polling on the same cadence but offset by render jitter
	for step := 0; step < 100; step++ {
		now := start.Add(time.Duration(step) * DefaultPollInterval)
		jittered := now.Add(DefaultPollInterval - time.Millisecond)

		a := RemainingAt(start, now, total)
		b := RemainingAt(start, jittered, total)
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1, "step %d", step)
	}
}

func TestRemainingAt_ClockSkewBeforeStart(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 20, RemainingAt(start, start.Add(-time.Second), DefaultRoundDuration))
}

func TestWatch_FiresExpiryOnce(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fc := clockwork.NewFakeClock()
	rc := New(fc, 2*time.Second)
	rc.Start()

	var expired atomic.Int32
	var lastTick atomic.Int32
	w := Watch(ctx, fc, rc, DefaultPollInterval, func(remaining int) {
		lastTick.Store(int32(remaining))
	}, func() {
		expired.Add(1)
	})

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(2 * time.Second)

	select {
	case <-w.Done():
	case <-ctx.Done():
		t.Fatal("watcher did not stop after expiry")
	}

	assert.Equal(t, int32(1), expired.Load())
	assert.Equal(t, int32(0), lastTick.Load())
}

func TestWatch_StopPreventsExpiry(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	fc := clockwork.NewFakeClock()
	rc := New(fc, time.Second)
	rc.Start()

	var expired atomic.Int32
	w := Watch(ctx, fc, rc, DefaultPollInterval, nil, func() { expired.Add(1) })
	require.NoError(t, fc.BlockUntilContext(ctx, 1))

	w.Stop()
	<-w.Done()
	fc.Advance(5 * time.Second)

	assert.Equal(t, int32(0), expired.Load())
}
