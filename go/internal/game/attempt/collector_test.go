package attempt

import (
	"image"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/wordrace/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_FirstSubmitWins(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var calls int
	c := NewCollector(models.TeamA, fc, nil, func(models.RawAttempt) { calls++ })

	assert.True(t, c.Submit(true, 82, image.NewAlpha(image.Rect(0, 0, 1, 1))))
	fc.Advance(time.Second)
	assert.False(t, c.Submit(true, 10, nil))

	a, ok := c.Attempt()
	require.True(t, ok)
	assert.Equal(t, 82, a.RawAccuracy)
	assert.Equal(t, 1, calls)
}

func TestCollector_ExpireSubmitsBufferedCanvas(t *testing.T) {
	fc := clockwork.NewFakeClock()
	c := NewCollector(models.TeamB, fc, nil, nil)

	c.Buffer(Canvas{HasDrawn: true, RawAccuracy: 55})
	assert.True(t, c.Expire())

	a, ok := c.Attempt()
	require.True(t, ok)
	assert.True(t, a.HasDrawn)
	assert.Equal(t, 55, a.RawAccuracy)
	assert.Equal(t, fc.Now(), a.FinishedAt)
}

func TestCollector_ExpireUntouchedCanvas(t *testing.T) {
	c := NewCollector(models.TeamA, clockwork.NewFakeClock(), nil, nil)

	assert.True(t, c.Expire())

	a, ok := c.Attempt()
	require.True(t, ok)
	assert.False(t, a.HasDrawn)
	assert.Equal(t, 0, a.RawAccuracy)
}

func TestCollector_NotDrawnForcesZero(t *testing.T) {
	c := NewCollector(models.TeamA, clockwork.NewFakeClock(), nil, nil)

	c.Submit(false, 77, image.NewAlpha(image.Rect(0, 0, 1, 1)))

	a, _ := c.Attempt()
	assert.Equal(t, 0, a.RawAccuracy)
	assert.Nil(t, a.Ink)
}

func TestCollector_BufferAfterSubmitIgnored(t *testing.T) {
	c := NewCollector(models.TeamA, clockwork.NewFakeClock(), nil, nil)
	c.Submit(true, 40, nil)
	c.Buffer(Canvas{HasDrawn: true, RawAccuracy: 99})
	c.Expire()

	a, _ := c.Attempt()
	assert.Equal(t, 40, a.RawAccuracy)
}

func TestRound_HandsOffOnceAfterBoth(t *testing.T) {
	fc := clockwork.NewFakeClock()
	var got [][2]models.RawAttempt
	r := NewRound(fc, nil, func(a, b models.RawAttempt) {
		got = append(got, [2]models.RawAttempt{a, b})
	})

	r.Collector(models.TeamB).Submit(true, 61, nil)
	assert.Empty(t, got)
	assert.False(t, r.Complete())

	r.Collector(models.TeamA).Submit(true, 82, nil)
	r.Collector(models.TeamA).Submit(true, 1, nil)
	r.ExpireAll()

	require.Len(t, got, 1)
	assert.Equal(t, models.TeamA, got[0][0].Team)
	assert.Equal(t, 82, got[0][0].RawAccuracy)
	assert.Equal(t, models.TeamB, got[0][1].Team)
	assert.True(t, r.Complete())
}

func TestRound_ExpireAllCompletesRound(t *testing.T) {
	var fired bool
	r := NewRound(clockwork.NewFakeClock(), nil, func(a, b models.RawAttempt) {
		fired = true
		assert.False(t, a.HasDrawn)
		assert.False(t, b.HasDrawn)
	})

	r.ExpireAll()
	assert.True(t, fired)
	assert.Nil(t, r.Collector(models.TeamNone))
}

func TestCollector_MeasureOnlyDrawnInk(t *testing.T) {
	var measured int
	measure := func(image.Image) int {
		measured++
		return 73
	}

	drawn := NewCollector(models.TeamA, clockwork.NewFakeClock(), measure, nil)
	drawn.Submit(true, 0, image.NewAlpha(image.Rect(0, 0, 2, 2)))
	drawn.Submit(true, 0, image.NewAlpha(image.Rect(0, 0, 2, 2)))

	blank := NewCollector(models.TeamB, clockwork.NewFakeClock(), measure, nil)
	blank.Expire()

	a, _ := drawn.Attempt()
	assert.Equal(t, 73, a.RawAccuracy)
	assert.Equal(t, 1, measured)
}
