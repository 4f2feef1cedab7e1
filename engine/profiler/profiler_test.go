package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestProfiler(clock *fakeClock) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            clock.now,
	}
	p.lastTime = clock.now()
	p.lastFrame = p.lastTime
	return p
}

func TestProfiler_ReportsPerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newTestProfiler(clock)

	for i := 0; i < 49; i++ {
		clock.advance(20 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock.advance(20 * time.Millisecond)
	require.True(t, p.Tick())

	s := p.Stats()
	assert.Equal(t, 50, s.Frames)
	assert.InDelta(t, 50.0, s.FPS, 1e-9)
	assert.Equal(t, 20*time.Millisecond, s.MeanFrame)
	assert.Equal(t, 20*time.Millisecond, s.MaxFrame)
}

func TestProfiler_MaxFrameResetsEachInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newTestProfiler(clock)

	clock.advance(100 * time.Millisecond)
	p.Tick()
	clock.advance(900 * time.Millisecond)
	require.True(t, p.Tick())
	assert.Equal(t, 900*time.Millisecond, p.Stats().MaxFrame)

	clock.advance(500 * time.Millisecond)
	p.Tick()
	clock.advance(500 * time.Millisecond)
	require.True(t, p.Tick())
	assert.Equal(t, 500*time.Millisecond, p.Stats().MaxFrame)
	assert.Equal(t, 2, p.Stats().Frames)
}

func TestNewProfiler_Options(t *testing.T) {
	p := NewProfiler(WithInterval(250*time.Millisecond), WithoutMemStats())
	assert.Equal(t, 250*time.Millisecond, p.updateInterval)
	assert.False(t, p.readMemStats)
	assert.Equal(t, Stats{}, p.Stats())
}
