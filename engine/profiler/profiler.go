package profiler

import (
	"log"
	"runtime"
	"time"
)

// Stats is one reporting interval's worth of frame and memory statistics.
type Stats struct {
	Frames      int
	FPS         float64
	MeanFrame   time.Duration
	MaxFrame    time.Duration
	HeapMB      float64
	AllocRateMB float64
	GCCount     uint32
	SysMB       float64
}

// Profiler tracks frame rate, frame time and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	lastFrame      time.Time
	maxFrame       time.Duration
	updateInterval time.Duration
	memStats       runtime.MemStats
	readMemStats   bool
	lastGCCount    uint32
	lastTotalAlloc uint64
	stats          Stats
	now            func() time.Time
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithInterval sets how often statistics are computed and logged.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerOption: option function to apply
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) {
		p.updateInterval = interval
	}
}

// WithoutMemStats skips runtime.ReadMemStats, which stops the world, and reports only frame timing.
//
// Returns:
//   - ProfilerOption: option function to apply
func WithoutMemStats() ProfilerOption {
	return func(p *Profiler) {
		p.readMemStats = false
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		readMemStats:   true,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	p.lastFrame = p.lastTime
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	currentTime := p.now()
	p.frameCount++
	if frame := currentTime.Sub(p.lastFrame); frame > p.maxFrame {
		p.maxFrame = frame
	}
	p.lastFrame = currentTime

	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	s := Stats{
		Frames:    p.frameCount,
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		MeanFrame: elapsed / time.Duration(p.frameCount),
		MaxFrame:  p.maxFrame,
	}

	if p.readMemStats {
		runtime.ReadMemStats(&p.memStats)
		// Alloc: live heap bytes. TotalAlloc: cumulative, tracks churn. Sys: process footprint.
		s.HeapMB = float64(p.memStats.Alloc) / 1024 / 1024
		s.SysMB = float64(p.memStats.Sys) / 1024 / 1024
		allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
		s.AllocRateMB = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()
		s.GCCount = p.memStats.NumGC
		p.lastGCCount = s.GCCount
		p.lastTotalAlloc = p.memStats.TotalAlloc

		log.Printf("[Profiler] FPS: %.2f | Frame: %.2f ms (max %.2f ms) | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d | Sys: %.2f MB",
			s.FPS, ms(s.MeanFrame), ms(s.MaxFrame), s.HeapMB, s.AllocRateMB, s.GCCount, s.SysMB)
	} else {
		log.Printf("[Profiler] FPS: %.2f | Frame: %.2f ms (max %.2f ms)", s.FPS, ms(s.MeanFrame), ms(s.MaxFrame))
	}

	p.stats = s
	p.frameCount = 0
	p.maxFrame = 0
	p.lastTime = currentTime
	return true
}

// Stats returns the statistics of the last completed interval.
//
// Returns:
//   - Stats: the last reported statistics, zero before the first report
func (p *Profiler) Stats() Stats {
	return p.stats
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
