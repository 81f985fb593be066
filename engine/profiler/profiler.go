package profiler

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Carmen-Shannon/oxy-classroom/engine/profiler"

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Every frame increments the classroom.frames counter; a summary is logged once per interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastFPS        float64

	frames metric.Int64Counter
	log    zerolog.Logger
}

// ProfilerOption is a functional option for configuring a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger the periodic summary is written to.
func WithLogger(log zerolog.Logger) ProfilerOption {
	return func(p *Profiler) {
		p.log = log
	}
}

// WithInterval sets how often the summary is logged. Non-positive values are ignored.
func WithInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
//   - error: error if the frame counter cannot be registered
func NewProfiler(options ...ProfilerOption) (*Profiler, error) {
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		log:            zerolog.Nop(),
	}
	for _, opt := range options {
		opt(p)
	}

	frames, err := otel.Meter(instrumentationName).Int64Counter("classroom.frames",
		metric.WithDescription("Frames rendered by the frame loop"))
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}
	p.frames = frames
	return p, nil
}

// FPS returns the frame rate measured over the last completed interval.
func (p *Profiler) FPS() float64 {
	return p.lastFPS
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frames.Add(context.Background(), 1)
	p.frameCount++

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	p.lastFPS = float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.log.Debug().
		Float64("fps", p.lastFPS).
		Float64("heap_mb", float64(p.memStats.Alloc)/1024/1024).
		Float64("alloc_rate_mb_s", float64(allocDelta)/1024/1024/elapsed.Seconds()).
		Uint32("gc", gcCount).
		Uint64("gc_last_us", lastPauseUs).
		Uint64("gc_max_us", maxPauseUs).
		Float64("sys_mb", float64(p.memStats.Sys)/1024/1024).
		Msg("profiler")

	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
