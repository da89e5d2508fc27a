// Package metrics tracks pipeline stage latency with percentile summaries
// and counts degraded outcomes.
package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Pipeline stages.
const (
	StageAdvisor  = "advisor"
	StageUserPool = "user_pool"
	StageFeed     = "feed_fanout"
	StageAssemble = "assemble"
	StagePipeline = "pipeline"
	StageAccept   = "accept"
)

// LatencyTracker keeps a sliding window of samples in microseconds.
type LatencyTracker struct {
	mu         sync.Mutex
	samples    []int64
	maxSamples int
	sorted     bool
}

func NewLatencyTracker(windowSize int) *LatencyTracker {
	if windowSize <= 0 {
		windowSize = 1000
	}
	return &LatencyTracker{
		samples:    make([]int64, 0, windowSize),
		maxSamples: windowSize,
	}
}

// Record drops the oldest 10% when the window is full.
func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	if len(lt.samples) >= lt.maxSamples {
		drop := lt.maxSamples / 10
		if drop < 1 {
			drop = 1
		}
		lt.samples = lt.samples[drop:]
	}
	lt.samples = append(lt.samples, d.Microseconds())
	lt.sorted = false
}

// LatencyStats summarizes a tracker window.
type LatencyStats struct {
	Count int64   `json:"count"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
	MaxMs float64 `json:"max_ms"`
}

func (lt *LatencyTracker) Stats() LatencyStats {
	lt.mu.Lock()
	defer lt.mu.Unlock()

	n := len(lt.samples)
	if n == 0 {
		return LatencyStats{}
	}
	if !lt.sorted {
		sort.Slice(lt.samples, func(i, j int) bool { return lt.samples[i] < lt.samples[j] })
		lt.sorted = true
	}

	var sum int64
	for _, v := range lt.samples {
		sum += v
	}
	return LatencyStats{
		Count: int64(n),
		AvgMs: toMs(sum / int64(n)),
		P50Ms: toMs(lt.percentile(0.50)),
		P95Ms: toMs(lt.percentile(0.95)),
		P99Ms: toMs(lt.percentile(0.99)),
		MaxMs: toMs(lt.samples[n-1]),
	}
}

// percentile expects the lock held and samples sorted.
func (lt *LatencyTracker) percentile(p float64) int64 {
	idx := int(float64(len(lt.samples)-1) * p)
	return lt.samples[idx]
}

func toMs(micros int64) float64 {
	return float64(micros) / 1000
}

// Outcomes counts degraded-but-successful pipeline results.
type Outcomes struct {
	AdvisorFallbacks atomic.Int64
	RegionFailures   atomic.Int64
	UserPoolFailures atomic.Int64
	EmptyResults     atomic.Int64
	Timeouts         atomic.Int64
}

// Registry holds one tracker per stage.
type Registry struct {
	mu       sync.RWMutex
	trackers map[string]*LatencyTracker
	window   int

	Outcomes Outcomes
}

func NewRegistry(windowSize int) *Registry {
	return &Registry{
		trackers: make(map[string]*LatencyTracker),
		window:   windowSize,
	}
}

func (r *Registry) Record(stage string, d time.Duration) {
	r.mu.RLock()
	tracker, ok := r.trackers[stage]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		if tracker, ok = r.trackers[stage]; !ok {
			tracker = NewLatencyTracker(r.window)
			r.trackers[stage] = tracker
		}
		r.mu.Unlock()
	}
	tracker.Record(d)
}

// Since records the time elapsed from start.
func (r *Registry) Since(stage string, start time.Time) {
	r.Record(stage, time.Since(start))
}

// Snapshot returns stage stats plus outcome counters.
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	stages := make(map[string]LatencyStats, len(r.trackers))
	for name, t := range r.trackers {
		stages[name] = t.Stats()
	}
	r.mu.RUnlock()

	return map[string]any{
		"stages": stages,
		"outcomes": map[string]int64{
			"advisor_fallbacks":  r.Outcomes.AdvisorFallbacks.Load(),
			"region_failures":    r.Outcomes.RegionFailures.Load(),
			"user_pool_failures": r.Outcomes.UserPoolFailures.Load(),
			"empty_results":      r.Outcomes.EmptyResults.Load(),
			"timeouts":           r.Outcomes.Timeouts.Load(),
		},
	}
}
