package metrics

import (
	"sync"
	"testing"
	"time"
)

func TestLatencyTrackerStats(t *testing.T) {
	lt := NewLatencyTracker(100)
	for i := 1; i <= 100; i++ {
		lt.Record(time.Duration(i) * time.Millisecond)
	}

	stats := lt.Stats()
	if stats.Count != 100 {
		t.Errorf("Count = %d, want 100", stats.Count)
	}
	if stats.P50Ms != 50 {
		t.Errorf("P50Ms = %v, want 50", stats.P50Ms)
	}
	if stats.P99Ms != 99 {
		t.Errorf("P99Ms = %v, want 99", stats.P99Ms)
	}
	if stats.MaxMs != 100 {
		t.Errorf("MaxMs = %v, want 100", stats.MaxMs)
	}
}

func TestLatencyTrackerWindow(t *testing.T) {
	lt := NewLatencyTracker(10)
	for i := 0; i < 25; i++ {
		lt.Record(time.Millisecond)
	}
	if got := lt.Stats().Count; got > 10 {
		t.Errorf("Count = %d, want <= 10", got)
	}
	if got := NewLatencyTracker(0).Stats(); got.Count != 0 {
		t.Errorf("empty tracker Count = %d", got.Count)
	}
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry(50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Record(StageFeed, 5*time.Millisecond)
		}()
	}
	wg.Wait()
	r.Outcomes.AdvisorFallbacks.Add(2)

	snap := r.Snapshot()
	stages := snap["stages"].(map[string]LatencyStats)
	if stages[StageFeed].Count != 8 {
		t.Errorf("feed count = %d, want 8", stages[StageFeed].Count)
	}
	outcomes := snap["outcomes"].(map[string]int64)
	if outcomes["advisor_fallbacks"] != 2 {
		t.Errorf("advisor_fallbacks = %d, want 2", outcomes["advisor_fallbacks"])
	}
}
