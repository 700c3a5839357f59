package cache

import "sync"

// Stats counts cache hits, misses and upstream API calls. Every avoided
// supplier call is credited with a fixed configurable cost, so cost savings
// grow monotonically with hits.
type Stats struct {
	mu          sync.Mutex
	hits        int64
	misses      int64
	apiCalls    int64
	costPerCall float64
}

// StatsSnapshot is a point-in-time view of the counters.
type StatsSnapshot struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	APICalls     int64   `json:"apiCalls"`
	CacheHitRate float64 `json:"cacheHitRate"`
	CostSavings  float64 `json:"costSavings"`
}

// NewStats constructs a Stats with the given cost per avoided API call.
func NewStats(costPerCall float64) *Stats {
	return &Stats{costPerCall: costPerCall}
}

// RecordHit counts one cache hit.
func (s *Stats) RecordHit() {
	s.mu.Lock()
	s.hits++
	s.mu.Unlock()
}

// RecordMiss counts one cache miss.
func (s *Stats) RecordMiss() {
	s.mu.Lock()
	s.misses++
	s.mu.Unlock()
}

// RecordAPICall counts one upstream supplier call.
func (s *Stats) RecordAPICall() {
	s.mu.Lock()
	s.apiCalls++
	s.mu.Unlock()
}

// Snapshot returns current counters. Hit rate is 0 while no request has
// been counted, never NaN.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Hits:        s.hits,
		Misses:      s.misses,
		APICalls:    s.apiCalls,
		CostSavings: float64(s.hits) * s.costPerCall,
	}
	if total := s.hits + s.misses; total > 0 {
		snap.CacheHitRate = float64(s.hits) / float64(total)
	}
	return snap
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	s.mu.Lock()
	s.hits = 0
	s.misses = 0
	s.apiCalls = 0
	s.mu.Unlock()
}
