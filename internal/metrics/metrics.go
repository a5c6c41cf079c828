package metrics

import (
	"sync"
	"time"
)

type upstreamStats struct {
	attempts        int
	errors          int
	retries         int
	lastRetryDelay  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about upstream calls, the
// cache, and resolution outcomes. It is intentionally simple so it can be
// swapped for a real backend later.
type Recorder struct {
	mu          sync.Mutex
	stats       map[string]*upstreamStats
	cacheHits   int
	cacheMisses int
	resolutions map[string]int
	otel        *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats:       make(map[string]*upstreamStats),
		resolutions: make(map[string]int),
		otel:        otel,
	}
}

// RecordUpstreamAttempt increments counters for an upstream call and stores the last observed latency.
func (r *Recorder) RecordUpstreamAttempt(upstream string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(upstream)
	stats.attempts++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordUpstreamAttempt(upstream, duration, err)
	}
}

// RecordRetry tracks a scheduled retry against an upstream and its computed delay.
func (r *Recorder) RecordRetry(upstream string, delay time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStats(upstream)
	stats.retries++
	if delay > 0 {
		stats.lastRetryDelay = delay
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRetry(upstream, delay)
	}
}

// RecordCache tracks a cache lookup result.
func (r *Recorder) RecordCache(hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	if hit {
		r.cacheHits++
	} else {
		r.cacheMisses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCache(hit)
	}
}

// RecordResolution tracks a terminal resolution outcome.
func (r *Recorder) RecordResolution(outcome string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.resolutions[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordResolution(outcome)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the current stats for one upstream.
type Snapshot struct {
	Attempts        int
	Errors          int
	Retries         int
	LastRetryDelay  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(upstream string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[upstream]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Attempts:        stats.attempts,
		Errors:          stats.errors,
		Retries:         stats.retries,
		LastRetryDelay:  stats.lastRetryDelay,
		LastCallLatency: stats.lastCallLatency,
	}
}

// UpstreamAttempts returns the total attempts recorded for an upstream.
func (r *Recorder) UpstreamAttempts(upstream string) int {
	return r.Snapshot(upstream).Attempts
}

// UpstreamErrors returns the total failed attempts recorded for an upstream.
func (r *Recorder) UpstreamErrors(upstream string) int {
	return r.Snapshot(upstream).Errors
}

// UpstreamRetries returns the retries recorded for an upstream.
func (r *Recorder) UpstreamRetries(upstream string) int {
	return r.Snapshot(upstream).Retries
}

// CacheHits returns the recorded cache hit count.
func (r *Recorder) CacheHits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheHits
}

// CacheMisses returns the recorded cache miss count.
func (r *Recorder) CacheMisses() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheMisses
}

// Resolutions returns the count of terminal resolutions for an outcome.
func (r *Recorder) Resolutions(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolutions[outcome]
}

// ensureStats must be called with the mutex held.
func (r *Recorder) ensureStats(upstream string) *upstreamStats {
	stats, ok := r.stats[upstream]
	if !ok {
		stats = &upstreamStats{}
		r.stats[upstream] = stats
	}
	return stats
}
