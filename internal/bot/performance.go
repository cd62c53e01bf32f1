package bot

import (
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// PerformanceMonitor tracks bot-level throughput and latency counters.
// The automod engine exports its own Prometheus metrics; these counters
// back the /stats command and the heartbeat log line.
type PerformanceMonitor struct {
	// Command execution metrics
	commandCount   atomic.Uint64
	commandLatency atomic.Int64 // nanoseconds

	// Gateway message throughput
	messageCount atomic.Uint64

	// REST API metrics
	restCallCount atomic.Uint64
	restLatency   atomic.Int64 // nanoseconds
	restErrors    atomic.Uint64

	// WebSocket metrics
	wsLatency atomic.Int64 // milliseconds

	startTime time.Time
}

func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime: time.Now(),
	}
}

// RecordCommand records command execution time
func (pm *PerformanceMonitor) RecordCommand(duration time.Duration) {
	pm.commandCount.Add(1)
	pm.commandLatency.Store(duration.Nanoseconds())
}

// IncrementMessages counts one gateway message seen
func (pm *PerformanceMonitor) IncrementMessages() {
	pm.messageCount.Add(1)
}

// TrackREST records REST API call time
func (pm *PerformanceMonitor) TrackREST(duration time.Duration) {
	pm.restCallCount.Add(1)
	pm.restLatency.Store(duration.Nanoseconds())
}

// IncrementErrors counts one failed enforcement REST call
func (pm *PerformanceMonitor) IncrementErrors() {
	pm.restErrors.Add(1)
}

// UpdateWSLatency updates WebSocket latency
func (pm *PerformanceMonitor) UpdateWSLatency(latency time.Duration) {
	pm.wsLatency.Store(latency.Milliseconds())
}

// GetStats returns current performance statistics
func (pm *PerformanceMonitor) GetStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"uptime_seconds":     time.Since(pm.startTime).Seconds(),
		"command_count":      pm.commandCount.Load(),
		"command_latency_ns": pm.commandLatency.Load(),
		"message_count":      pm.messageCount.Load(),
		"rest_call_count":    pm.restCallCount.Load(),
		"rest_latency_ns":    pm.restLatency.Load(),
		"rest_errors":        pm.restErrors.Load(),
		"ws_latency_ms":      pm.wsLatency.Load(),
		"goroutines":         runtime.NumGoroutine(),
		"memory_alloc_mb":    m.Alloc / 1024 / 1024,
		"memory_sys_mb":      m.Sys / 1024 / 1024,
		"gc_count":           m.NumGC,
		"cpu_cores":          runtime.NumCPU(),
	}
}

// PerfTransport wraps http.RoundTripper to track REST latency
type PerfTransport struct {
	Base    http.RoundTripper
	Monitor *PerformanceMonitor
}

func (t *PerfTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.Base.RoundTrip(req)
	t.Monitor.TrackREST(time.Since(start))
	return resp, err
}
