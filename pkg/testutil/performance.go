package testutil

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

// PerformanceTest measures a workload that reports how many rows it handled.
type PerformanceTest struct {
	t         testing.TB
	name      string
	threshold struct {
		minThroughput float64 // rows/sec
		maxMemory     int64   // bytes
	}
}

// Result is what PerformanceTest.Run observed.
type Result struct {
	Rows       int64
	Duration   time.Duration
	Throughput float64
	MemoryUsed int64
}

// NewPerformanceTest creates a new performance test
func NewPerformanceTest(t testing.TB, name string) *PerformanceTest {
	return &PerformanceTest{
		t:    t,
		name: name,
	}
}

// WithThroughputTarget sets minimum throughput requirement
func (p *PerformanceTest) WithThroughputTarget(rowsPerSec float64) *PerformanceTest {
	p.threshold.minThroughput = rowsPerSec
	return p
}

// WithMemoryTarget sets maximum heap growth
func (p *PerformanceTest) WithMemoryTarget(maxBytes int64) *PerformanceTest {
	p.threshold.maxMemory = maxBytes
	return p
}

// Run times fn, logs the results and checks the configured targets.
func (p *PerformanceTest) Run(fn func() int64) Result {
	p.t.Helper()

	initialMem := CaptureMemoryProfile()
	start := time.Now()
	rows := fn()
	duration := time.Since(start)
	finalMem := CaptureMemoryProfile()

	res := Result{
		Rows:       rows,
		Duration:   duration,
		MemoryUsed: int64(finalMem.HeapAlloc) - int64(initialMem.HeapAlloc),
	}
	if duration > 0 {
		res.Throughput = float64(rows) / duration.Seconds()
	}

	p.t.Logf("Performance Test: %s", p.name)
	p.t.Logf("  Rows: %d", rows)
	p.t.Logf("  Duration: %v", duration)
	p.t.Logf("  Throughput: %.0f rows/sec", res.Throughput)
	p.t.Logf("  Heap Growth: %s", FormatBytes(res.MemoryUsed))

	if p.threshold.minThroughput > 0 && res.Throughput < p.threshold.minThroughput {
		p.t.Errorf("Throughput %.0f rows/sec below target %.0f rows/sec",
			res.Throughput, p.threshold.minThroughput)
	}
	if p.threshold.maxMemory > 0 && res.MemoryUsed > p.threshold.maxMemory {
		p.t.Errorf("Heap growth %s exceeds target %s",
			FormatBytes(res.MemoryUsed), FormatBytes(p.threshold.maxMemory))
	}
	return res
}

// MemoryProfile captures memory statistics
type MemoryProfile struct {
	HeapAlloc  uint64
	HeapInuse  uint64
	TotalAlloc uint64
	Mallocs    uint64
	Frees      uint64
}

// CaptureMemoryProfile captures current memory profile
func CaptureMemoryProfile() *MemoryProfile {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &MemoryProfile{
		HeapAlloc:  m.HeapAlloc,
		HeapInuse:  m.HeapInuse,
		TotalAlloc: m.TotalAlloc,
		Mallocs:    m.Mallocs,
		Frees:      m.Frees,
	}
}

// FormatBytes formats bytes into a human-readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < 0 {
		return "-" + FormatBytes(-bytes)
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
