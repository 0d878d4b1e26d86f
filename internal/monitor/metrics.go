package monitor

import (
	"runtime"
	"sync/atomic"
	"time"
)

// OperationType names a unit of dashboard work being timed.
type OperationType string

const (
	OperationPage     OperationType = "page"
	OperationFragment OperationType = "fragment"
	OperationMap      OperationType = "map"
	OperationAPI      OperationType = "api"
	OperationExport   OperationType = "export"
	OperationReload   OperationType = "reload"
)

// Operations lists every tracked operation in display order.
var Operations = []OperationType{
	OperationPage, OperationFragment, OperationMap,
	OperationAPI, OperationExport, OperationReload,
}

// MemoryMetrics holds memory-related runtime metrics
type MemoryMetrics struct {
	HeapAlloc    uint64 `json:"heap_alloc"`     // bytes allocated in heap
	HeapInuse    uint64 `json:"heap_inuse"`     // bytes in in-use spans
	Sys          uint64 `json:"sys"`            // total bytes from system
	NumGC        uint32 `json:"num_gc"`         // number of garbage collections
	PauseTotalNs uint64 `json:"pause_total_ns"` // total GC pause time
}

// OperationMetrics holds metrics for one operation
type OperationMetrics struct {
	Operation  OperationType `json:"operation"`
	Count      int64         `json:"count"`
	ErrorCount int64         `json:"error_count"`
	TotalTime  int64         `json:"total_time_ns"`
	MinTime    int64         `json:"min_time_ns"`
	MaxTime    int64         `json:"max_time_ns"`
	AvgTime    int64         `json:"avg_time_ns"`
}

// MetricsSnapshot is a point-in-time view of all metrics
type MetricsSnapshot struct {
	Timestamp    time.Time          `json:"timestamp"`
	Uptime       string             `json:"uptime"`
	Goroutines   int                `json:"goroutines"`
	Memory       MemoryMetrics      `json:"memory"`
	DatasetSwaps int64              `json:"dataset_swaps"`
	Operations   []OperationMetrics `json:"operations"`
}

// Counter is a thread-safe counter metric
type Counter struct {
	value int64
	name  string
}

// NewCounter creates a new counter metric
func NewCounter(name string) *Counter {
	return &Counter{name: name}
}

// Inc increments the counter by 1
func (c *Counter) Inc() {
	atomic.AddInt64(&c.value, 1)
}

// Add adds the given value to the counter
func (c *Counter) Add(value int64) {
	atomic.AddInt64(&c.value, value)
}

// Get returns the current counter value
func (c *Counter) Get() int64 {
	return atomic.LoadInt64(&c.value)
}

// Name returns the counter name
func (c *Counter) Name() string {
	return c.name
}

const unsetMin = int64(^uint64(0) >> 1)

// Timer is a thread-safe timer for operation durations
type Timer struct {
	count     int64
	totalTime int64
	minTime   int64
	maxTime   int64
	name      string
}

// NewTimer creates a new timer metric
func NewTimer(name string) *Timer {
	return &Timer{name: name, minTime: unsetMin}
}

// Record records a duration measurement
func (t *Timer) Record(duration time.Duration) {
	nanos := duration.Nanoseconds()

	atomic.AddInt64(&t.count, 1)
	atomic.AddInt64(&t.totalTime, nanos)

	for {
		current := atomic.LoadInt64(&t.minTime)
		if nanos >= current || atomic.CompareAndSwapInt64(&t.minTime, current, nanos) {
			break
		}
	}
	for {
		current := atomic.LoadInt64(&t.maxTime)
		if nanos <= current || atomic.CompareAndSwapInt64(&t.maxTime, current, nanos) {
			break
		}
	}
}

// Count returns the number of recorded measurements
func (t *Timer) Count() int64 {
	return atomic.LoadInt64(&t.count)
}

// TotalTime returns the total time of all measurements
func (t *Timer) TotalTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&t.totalTime))
}

// MinTime returns the minimum recorded time
func (t *Timer) MinTime() time.Duration {
	minTime := atomic.LoadInt64(&t.minTime)
	if minTime == unsetMin {
		return 0
	}
	return time.Duration(minTime)
}

// MaxTime returns the maximum recorded time
func (t *Timer) MaxTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&t.maxTime))
}

// AvgTime returns the average time of all measurements
func (t *Timer) AvgTime() time.Duration {
	count := atomic.LoadInt64(&t.count)
	if count == 0 {
		return 0
	}
	return time.Duration(atomic.LoadInt64(&t.totalTime) / count)
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}

func collectMemory() MemoryMetrics {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryMetrics{
		HeapAlloc:    m.HeapAlloc,
		HeapInuse:    m.HeapInuse,
		Sys:          m.Sys,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

func goroutines() int {
	return runtime.NumGoroutine()
}
