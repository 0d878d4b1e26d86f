// Package monitor keeps in-process timings of the dashboard operations the
// server performs.
package monitor

import (
	"sync"
	"time"
)

// Collector tracks operation timings and dataset swaps.
type Collector struct {
	started time.Time
	swaps   *Counter

	mu     sync.RWMutex
	timers map[OperationType]*Timer
	errors map[OperationType]*Counter
}

// New creates a collector with a timer for every known operation.
func New() *Collector {
	c := &Collector{
		started: time.Now(),
		swaps:   NewCounter("dataset_swaps"),
		timers:  make(map[OperationType]*Timer, len(Operations)),
		errors:  make(map[OperationType]*Counter, len(Operations)),
	}
	for _, op := range Operations {
		c.timers[op] = NewTimer(string(op))
		c.errors[op] = NewCounter(string(op) + "_errors")
	}
	return c
}

func (c *Collector) timer(op OperationType) (*Timer, *Counter) {
	c.mu.RLock()
	t, ok := c.timers[op]
	e := c.errors[op]
	c.mu.RUnlock()
	if ok {
		return t, e
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok = c.timers[op]; !ok {
		t = NewTimer(string(op))
		e = NewCounter(string(op) + "_errors")
		c.timers[op] = t
		c.errors[op] = e
	}
	return t, c.errors[op]
}

// Record adds one timed run of op.
func (c *Collector) Record(op OperationType, d time.Duration, failed bool) {
	t, e := c.timer(op)
	t.Record(d)
	if failed {
		e.Inc()
	}
}

// TrackOperationWithError times fn and counts it as failed when it errors.
func (c *Collector) TrackOperationWithError(op OperationType, fn func() error) error {
	start := time.Now()
	err := fn()
	c.Record(op, time.Since(start), err != nil)
	return err
}

// DatasetSwapped counts a dashboard replaced after a reload.
func (c *Collector) DatasetSwapped() {
	c.swaps.Inc()
}

// Snapshot returns the current metrics.
func (c *Collector) Snapshot() MetricsSnapshot {
	c.mu.RLock()
	ops := make([]OperationType, 0, len(c.timers))
	ops = append(ops, Operations...)
	for op := range c.timers {
		if !known(op) {
			ops = append(ops, op)
		}
	}
	snap := MetricsSnapshot{
		Timestamp:    time.Now(),
		Uptime:       time.Since(c.started).Round(time.Second).String(),
		Goroutines:   goroutines(),
		Memory:       collectMemory(),
		DatasetSwaps: c.swaps.Get(),
		Operations:   make([]OperationMetrics, 0, len(ops)),
	}
	for _, op := range ops {
		t := c.timers[op]
		snap.Operations = append(snap.Operations, OperationMetrics{
			Operation:  op,
			Count:      t.Count(),
			ErrorCount: c.errors[op].Get(),
			TotalTime:  t.TotalTime().Nanoseconds(),
			MinTime:    t.MinTime().Nanoseconds(),
			MaxTime:    t.MaxTime().Nanoseconds(),
			AvgTime:    t.AvgTime().Nanoseconds(),
		})
	}
	c.mu.RUnlock()
	return snap
}

// Operation returns the metrics of op from s.
func (s MetricsSnapshot) Operation(op OperationType) (OperationMetrics, bool) {
	for _, m := range s.Operations {
		if m.Operation == op {
			return m, true
		}
	}
	return OperationMetrics{}, false
}

func known(op OperationType) bool {
	for _, o := range Operations {
		if o == op {
			return true
		}
	}
	return false
}
