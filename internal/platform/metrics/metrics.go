package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	batchesProcessed    uint64
	disburseSuccesses   uint64
	disburseFailures    uint64
	batchDurationMsTot  uint64
	terminationsCreated uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) RecordBatch(successes, failures int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.batchesProcessed, 1)
	atomic.AddUint64(&c.disburseSuccesses, uint64(successes))
	atomic.AddUint64(&c.disburseFailures, uint64(failures))
	atomic.AddUint64(&c.batchDurationMsTot, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordTermination() {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.terminationsCreated, 1)
}

func (c *Collector) Snapshot() map[string]any {
	if c == nil {
		return map[string]any{}
	}
	batches := atomic.LoadUint64(&c.batchesProcessed)
	totalMs := atomic.LoadUint64(&c.batchDurationMsTot)
	avg := float64(0)
	if batches > 0 {
		avg = float64(totalMs) / float64(batches)
	}
	return map[string]any{
		"batchesProcessed":     batches,
		"disbursementsOk":      atomic.LoadUint64(&c.disburseSuccesses),
		"disbursementsFailed":  atomic.LoadUint64(&c.disburseFailures),
		"terminationsCreated":  atomic.LoadUint64(&c.terminationsCreated),
		"avgBatchDurationMs":   avg,
		"totalBatchDurationMs": totalMs,
	}
}
