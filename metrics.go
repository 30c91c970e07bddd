package bagtensor

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stage names reported to MetricsCollector.
const (
	StageTokenize  = "tokenize"
	StageVocab     = "vocabulary"
	StageAssemble  = "assemble"
	StageSplit     = "split"
	StagePartition = "partition"
	StageWrite     = "write"
	StageVerify    = "verify"
)

// MetricsCollector defines an interface for collecting run metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see package promcollector.
type MetricsCollector interface {
	// RecordStage is called after each pipeline stage.
	// items is the number of things the stage produced.
	RecordStage(stage string, items int, duration time.Duration, err error)

	// RecordShard is called after each shard write.
	RecordShard(mode string, reviews, values int, bytes int64, duration time.Duration, err error)

	// RecordRepairs is called once per split with the number of reviews moved
	// back into train per mode and the number of skipped repairs.
	RecordRepairs(users, items, words, skipped int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStage(string, int, time.Duration, error)             {}
func (NoopMetricsCollector) RecordShard(string, int, int, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordRepairs(int, int, int, int)                          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ShardCount   atomic.Int64
	ShardErrors  atomic.Int64
	ShardBytes   atomic.Int64
	ShardReviews atomic.Int64
	ShardValues  atomic.Int64
	StageErrors  atomic.Int64
	Repairs      atomic.Int64
	Skipped      atomic.Int64

	mu     sync.Mutex
	stages map[string]time.Duration
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(stage string, _ int, duration time.Duration, err error) {
	if err != nil {
		b.StageErrors.Add(1)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stages == nil {
		b.stages = make(map[string]time.Duration)
	}
	b.stages[stage] += duration
}

// RecordShard implements MetricsCollector.
func (b *BasicMetricsCollector) RecordShard(_ string, reviews, values int, bytes int64, _ time.Duration, err error) {
	b.ShardCount.Add(1)
	if err != nil {
		b.ShardErrors.Add(1)
		return
	}
	b.ShardBytes.Add(bytes)
	b.ShardReviews.Add(int64(reviews))
	b.ShardValues.Add(int64(values))
}

// RecordRepairs implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRepairs(users, items, words, skipped int) {
	b.Repairs.Add(int64(users + items + words))
	b.Skipped.Add(int64(skipped))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	b.mu.Lock()
	stages := make(map[string]time.Duration, len(b.stages))
	for k, v := range b.stages {
		stages[k] = v
	}
	b.mu.Unlock()

	return BasicMetricsStats{
		ShardCount:   b.ShardCount.Load(),
		ShardErrors:  b.ShardErrors.Load(),
		ShardBytes:   b.ShardBytes.Load(),
		ShardReviews: b.ShardReviews.Load(),
		ShardValues:  b.ShardValues.Load(),
		StageErrors:  b.StageErrors.Load(),
		Repairs:      b.Repairs.Load(),
		Skipped:      b.Skipped.Load(),
		Stages:       stages,
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ShardCount   int64
	ShardErrors  int64
	ShardBytes   int64
	ShardReviews int64
	ShardValues  int64
	StageErrors  int64
	Repairs      int64
	Skipped      int64
	Stages       map[string]time.Duration
}
