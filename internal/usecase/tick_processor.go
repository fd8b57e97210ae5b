package usecase

import (
	"context"
	"fmt"
	"time"

	"BitUp/internal/domain/models"
	drepo "BitUp/internal/domain/repository"
)

// TickProcessor routes validated ticks to the configured backend: the Kafka
// topic in pipeline deployments, or straight into ClickHouse for
// single-binary setups.
type TickProcessor struct {
	pub     drepo.Publisher
	store   drepo.TickStore
	metrics drepo.Metrics
	backend string
}

// NewTickProcessor creates a TickProcessor.
func NewTickProcessor(pub drepo.Publisher, store drepo.TickStore, metrics drepo.Metrics, backend string) *TickProcessor {
	return &TickProcessor{pub: pub, store: store, metrics: metrics, backend: backend}
}

// Process routes a single tick.
func (p *TickProcessor) Process(ctx context.Context, t models.Tick) error {
	if err := t.Validate(); err != nil {
		p.metrics.RecordError("process_validate")
		return err
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, t)
	case "clickhouse":
		err = p.store.Store(ctx, t)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process tick: %w", err)
	}

	p.metrics.RecordMessageSent(p.backend, t.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

// ProcessBatch routes a batch of ticks.
func (p *TickProcessor) ProcessBatch(ctx context.Context, ticks []models.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	start := time.Now()
	var err error
	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, ticks)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, ticks)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}
	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, t := range ticks {
		p.metrics.RecordMessageSent(p.backend, t.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *TickProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
