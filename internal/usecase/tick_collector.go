package usecase

import (
	"context"

	"BitUp/internal/domain/models"
	drepo "BitUp/internal/domain/repository"
	mid "BitUp/internal/middleware"
)

// TickCollector consumes the upstream exchange feed and forwards ticks into
// the processing pipeline.
type TickCollector struct {
	stream  drepo.TickStream
	proc    *TickProcessor
	metrics drepo.Metrics
	pipe    *mid.TickPipeline
}

// NewTickCollector creates a TickCollector.
func NewTickCollector(stream drepo.TickStream, proc *TickProcessor, metrics drepo.Metrics, pipe *mid.TickPipeline) *TickCollector {
	return &TickCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

// IsConnected reports the upstream feed status.
func (c *TickCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *TickCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *TickCollector) consume(ctx context.Context, tickCh <-chan models.Tick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				if rerr := c.stream.Reconnect(ctx); rerr == nil {
					// old channels are dead after a reconnect
					tickCh, errCh = c.stream.Read(ctx)
				}
			}
		case t, ok := <-tickCh:
			if !ok {
				return
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
			price, _ := t.Price.Float64()
			c.metrics.RecordLastPrice(t.Symbol, price)
		}
	}
}

// Processor returns the underlying TickProcessor for lifecycle management.
func (c *TickCollector) Processor() *TickProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *TickCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
