package middleware

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	domrepo "BitUp/internal/domain/repository"
)

type hookStartKey struct{}

// ConsumeMetricsHook records handling latency and failures for messages
// consumed off the tick topic.
type ConsumeMetricsHook struct {
	metrics domrepo.Metrics
}

// NewConsumeMetricsHook creates the hook.
func NewConsumeMetricsHook(metrics domrepo.Metrics) *ConsumeMetricsHook {
	return &ConsumeMetricsHook{metrics: metrics}
}

func (h *ConsumeMetricsHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return context.WithValue(ctx, hookStartKey{}, time.Now()), km, data, nil
}

func (h *ConsumeMetricsHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if start, ok := ctx.Value(hookStartKey{}).(time.Time); ok {
		h.metrics.RecordLatency("consume_handle", time.Since(start).Seconds())
	}
}

func (h *ConsumeMetricsHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	h.metrics.RecordError("consume_handle")
}
