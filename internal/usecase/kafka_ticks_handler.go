package usecase

import (
	"context"
	"encoding/json"
	"time"

	drepo "BitUp/internal/domain/repository"
	irepo "BitUp/internal/repository"
	pkgkafka "BitUp/pkg/kafka"
)

// KafkaTicksHandler consumes tick messages off Kafka and writes them to the
// tick store.
type KafkaTicksHandler struct {
	topic   string
	storage drepo.TickStore
	metrics drepo.Metrics
}

func NewKafkaTicksHandler(topic string, storage drepo.TickStore, metrics drepo.Metrics) *KafkaTicksHandler {
	return &KafkaTicksHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaTicksHandler) Topic() string { return h.topic }

func (h *KafkaTicksHandler) Handle(ctx context.Context, b []byte) error {
	var m irepo.TickMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return pkgkafka.Permanent(err)
	}
	t, err := m.ToTick()
	if err != nil {
		h.metrics.RecordError("consumer_invalid_tick")
		return pkgkafka.Permanent(err)
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(t.Timestamp).Seconds())

	start := time.Now()
	if err := h.storage.Store(ctx, t); err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	h.metrics.RecordMessageSent("clickhouse", t.Symbol)
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaTicksHandler)(nil)
