package repository

import (
	"context"
	"time"

	"BitUp/internal/domain/models"
)

// TickStream is an upstream exchange trade feed.
type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher hands ticks to the transport backend.
type Publisher interface {
	Publish(ctx context.Context, t models.Tick) error
	PublishBatch(ctx context.Context, ticks []models.Tick) error
	Close() error
}

// TickStore persists raw ticks and serves time-window queries for candle
// aggregation. QueryWindow returns ticks ordered ascending by timestamp,
// which is the aggregator's precondition.
type TickStore interface {
	Store(ctx context.Context, t models.Tick) error
	StoreBatch(ctx context.Context, ticks []models.Tick) error
	QueryWindow(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Tick, error)
	Health(ctx context.Context) error
	Close() error
}

// CandleSource serves pre-aggregated candles for pairs whose order flow
// lives on an external venue.
type CandleSource interface {
	Klines(ctx context.Context, symbol string, interval models.Interval, from, to time.Time, limit int) ([]models.Candle, error)
}

// Metrics records operational counters without binding the domain to a
// metrics backend.
type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
