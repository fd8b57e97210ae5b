// Package ohlc buckets a time-ordered tick stream into fixed-interval OHLC
// candles. A single open accumulator is carried per call, so aggregation is
// one linear pass with O(1) auxiliary memory and is safe to drive from a
// streaming source.
package ohlc

import (
	"errors"
	"fmt"
	"time"

	"BitUp/internal/domain/models"
)

var (
	// ErrOutOfOrder is returned when a tick's timestamp precedes the one
	// before it. Detection is opportunistic: only adjacent ticks are checked.
	ErrOutOfOrder = errors.New("ohlc: tick sequence out of order")
)

// Builder accumulates ticks for one symbol into interval-aligned candles.
// Not safe for concurrent use; each aggregation call owns its Builder.
type Builder struct {
	intervalMs int64
	open       bool
	bucket     int64 // bucket index, floor(tsMillis / intervalMs)
	last       int64 // previous tick's unix millis, for ordering checks
	cur        models.Candle
}

// NewBuilder creates a Builder for the given interval width in milliseconds.
func NewBuilder(intervalMs int64) (*Builder, error) {
	if intervalMs <= 0 {
		return nil, fmt.Errorf("interval %d ms must be > 0: %w", intervalMs, models.ErrInvalidInput)
	}
	return &Builder{intervalMs: intervalMs}, nil
}

// Push incorporates one tick. When the tick opens a new bucket, the completed
// candle for the previous bucket is returned with emitted = true.
func (b *Builder) Push(t models.Tick) (models.Candle, bool, error) {
	if err := t.Validate(); err != nil {
		return models.Candle{}, false, err
	}
	ms := t.Timestamp.UnixMilli()
	if b.open && ms < b.last {
		return models.Candle{}, false, fmt.Errorf("tick at %d after %d: %w", ms, b.last, ErrOutOfOrder)
	}
	b.last = ms

	bucket := ms / b.intervalMs
	if !b.open {
		b.start(t, bucket)
		return models.Candle{}, false, nil
	}
	if bucket != b.bucket {
		done := b.cur
		b.start(t, bucket)
		return done, true, nil
	}

	if t.Price.GreaterThan(b.cur.High) {
		b.cur.High = t.Price
	}
	if t.Price.LessThan(b.cur.Low) {
		b.cur.Low = t.Price
	}
	b.cur.Close = t.Price
	b.cur.Volume = b.cur.Volume.Add(t.Quantity)
	return models.Candle{}, false, nil
}

// Flush returns the in-progress candle, if any, and resets the builder.
func (b *Builder) Flush() (models.Candle, bool) {
	if !b.open {
		return models.Candle{}, false
	}
	done := b.cur
	b.open = false
	b.cur = models.Candle{}
	return done, true
}

func (b *Builder) start(t models.Tick, bucket int64) {
	b.open = true
	b.bucket = bucket
	b.cur = models.Candle{
		Symbol:      t.Symbol,
		BucketStart: time.UnixMilli(bucket * b.intervalMs).UTC(),
		Open:        t.Price,
		High:        t.Price,
		Low:         t.Price,
		Close:       t.Price,
		Volume:      t.Quantity,
	}
}

// Aggregate runs the full pass over a tick batch sorted by timestamp and
// returns the candles ascending by bucket start. Empty input yields an empty
// slice; buckets with no ticks produce no candle.
func Aggregate(ticks []models.Tick, intervalMs int64) ([]models.Candle, error) {
	b, err := NewBuilder(intervalMs)
	if err != nil {
		return nil, err
	}
	out := make([]models.Candle, 0, len(ticks)/2+1)
	for _, t := range ticks {
		c, emitted, err := b.Push(t)
		if err != nil {
			return nil, err
		}
		if emitted {
			out = append(out, c)
		}
	}
	if c, ok := b.Flush(); ok {
		out = append(out, c)
	}
	return out, nil
}
