package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
	"BitUp/pkg/cache"
)

type fakeTickStore struct {
	ticks   []models.Tick
	queries int
}

func (s *fakeTickStore) Store(ctx context.Context, t models.Tick) error { return nil }
func (s *fakeTickStore) StoreBatch(ctx context.Context, ticks []models.Tick) error {
	return nil
}
func (s *fakeTickStore) QueryWindow(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Tick, error) {
	s.queries++
	out := make([]models.Tick, 0, len(s.ticks))
	for _, t := range s.ticks {
		if t.Symbol == symbol && !t.Timestamp.Before(from) && !t.Timestamp.After(to) {
			out = append(out, t)
		}
	}
	return out, nil
}
func (s *fakeTickStore) Health(ctx context.Context) error { return nil }
func (s *fakeTickStore) Close() error                     { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(backend, symbol string)    {}
func (noopMetrics) RecordError(kind string)                     {}
func (noopMetrics) RecordLastPrice(symbol string, price float64) {}
func (noopMetrics) RecordLatency(op string, seconds float64)    {}

func tick(symbol string, ms int64, price, qty string) models.Tick {
	return models.Tick{
		Symbol:    symbol,
		Timestamp: time.UnixMilli(ms).UTC(),
		Price:     decimal.RequireFromString(price),
		Quantity:  decimal.RequireFromString(qty),
	}
}

func TestGetCandlesAggregatesWindow(t *testing.T) {
	store := &fakeTickStore{ticks: []models.Tick{
		tick("BTCUSDT", 0, "100", "1"),
		tick("BTCUSDT", 30_000, "105", "2"),
		tick("BTCUSDT", 65_000, "102", "1"),
	}}
	uc := NewCandlesUseCase(store, nil, noopMetrics{}, 0)

	res, err := uc.GetCandles(context.Background(), GetCandlesParams{
		Symbol:   "BTCUSDT",
		From:     time.UnixMilli(0).UTC(),
		To:       time.UnixMilli(120_000).UTC(),
		Interval: models.Interval1m,
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.Count)

	first := res.Candles[0]
	assert.Equal(t, "100", first.Open.String())
	assert.Equal(t, "105", first.High.String())
	assert.Equal(t, "100", first.Low.String())
	assert.Equal(t, "105", first.Close.String())
	assert.Equal(t, "3", first.Volume.String())

	second := res.Candles[1]
	assert.Equal(t, "102", second.Open.String())
	assert.Equal(t, "102", second.Close.String())
	assert.Equal(t, "1", second.Volume.String())
}

func TestGetCandlesValidatesInput(t *testing.T) {
	uc := NewCandlesUseCase(&fakeTickStore{}, nil, noopMetrics{}, 0)

	_, err := uc.GetCandles(context.Background(), GetCandlesParams{
		Symbol:   "",
		Interval: models.Interval1m,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = uc.GetCandles(context.Background(), GetCandlesParams{
		Symbol:   "BTCUSDT",
		Interval: "7m",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = uc.GetCandles(context.Background(), GetCandlesParams{
		Symbol:   "BTCUSDT",
		From:     time.UnixMilli(10_000),
		To:       time.UnixMilli(0),
		Interval: models.Interval1m,
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestGetCandlesLimitTrimsTail(t *testing.T) {
	store := &fakeTickStore{}
	for i := int64(0); i < 10; i++ {
		store.ticks = append(store.ticks, tick("ETHUSDT", i*60_000, "10", "1"))
	}
	uc := NewCandlesUseCase(store, nil, noopMetrics{}, 0)

	res, err := uc.GetCandles(context.Background(), GetCandlesParams{
		Symbol:   "ETHUSDT",
		From:     time.UnixMilli(0).UTC(),
		To:       time.UnixMilli(600_000).UTC(),
		Interval: models.Interval1m,
		Limit:    3,
	})
	require.NoError(t, err)
	require.Equal(t, 3, res.Count)
	// most recent buckets are kept
	assert.Equal(t, int64(7*60), res.Candles[0].UnixSeconds())
}

func TestGetCandlesCacheHitSkipsStore(t *testing.T) {
	store := &fakeTickStore{ticks: []models.Tick{tick("BTCUSDT", 0, "100", "1")}}
	uc := NewCandlesUseCase(store, cache.NewMemoryCache(), noopMetrics{}, time.Minute)

	params := GetCandlesParams{
		Symbol:   "BTCUSDT",
		From:     time.UnixMilli(0).UTC(),
		To:       time.UnixMilli(60_000).UTC(),
		Interval: models.Interval1m,
	}
	first, err := uc.GetCandles(context.Background(), params)
	require.NoError(t, err)
	second, err := uc.GetCandles(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 1, store.queries)
	assert.Equal(t, first.Count, second.Count)
}
