package ohlc

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
)

func tick(t *testing.T, ms int64, price float64) models.Tick {
	t.Helper()
	tk, err := models.NewTick("BTU-USDT", time.UnixMilli(ms).UTC(),
		decimal.NewFromFloat(price), decimal.NewFromInt(1))
	require.NoError(t, err)
	return tk
}

func TestAggregateWorkedExample(t *testing.T) {
	ticks := []models.Tick{
		tick(t, 0, 100),
		tick(t, 30000, 105),
		tick(t, 65000, 102),
	}

	candles, err := Aggregate(ticks, 60000)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, int64(0), first.BucketStart.UnixMilli())
	assert.Equal(t, "100", first.Open.String())
	assert.Equal(t, "105", first.High.String())
	assert.Equal(t, "100", first.Low.String())
	assert.Equal(t, "105", first.Close.String())

	second := candles[1]
	assert.Equal(t, int64(60000), second.BucketStart.UnixMilli())
	for _, p := range []decimal.Decimal{second.Open, second.High, second.Low, second.Close} {
		assert.Equal(t, "102", p.String())
	}
}

func TestAggregateEmpty(t *testing.T) {
	candles, err := Aggregate(nil, 60000)
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestAggregateSingleTick(t *testing.T) {
	candles, err := Aggregate([]models.Tick{tick(t, 90000, 101.5)}, 60000)
	require.NoError(t, err)
	require.Len(t, candles, 1)

	c := candles[0]
	assert.Equal(t, int64(60000), c.BucketStart.UnixMilli())
	assert.True(t, c.Open.Equal(c.High))
	assert.True(t, c.High.Equal(c.Low))
	assert.True(t, c.Low.Equal(c.Close))
}

func TestAggregateSkipsEmptyBuckets(t *testing.T) {
	// Ticks in bucket 0 and bucket 5; nothing synthetic in between.
	ticks := []models.Tick{
		tick(t, 1000, 100),
		tick(t, 5*60000+1000, 110),
	}
	candles, err := Aggregate(ticks, 60000)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, int64(0), candles[0].BucketStart.UnixMilli())
	assert.Equal(t, int64(5*60000), candles[1].BucketStart.UnixMilli())
}

func TestAggregateInvariants(t *testing.T) {
	prices := []float64{100, 93.2, 104.7, 99, 108.1, 95.5, 101, 97.3, 103, 100.4}
	ticks := make([]models.Tick, 0, len(prices))
	for i, p := range prices {
		ticks = append(ticks, tick(t, int64(i)*15000, p))
	}

	candles, err := Aggregate(ticks, 60000)
	require.NoError(t, err)

	// Candle count equals the number of distinct occupied buckets.
	buckets := map[int64]bool{}
	for _, tk := range ticks {
		buckets[tk.Timestamp.UnixMilli()/60000] = true
	}
	assert.Len(t, candles, len(buckets))

	for _, c := range candles {
		assert.True(t, c.Low.LessThanOrEqual(c.Open), "low <= open")
		assert.True(t, c.Low.LessThanOrEqual(c.Close), "low <= close")
		assert.True(t, c.Open.LessThanOrEqual(c.High), "open <= high")
		assert.True(t, c.Close.LessThanOrEqual(c.High), "close <= high")
	}
}

func TestAggregateIdempotent(t *testing.T) {
	ticks := []models.Tick{
		tick(t, 0, 100), tick(t, 20000, 99), tick(t, 61000, 103), tick(t, 125000, 98),
	}
	a, err := Aggregate(ticks, 60000)
	require.NoError(t, err)
	b, err := Aggregate(ticks, 60000)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAggregateOutOfOrder(t *testing.T) {
	ticks := []models.Tick{tick(t, 30000, 100), tick(t, 1000, 99)}
	_, err := Aggregate(ticks, 60000)
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestAggregateEqualTimestampsAllowed(t *testing.T) {
	ticks := []models.Tick{tick(t, 30000, 100), tick(t, 30000, 101)}
	candles, err := Aggregate(ticks, 60000)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.Equal(t, "100", candles[0].Open.String())
	assert.Equal(t, "101", candles[0].Close.String())
}

func TestAggregateInvalidInterval(t *testing.T) {
	_, err := Aggregate(nil, 0)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestBuilderStreaming(t *testing.T) {
	b, err := NewBuilder(60000)
	require.NoError(t, err)

	_, emitted, err := b.Push(tick(t, 0, 100))
	require.NoError(t, err)
	assert.False(t, emitted)

	c, emitted, err := b.Push(tick(t, 61000, 105))
	require.NoError(t, err)
	require.True(t, emitted)
	assert.Equal(t, "100", c.Close.String())

	c, ok := b.Flush()
	require.True(t, ok)
	assert.Equal(t, "105", c.Open.String())

	_, ok = b.Flush()
	assert.False(t, ok)
}
