package markets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
)

func TestKlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1m", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			[0, "100", "105", "99.5", "104", "12.5", 59999],
			[60000, "104", "104", "102", "102", "3", 119999]
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	candles, err := c.Klines(context.Background(), "BTCUSDT", models.Interval1m,
		time.UnixMilli(0), time.UnixMilli(120_000), 500)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, "BTCUSDT", first.Symbol)
	assert.Equal(t, int64(0), first.BucketStart.UnixMilli())
	assert.Equal(t, "100", first.Open.String())
	assert.Equal(t, "105", first.High.String())
	assert.Equal(t, "99.5", first.Low.String())
	assert.Equal(t, "104", first.Close.String())
	assert.Equal(t, "12.5", first.Volume.String())

	assert.Equal(t, int64(60_000), candles[1].BucketStart.UnixMilli())
}

func TestKlinesRejectsMalformedRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[0, "100"]]`))
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Klines(context.Background(), "BTCUSDT", models.Interval1m,
		time.UnixMilli(0), time.UnixMilli(60_000), 500)
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestKlinesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer srv.Close()

	c := New(srv.URL, 5*time.Second)
	_, err := c.Klines(context.Background(), "BTCUSDT", models.Interval1m,
		time.UnixMilli(0), time.UnixMilli(60_000), 500)
	assert.Error(t, err)
}
