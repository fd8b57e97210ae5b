package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BitUp/internal/domain/models"
	pkgkafka "BitUp/pkg/kafka"
)

type capturingTickStore struct {
	fakeTickStore
	stored []models.Tick
}

func (s *capturingTickStore) Store(ctx context.Context, t models.Tick) error {
	s.stored = append(s.stored, t)
	return nil
}

func TestHandleStoresValidTick(t *testing.T) {
	store := &capturingTickStore{}
	h := NewKafkaTicksHandler("ticks", store, noopMetrics{})

	err := h.Handle(context.Background(), []byte(`{"symbol":"BTCUSDT","t":1700000000000,"p":"42000.5","q":"0.25"}`))
	require.NoError(t, err)
	require.Len(t, store.stored, 1)
	assert.Equal(t, "BTCUSDT", store.stored[0].Symbol)
	assert.Equal(t, "42000.5", store.stored[0].Price.String())
}

func TestHandleMalformedJSONIsPermanent(t *testing.T) {
	h := NewKafkaTicksHandler("ticks", &capturingTickStore{}, noopMetrics{})

	err := h.Handle(context.Background(), []byte(`{not json`))
	require.Error(t, err)
	assert.True(t, pkgkafka.IsPermanent(err))
}

func TestHandleInvalidTickIsPermanent(t *testing.T) {
	h := NewKafkaTicksHandler("ticks", &capturingTickStore{}, noopMetrics{})

	// negative price fails tick validation
	err := h.Handle(context.Background(), []byte(`{"symbol":"BTCUSDT","t":1700000000000,"p":"-1","q":"0.25"}`))
	require.Error(t, err)
	assert.True(t, pkgkafka.IsPermanent(err))
}
