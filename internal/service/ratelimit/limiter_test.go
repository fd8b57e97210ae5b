package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesBurst(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("BTCUSDT", 3, 0), "token %d", i)
	}
	assert.False(t, l.Allow("BTCUSDT", 3, 0))
}

func TestAllowIsPerKey(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("BTCUSDT", 1, 0))
	assert.False(t, l.Allow("BTCUSDT", 1, 0))
	assert.True(t, l.Allow("ETHUSDT", 1, 0))
}

func TestResetRestoresBurst(t *testing.T) {
	l := New()
	assert.True(t, l.Allow("BTCUSDT", 1, 0))
	assert.False(t, l.Allow("BTCUSDT", 1, 0))
	l.Reset("BTCUSDT")
	assert.True(t, l.Allow("BTCUSDT", 1, 0))
}
