package num

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiv(t *testing.T) {
	got, err := Div(FromInt(10), FromInt(4))
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("2.5")), "got %s", got)
}

func TestDivByZero(t *testing.T) {
	_, err := Div(FromInt(1), Zero)
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = DivRound(FromInt(1), Zero, 8)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestDivRound(t *testing.T) {
	got, err := DivRound(FromInt(1), FromInt(3), 8)
	require.NoError(t, err)
	assert.Equal(t, "0.33333333", got.String())
}

func TestDivisionPrecision(t *testing.T) {
	// Repeated division must keep at least satoshi-level digits.
	got, err := Div(FromInt(1), FromInt(7))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, -got.Exponent(), int32(8))
}

func TestFromString(t *testing.T) {
	d, err := FromString("45.00000001")
	require.NoError(t, err)
	assert.Equal(t, "45.00000001", d.String())

	_, err = FromString("not-a-number")
	assert.Error(t, err)
}

func TestMinMax(t *testing.T) {
	a, b := FromInt(3), FromInt(7)
	assert.True(t, Min(a, b).Equal(a))
	assert.True(t, Max(a, b).Equal(b))
}
