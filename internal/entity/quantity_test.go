package entity

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	usd = NewInstrument("USD", 2)
	btc = NewInstrument("BTC", 8)
)

func TestQuantizeIdempotent(t *testing.T) {
	q := NewQuantity(btc, decimal.RequireFromString("0.123456789123"))

	once := q.Quantize()
	twice := once.Quantize()

	assert.True(t, once.Size.Equal(twice.Size))
	assert.True(t, once.Size.Equal(decimal.RequireFromString("0.12345679")))
}

func TestLockAndFreeTags(t *testing.T) {
	q := NewQuantityFromFloat(usd, 100)
	require.False(t, q.IsLocked())

	locked := q.LockFor("order-1")
	assert.True(t, locked.IsLocked())
	assert.Equal(t, "order-1", locked.PathID)

	// the original quantity is a value, not shared state
	assert.False(t, q.IsLocked())

	freed := locked.Free()
	assert.False(t, freed.IsLocked())
	assert.True(t, freed.Size.Equal(q.Size))
}

func TestArithmetic(t *testing.T) {
	a := NewQuantityFromFloat(usd, 100)
	b := NewQuantityFromFloat(usd, 40)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Size.Equal(decimal.NewFromInt(140)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Size.Equal(decimal.NewFromInt(60)))

	scaled := a.Mul(decimal.RequireFromString("0.001"))
	assert.True(t, scaled.Size.Equal(decimal.RequireFromString("0.1")))

	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
}

func TestArithmeticIncompatibleInstruments(t *testing.T) {
	a := NewQuantityFromFloat(usd, 100)
	b := NewQuantityFromFloat(btc, 1)

	_, err := a.Add(b)
	assert.True(t, errors.Is(err, ErrIncompatibleInstruments))

	_, err = a.Sub(b)
	assert.True(t, errors.Is(err, ErrIncompatibleInstruments))
}

func TestConvert(t *testing.T) {
	pair := NewExchangePair(usd, btc, decimal.NewFromInt(20000))

	// base -> quote divides by the price
	base := NewQuantityFromFloat(usd, 100).LockFor("order-1")
	converted, err := base.Convert(pair)
	require.NoError(t, err)
	assert.True(t, converted.Instrument.Equal(btc))
	assert.True(t, converted.Size.Equal(decimal.RequireFromString("0.005")))
	assert.Equal(t, "order-1", converted.PathID)

	// quote -> base multiplies by the price
	back, err := converted.Convert(pair)
	require.NoError(t, err)
	assert.True(t, back.Instrument.Equal(usd))
	assert.True(t, back.Size.Equal(decimal.NewFromInt(100)))
}

func TestConvertUnknownInstrument(t *testing.T) {
	pair := NewExchangePair(usd, btc, decimal.NewFromInt(20000))
	eth := NewInstrument("ETH", 8)

	_, err := NewQuantityFromFloat(eth, 1).Convert(pair)
	assert.True(t, errors.Is(err, ErrIncompatibleInstruments))
}

func TestPairInverse(t *testing.T) {
	pair := NewExchangePair(usd, btc, decimal.NewFromInt(20000))
	inv := pair.Inverse()

	assert.True(t, inv.Base.Equal(btc))
	assert.True(t, inv.Quote.Equal(usd))
	assert.True(t, inv.Price.Equal(decimal.RequireFromString("0.00005")))
	assert.Equal(t, "USD/BTC", pair.String())
	assert.Equal(t, "BTC/USD", inv.String())
}

func TestDustTolerance(t *testing.T) {
	assert.True(t, usd.DustTolerance().Equal(decimal.NewFromInt(1)))
	assert.True(t, btc.DustTolerance().Equal(decimal.RequireFromString("0.000001")))
}
