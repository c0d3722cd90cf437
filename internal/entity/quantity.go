package entity

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrIncompatibleInstruments is returned when arithmetic is attempted on
// quantities of different instruments.
var ErrIncompatibleInstruments = errors.New("quantities have incompatible instruments")

// Quantity is an immutable amount of a single instrument. A quantity is
// either free or locked: a locked quantity carries the path id (order id)
// the funds are reserved for, a free quantity has an empty PathID.
type Quantity struct {
	Instrument Instrument
	Size       decimal.Decimal
	PathID     string
}

// NewQuantity creates a free quantity of the given instrument.
func NewQuantity(instrument Instrument, size decimal.Decimal) Quantity {
	return Quantity{Instrument: instrument, Size: size}
}

// NewQuantityFromFloat creates a free quantity from a float amount.
func NewQuantityFromFloat(instrument Instrument, size float64) Quantity {
	return Quantity{Instrument: instrument, Size: decimal.NewFromFloat(size)}
}

// IsLocked reports whether the quantity is reserved for an order.
func (q Quantity) IsLocked() bool {
	return q.PathID != ""
}

// Quantize rounds the size to the instrument's configured precision.
func (q Quantity) Quantize() Quantity {
	q.Size = q.Size.Round(q.Instrument.Precision)
	return q
}

// Free strips the lock tag, returning an otherwise identical quantity.
func (q Quantity) Free() Quantity {
	q.PathID = ""
	return q
}

// LockFor tags the quantity as reserved for the given path id.
func (q Quantity) LockFor(pathID string) Quantity {
	q.PathID = pathID
	return q
}

// Add returns q + other. Both quantities must share one instrument.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if !q.Instrument.Equal(other.Instrument) {
		return Quantity{}, errors.Wrapf(ErrIncompatibleInstruments, "%s and %s", q.Instrument, other.Instrument)
	}
	q.Size = q.Size.Add(other.Size)
	return q, nil
}

// Sub returns q - other. Both quantities must share one instrument.
func (q Quantity) Sub(other Quantity) (Quantity, error) {
	if !q.Instrument.Equal(other.Instrument) {
		return Quantity{}, errors.Wrapf(ErrIncompatibleInstruments, "%s and %s", q.Instrument, other.Instrument)
	}
	q.Size = q.Size.Sub(other.Size)
	return q, nil
}

// Mul scales the size by the given rate, keeping the lock tag.
func (q Quantity) Mul(rate decimal.Decimal) Quantity {
	q.Size = q.Size.Mul(rate)
	return q
}

// GreaterThan compares sizes. The caller guarantees both quantities share
// one instrument.
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.Size.GreaterThan(other.Size)
}

// LessThan compares sizes. The caller guarantees both quantities share
// one instrument.
func (q Quantity) LessThan(other Quantity) bool {
	return q.Size.LessThan(other.Size)
}

// Convert rescales the quantity into the other instrument of the pair using
// the pair's price. Base amounts are divided by the price, quote amounts are
// multiplied. The lock tag survives conversion and the result is quantized.
func (q Quantity) Convert(pair ExchangePair) (Quantity, error) {
	switch {
	case q.Instrument.Equal(pair.Base):
		q.Instrument = pair.Quote
		q.Size = q.Size.Div(pair.Price)
	case q.Instrument.Equal(pair.Quote):
		q.Instrument = pair.Base
		q.Size = q.Size.Mul(pair.Price)
	default:
		return Quantity{}, errors.Wrapf(ErrIncompatibleInstruments, "%s is not part of %s", q.Instrument, pair)
	}
	return q.Quantize(), nil
}

func (q Quantity) String() string {
	return fmt.Sprintf("%s %s", q.Size.StringFixed(q.Instrument.Precision), q.Instrument)
}
