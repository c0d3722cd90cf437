package entity

import (
	"github.com/shopspring/decimal"
)

// Instrument identifies a tradable asset and the number of decimal places
// its amounts are kept at.
type Instrument struct {
	Symbol    string
	Precision int32
}

// NewInstrument creates an instrument with the given symbol and decimal precision.
func NewInstrument(symbol string, precision int32) Instrument {
	return Instrument{Symbol: symbol, Precision: precision}
}

// DustTolerance is the threshold below which a balance shortfall is clamped
// instead of rejected: 10^-(precision-2).
func (i Instrument) DustTolerance() decimal.Decimal {
	return decimal.New(1, -i.Precision+2)
}

func (i Instrument) Equal(other Instrument) bool {
	return i.Symbol == other.Symbol
}

func (i Instrument) String() string {
	return i.Symbol
}
