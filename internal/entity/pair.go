package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExchangePair couples a base and quote instrument with the current price of
// one quote unit expressed in base units (e.g. 20000 USD per BTC).
type ExchangePair struct {
	Base  Instrument
	Quote Instrument
	Price decimal.Decimal
}

// NewExchangePair creates a pair at the given price.
func NewExchangePair(base, quote Instrument, price decimal.Decimal) ExchangePair {
	return ExchangePair{Base: base, Quote: quote, Price: price}
}

// Inverse returns the pair with base and quote swapped and the price inverted.
func (p ExchangePair) Inverse() ExchangePair {
	return ExchangePair{
		Base:  p.Quote,
		Quote: p.Base,
		Price: decimal.NewFromInt(1).Div(p.Price),
	}
}

func (p ExchangePair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}
