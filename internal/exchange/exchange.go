package exchange

import (
	"github.com/shopspring/decimal"
)

// defaultConservationEpsilon absorbs rounding drift from chained conversions
// in the transfer conservation check.
var defaultConservationEpsilon = decimal.New(1, -5)

// Options holds the trading parameters of an exchange.
type Options struct {
	// Commission is the fee rate charged on fills, e.g. 0.001 for 0.1%.
	Commission decimal.Decimal
	// ConservationEpsilon is the tolerance of the post-transfer
	// conservation check. The right value depends on instrument precision.
	ConservationEpsilon decimal.Decimal
}

// Exchange is the venue a wallet belongs to. Only its name and options are
// relevant to accounting; order routing happens elsewhere.
type Exchange struct {
	Name    string
	Options Options
}

// New creates an exchange, defaulting the conservation epsilon when unset.
func New(name string, opts Options) *Exchange {
	if opts.ConservationEpsilon.IsZero() {
		opts.ConservationEpsilon = defaultConservationEpsilon
	}
	return &Exchange{Name: name, Options: opts}
}
