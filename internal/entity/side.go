package entity

// TradeSide represents the side of an order fill.
type TradeSide int

const (
	// SideBuy buys the quote instrument with the base instrument.
	SideBuy TradeSide = iota
	// SideSell sells the quote instrument for the base instrument.
	SideSell
)

func (s TradeSide) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unknown"
	}
}
