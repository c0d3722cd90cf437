package ledger

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/treasury/internal/entity"
)

// Transaction is one committed fund movement between two ledger accounts.
// Entries are never mutated or removed once committed.
type Transaction struct {
	Index      uint64          `json:"index"`
	WalletID   string          `json:"wallet_id"`
	Instrument string          `json:"instrument"`
	Size       decimal.Decimal `json:"size"`
	PathID     string          `json:"path_id,omitempty"`
	Source     string          `json:"source"`
	Target     string          `json:"target"`
	Memo       string          `json:"memo"`
}

// Sink receives every committed transaction, e.g. for WAL persistence.
type Sink interface {
	Append(tx Transaction) error
}

// Ledger is an append-only log of committed transactions shared by all
// wallets of a simulation run. It is an audit trail only: the engine never
// reads it back. One simulation step runs at a time, so the ledger does no
// internal locking.
type Ledger struct {
	transactions []Transaction
	sink         Sink
}

// New creates an empty in-memory ledger.
func New() *Ledger {
	return &Ledger{}
}

// NewWithSink creates a ledger that forwards every commit to the sink.
func NewWithSink(sink Sink) *Ledger {
	return &Ledger{sink: sink}
}

// Commit appends one transaction to the log.
func (l *Ledger) Commit(walletID string, quantity entity.Quantity, source, target, memo string) error {
	tx := Transaction{
		Index:      uint64(len(l.transactions) + 1),
		WalletID:   walletID,
		Instrument: quantity.Instrument.Symbol,
		Size:       quantity.Size,
		PathID:     quantity.PathID,
		Source:     source,
		Target:     target,
		Memo:       memo,
	}

	l.transactions = append(l.transactions, tx)

	if l.sink != nil {
		if err := l.sink.Append(tx); err != nil {
			return errors.Wrap(err, "persist ledger transaction")
		}
	}

	return nil
}

// Transactions returns a copy of all committed transactions.
func (l *Ledger) Transactions() []Transaction {
	out := make([]Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Size returns the number of committed transactions.
func (l *Ledger) Size() int {
	return len(l.transactions)
}

// Reset drops the in-memory log at the start of a new simulation run. The
// sink, if any, keeps its history.
func (l *Ledger) Reset() {
	l.transactions = nil
}
