package wallet

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/treasury/internal/entity"
	"github.com/vadiminshakov/treasury/internal/exchange"
	"github.com/vadiminshakov/treasury/internal/ledger"
)

// Wallet stores the balance of one instrument on one exchange. Funds are
// either free or locked under a path id (order id) while an order is in
// flight. Every mutating operation commits one record to the shared ledger.
//
// A wallet is scoped to a single simulation thread and does no internal
// locking; callers serialize whole simulation steps.
type Wallet struct {
	id          string
	exchange    *exchange.Exchange
	instrument  entity.Instrument
	initialSize decimal.Decimal
	balance     entity.Quantity
	locked      map[string]entity.Quantity
	book        *ledger.Ledger
	logger      *zap.Logger
}

// New creates a wallet holding the given initial balance. The ledger is
// shared across all wallets of a simulation run and must not be nil.
func New(ex *exchange.Exchange, balance entity.Quantity, book *ledger.Ledger, logger *zap.Logger) *Wallet {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Wallet{
		id:          uuid.New().String(),
		exchange:    ex,
		instrument:  balance.Instrument,
		initialSize: balance.Size,
		balance:     balance.Free().Quantize(),
		locked:      make(map[string]entity.Quantity),
		book:        book,
		logger:      logger,
	}
}

// FromFloat creates a wallet from an exchange, instrument and float balance.
func FromFloat(ex *exchange.Exchange, instrument entity.Instrument, balance float64, book *ledger.Ledger, logger *zap.Logger) *Wallet {
	return New(ex, entity.NewQuantityFromFloat(instrument, balance), book, logger)
}

// ID returns the wallet's opaque identity.
func (w *Wallet) ID() string {
	return w.id
}

// Exchange returns the exchange this wallet belongs to.
func (w *Wallet) Exchange() *exchange.Exchange {
	return w.exchange
}

// Instrument returns the instrument this wallet holds.
func (w *Wallet) Instrument() entity.Instrument {
	return w.instrument
}

// Balance returns the free balance.
func (w *Wallet) Balance() entity.Quantity {
	return w.balance
}

// Locked returns a copy of the per-path-id locked quantities.
func (w *Wallet) Locked() map[string]entity.Quantity {
	out := make(map[string]entity.Quantity, len(w.locked))
	for pathID, q := range w.locked {
		out[pathID] = q
	}
	return out
}

// LockedBalance returns the total balance locked in orders.
func (w *Wallet) LockedBalance() entity.Quantity {
	total := entity.NewQuantity(w.instrument, decimal.Zero)
	for _, q := range w.locked {
		total.Size = total.Size.Add(q.Size)
	}
	return total
}

// TotalBalance returns the free balance plus all locked quantities.
func (w *Wallet) TotalBalance() entity.Quantity {
	total := w.balance
	for _, q := range w.locked {
		total.Size = total.Size.Add(q.Size)
	}
	return total
}

// Lock reserves funds for the order identified by pathID and returns the
// quantity actually locked. A shortfall within the instrument's dust
// tolerance is clamped to the full free balance; a larger one fails with
// InsufficientFundsError. Locking an already locked quantity fails with
// DoubleLockedError.
func (w *Wallet) Lock(quantity entity.Quantity, pathID, reason string) (entity.Quantity, error) {
	if quantity.IsLocked() {
		return entity.Quantity{}, &DoubleLockedError{Quantity: quantity}
	}

	if quantity.GreaterThan(w.balance) {
		if quantity.Size.Sub(w.balance.Size).GreaterThan(w.instrument.DustTolerance()) {
			return entity.Quantity{}, &InsufficientFundsError{Available: w.balance, Requested: quantity}
		}
		quantity = entity.NewQuantity(w.instrument, w.balance.Size)
	}

	w.balance.Size = w.balance.Size.Sub(quantity.Size)

	quantity = quantity.LockFor(pathID)

	held, ok := w.locked[pathID]
	if !ok {
		held = quantity
	} else {
		held.Size = held.Size.Add(quantity.Size)
	}
	w.locked[pathID] = held.Quantize()
	w.balance = w.balance.Quantize()

	if err := w.commit(quantity, w.freeAccount(), w.lockedAccount(), fmt.Sprintf("LOCK (%s)", reason)); err != nil {
		return entity.Quantity{}, err
	}

	return quantity, nil
}

// Unlock releases funds previously locked under the quantity's path id back
// into the free balance. Unlike Lock and Withdraw there is no dust clamping:
// any over-request fails with InsufficientFundsError.
func (w *Wallet) Unlock(quantity entity.Quantity, reason string) (entity.Quantity, error) {
	if !quantity.IsLocked() {
		return entity.Quantity{}, &DoubleUnlockedError{Quantity: quantity}
	}

	held, ok := w.locked[quantity.PathID]
	if !ok {
		return entity.Quantity{}, &NotLockedError{Quantity: quantity}
	}

	if quantity.GreaterThan(held) {
		return entity.Quantity{}, &InsufficientFundsError{Available: held, Requested: quantity}
	}

	held.Size = held.Size.Sub(quantity.Size)
	w.locked[quantity.PathID] = held.Quantize()

	w.balance.Size = w.balance.Size.Add(quantity.Free().Size)
	w.balance = w.balance.Quantize()

	if err := w.commit(quantity, w.lockedAccount(), w.freeAccount(), fmt.Sprintf("UNLOCK %s (%s)", w.instrument, reason)); err != nil {
		return entity.Quantity{}, err
	}

	return quantity, nil
}

// Deposit adds funds to the wallet unconditionally. A locked quantity goes
// into its path id's locked entry, a free one into the free balance.
func (w *Wallet) Deposit(quantity entity.Quantity, reason string) (entity.Quantity, error) {
	if quantity.IsLocked() {
		held, ok := w.locked[quantity.PathID]
		if !ok {
			held = quantity
		} else {
			held.Size = held.Size.Add(quantity.Size)
		}
		w.locked[quantity.PathID] = held
	} else {
		w.balance.Size = w.balance.Size.Add(quantity.Size)
	}

	w.balance = w.balance.Quantize()

	if err := w.commit(quantity, w.exchange.Name, w.lockedAccount(), fmt.Sprintf("DEPOSIT (%s)", reason)); err != nil {
		return entity.Quantity{}, err
	}

	return quantity, nil
}

// Withdraw removes funds from the wallet and returns the quantity actually
// withdrawn. A locked quantity is taken from its path id's locked entry, a
// free one from the free balance, both with the same dust clamping as Lock.
//
// A locked quantity whose path id has no entry mutates nothing; the call
// still succeeds and commits a ledger record. Kept for compatibility with
// existing order flows, warn-logged so stricter callers can notice.
func (w *Wallet) Withdraw(quantity entity.Quantity, reason string) (entity.Quantity, error) {
	if held, ok := w.locked[quantity.PathID]; quantity.IsLocked() && ok {
		if quantity.GreaterThan(held) {
			if quantity.Size.Sub(held.Size).GreaterThan(w.instrument.DustTolerance()) {
				return entity.Quantity{}, &InsufficientFundsError{Available: held, Requested: quantity}
			}
			quantity = held
		}
		held.Size = held.Size.Sub(quantity.Size)
		w.locked[quantity.PathID] = held
	} else if !quantity.IsLocked() {
		if quantity.GreaterThan(w.balance) {
			if quantity.Size.Sub(w.balance.Size).GreaterThan(w.instrument.DustTolerance()) {
				return entity.Quantity{}, &InsufficientFundsError{Available: w.balance, Requested: quantity}
			}
			quantity = w.balance
		}
		w.balance.Size = w.balance.Size.Sub(quantity.Size)
	} else {
		w.logger.Warn("withdraw of locked quantity with unknown path id, nothing withdrawn",
			zap.String("path_id", quantity.PathID),
			zap.String("quantity", quantity.String()))
	}

	w.balance = w.balance.Quantize()

	if err := w.commit(quantity, w.lockedAccount(), w.exchange.Name, fmt.Sprintf("WITHDRAWAL (%s)", reason)); err != nil {
		return entity.Quantity{}, err
	}

	return quantity, nil
}

// Reset restores the free balance to its initial size and drops all locked
// entries. No ledger record is committed.
func (w *Wallet) Reset() {
	w.balance = entity.NewQuantity(w.instrument, w.initialSize).Quantize()
	w.locked = make(map[string]entity.Quantity)
}

func (w *Wallet) commit(quantity entity.Quantity, source, target, memo string) error {
	return w.book.Commit(w.id, quantity, source, target, memo)
}

func (w *Wallet) freeAccount() string {
	return fmt.Sprintf("%s:%s/free", w.exchange.Name, w.instrument)
}

func (w *Wallet) lockedAccount() string {
	return fmt.Sprintf("%s:%s/locked", w.exchange.Name, w.instrument)
}

func (w *Wallet) String() string {
	return fmt.Sprintf("<Wallet: balance=%s, locked=%s>", w.balance, w.LockedBalance())
}
