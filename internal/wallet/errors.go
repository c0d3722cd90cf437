package wallet

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vadiminshakov/treasury/internal/entity"
)

// ErrConservation signals that a transfer broke the conservation-of-funds
// equation beyond the configured epsilon. It indicates a modeling or
// precision defect, not a recoverable user error.
var ErrConservation = errors.New("transfer conservation check failed")

// InsufficientFundsError is returned when a requested amount exceeds the
// available free or locked balance beyond the dust tolerance.
type InsufficientFundsError struct {
	Available entity.Quantity
	Requested entity.Quantity
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s, requested %s", e.Available, e.Requested)
}

// DoubleLockedError is returned on an attempt to lock an already locked quantity.
type DoubleLockedError struct {
	Quantity entity.Quantity
}

func (e *DoubleLockedError) Error() string {
	return fmt.Sprintf("quantity %s is already locked for path %s", e.Quantity, e.Quantity.PathID)
}

// DoubleUnlockedError is returned on an attempt to unlock a quantity that
// carries no lock tag.
type DoubleUnlockedError struct {
	Quantity entity.Quantity
}

func (e *DoubleUnlockedError) Error() string {
	return fmt.Sprintf("quantity %s is not locked", e.Quantity)
}

// NotLockedError is returned when an unlock names a path id with no locked
// entry in the wallet.
type NotLockedError struct {
	Quantity entity.Quantity
}

func (e *NotLockedError) Error() string {
	return fmt.Sprintf("no funds locked for path %s", e.Quantity.PathID)
}
