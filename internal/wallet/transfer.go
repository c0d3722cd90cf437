package wallet

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/treasury/internal/entity"
)

// Transfer describes one completed transfer between two wallets: the net
// quantity withdrawn from the source, the commission charged and the price
// used for conversion.
type Transfer struct {
	Quantity   entity.Quantity
	Commission entity.Quantity
	Price      decimal.Decimal
}

// TransferFunds executes an order fill between two wallets: withdraw from
// source, convert through the pair's price, deposit into target, then charge
// commission. On a buy the commission is paid from the source wallet in the
// source instrument, on a sell from the target wallet in the target
// instrument; either way it is re-locked under the order's path id before
// being withdrawn so the ledger shows the full movement.
//
// After the transfer the conservation of funds is checked: value spent by
// the source must equal value gained by the target plus commission, within
// the source exchange's conservation epsilon. Repeated conversion is not
// perfectly invertible under fixed precision, the epsilon absorbs that
// rounding drift. A violation wraps ErrConservation and is not recoverable.
func TransferFunds(source, target *Wallet, quantity entity.Quantity, pair entity.ExchangePair, side entity.TradeSide) (Transfer, error) {
	sourceBefore := source.TotalBalance()
	targetBefore := target.TotalBalance()

	quantity = quantity.Quantize()

	quantity, err := source.Withdraw(quantity, "FILL ORDER")
	if err != nil {
		return Transfer{}, errors.Wrap(err, "withdraw from source")
	}

	converted, err := quantity.Convert(pair)
	if err != nil {
		return Transfer{}, errors.Wrap(err, "convert withdrawn quantity")
	}

	memo := fmt.Sprintf("TRADED %s %s @ %s", quantity, pair, pair.Price)
	converted, err = target.Deposit(converted, memo)
	if err != nil {
		return Transfer{}, errors.Wrap(err, "deposit to target")
	}

	feeRate := source.Exchange().Options.Commission

	// Commission inherits the path id from the traded quantity but must be
	// free before it can be locked again.
	var commission entity.Quantity
	if side == entity.SideBuy {
		commission = quantity.Mul(feeRate).Free()
		commission, err = source.Lock(commission, quantity.PathID, "LOCK BUY COMMISSION")
		if err != nil {
			return Transfer{}, errors.Wrap(err, "lock buy commission")
		}
		commission, err = source.Withdraw(commission, "PAY BUY COMMISSION")
		if err != nil {
			return Transfer{}, errors.Wrap(err, "pay buy commission")
		}
	} else {
		commission = converted.Mul(feeRate).Free()
		commission, err = target.Lock(commission, quantity.PathID, "LOCK SELL COMMISSION")
		if err != nil {
			return Transfer{}, errors.Wrap(err, "lock sell commission")
		}
		commission, err = target.Withdraw(commission, "PAY SELL COMMISSION")
		if err != nil {
			return Transfer{}, errors.Wrap(err, "pay sell commission")
		}
	}

	if err := checkConservation(source, target, sourceBefore, targetBefore, commission, pair, side); err != nil {
		return Transfer{}, err
	}

	return Transfer{Quantity: quantity, Commission: commission, Price: pair.Price}, nil
}

func checkConservation(source, target *Wallet, sourceBefore, targetBefore entity.Quantity,
	commission entity.Quantity, pair entity.ExchangePair, side entity.TradeSide) error {

	spent := sourceBefore.Size.Sub(source.TotalBalance().Size)
	targetDelta := target.TotalBalance().Size.Sub(targetBefore.Size)
	epsilon := source.Exchange().Options.ConservationEpsilon

	var expected decimal.Decimal
	if side == entity.SideBuy {
		// convert the target's gain back into the source instrument, the
		// commission is already denominated there
		deposited, err := entity.NewQuantity(target.Instrument(), targetDelta).Convert(pair)
		if err != nil {
			return errors.Wrap(err, "convert target delta")
		}
		expected = deposited.Size.Add(commission.Size)
	} else {
		// add the commission before converting to avoid precision underflow
		deposited, err := entity.NewQuantity(target.Instrument(), targetDelta.Add(commission.Size)).Convert(pair)
		if err != nil {
			return errors.Wrap(err, "convert target delta")
		}
		expected = deposited.Size
	}

	if diff := spent.Sub(expected).Abs(); !diff.LessThan(epsilon) {
		return errors.Wrapf(ErrConservation,
			"source spent %s %s but target received %s %s (diff %s, epsilon %s)",
			spent, source.Instrument(), expected, source.Instrument(), diff, epsilon)
	}

	return nil
}
