// Command treasury runs a wallet-ledger simulation: it seeds wallets from
// configuration, executes the scripted order fills through the transfer
// protocol and reports final balances and the committed ledger size.
//
// Usage:
//
//	treasury --config config.yaml
//	treasury (uses a built-in demo simulation)
package main

import (
	"log"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vadiminshakov/treasury/config"
	"github.com/vadiminshakov/treasury/internal/entity"
	"github.com/vadiminshakov/treasury/internal/exchange"
	"github.com/vadiminshakov/treasury/internal/ledger"
	"github.com/vadiminshakov/treasury/internal/wallet"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	book := ledger.New()
	if cfg.LedgerDir != "" {
		sink, err := ledger.NewWALSink(cfg.LedgerDir)
		if err != nil {
			logger.Fatal("failed to init ledger WAL sink", zap.Error(err))
		}
		defer sink.Close()
		book = ledger.NewWithSink(sink)
	}

	instruments := make(map[string]entity.Instrument, len(cfg.Instruments))
	for _, i := range cfg.Instruments {
		instruments[i.Symbol] = entity.NewInstrument(i.Symbol, i.Precision)
	}

	exchanges := make(map[string]*exchange.Exchange, len(cfg.Exchanges))
	for _, e := range cfg.Exchanges {
		exchanges[e.Name] = exchange.New(e.Name, exchange.Options{
			Commission:          e.Commission,
			ConservationEpsilon: e.ConservationEpsilon,
		})
	}

	wallets := make(map[string]*wallet.Wallet, len(cfg.Wallets))
	for _, w := range cfg.Wallets {
		balance := entity.NewQuantity(instruments[w.Instrument], w.Balance)
		wallets[w.Exchange+":"+w.Instrument] = wallet.New(exchanges[w.Exchange], balance, book, logger)
	}

	for _, f := range cfg.Fills {
		pair := entity.NewExchangePair(instruments[f.Base], instruments[f.Quote], f.Price)

		side := entity.SideBuy
		source := wallets[f.Exchange+":"+f.Base]
		target := wallets[f.Exchange+":"+f.Quote]
		if f.Side == "sell" {
			side = entity.SideSell
			source, target = wallets[f.Exchange+":"+f.Quote], wallets[f.Exchange+":"+f.Base]
		}
		if source == nil || target == nil {
			logger.Fatal("fill references wallets that are not configured",
				zap.String("exchange", f.Exchange),
				zap.String("pair", pair.String()))
		}

		pathID := uuid.New().String()
		quantity, err := source.Lock(entity.NewQuantity(source.Instrument(), f.Quantity), pathID, "OPEN ORDER")
		if err != nil {
			logger.Fatal("failed to lock funds for fill", zap.Error(err), zap.String("path_id", pathID))
		}

		result, err := wallet.TransferFunds(source, target, quantity, pair, side)
		if err != nil {
			logger.Fatal("fill failed", zap.Error(err), zap.String("path_id", pathID))
		}

		logger.Info("fill executed",
			zap.String("pair", pair.String()),
			zap.String("side", side.String()),
			zap.String("quantity", result.Quantity.String()),
			zap.String("commission", result.Commission.String()),
			zap.String("price", result.Price.String()))
	}

	for key, w := range wallets {
		logger.Info("final balance",
			zap.String("wallet", key),
			zap.String("free", w.Balance().String()),
			zap.String("locked", w.LockedBalance().String()))
	}

	logger.Info("simulation finished", zap.Int("ledger_transactions", book.Size()))
}
