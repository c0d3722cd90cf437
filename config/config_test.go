package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
ledger_dir: ./wal/ledger
instruments:
  - symbol: USD
    precision: 2
  - symbol: BTC
    precision: 8
exchanges:
  - name: simex
    commission: "0.001"
    conservation_epsilon: "0.00001"
wallets:
  - exchange: simex
    instrument: USD
    balance: "10000"
  - exchange: simex
    instrument: BTC
    balance: "0"
fills:
  - exchange: simex
    base: USD
    quote: BTC
    price: "20000"
    side: buy
    quantity: "100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "./wal/ledger", cfg.LedgerDir)
	require.Len(t, cfg.Instruments, 2)
	assert.Equal(t, int32(8), cfg.Instruments[1].Precision)

	require.Len(t, cfg.Exchanges, 1)
	assert.True(t, cfg.Exchanges[0].Commission.Equal(decimal.RequireFromString("0.001")))
	assert.True(t, cfg.Exchanges[0].ConservationEpsilon.Equal(decimal.RequireFromString("0.00001")))

	require.Len(t, cfg.Wallets, 2)
	assert.True(t, cfg.Wallets[0].Balance.Equal(decimal.NewFromInt(10000)))

	require.Len(t, cfg.Fills, 1)
	assert.Equal(t, "buy", cfg.Fills[0].Side)
	assert.True(t, cfg.Fills[0].Price.Equal(decimal.NewFromInt(20000)))
}

func TestLoadUnknownExchangeReference(t *testing.T) {
	path := writeConfig(t, `
instruments:
  - symbol: USD
    precision: 2
exchanges:
  - name: simex
    commission: "0.001"
wallets:
  - exchange: other
    instrument: USD
    balance: "100"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown exchange")
}

func TestLoadInvalidDecimal(t *testing.T) {
	path := writeConfig(t, `
instruments:
  - symbol: USD
    precision: 2
exchanges:
  - name: simex
    commission: "not-a-number"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commission")
}

func TestLoadInvalidFillSide(t *testing.T) {
	path := writeConfig(t, `
instruments:
  - symbol: USD
    precision: 2
  - symbol: BTC
    precision: 8
exchanges:
  - name: simex
    commission: "0.001"
fills:
  - exchange: simex
    base: USD
    quote: BTC
    price: "20000"
    side: hold
    quantity: "100"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "side must be buy or sell")
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	require.Len(t, cfg.Instruments, 2)
	require.Len(t, cfg.Exchanges, 1)
	require.Len(t, cfg.Wallets, 2)
	require.Len(t, cfg.Fills, 1)
	assert.Empty(t, cfg.LedgerDir)
}
