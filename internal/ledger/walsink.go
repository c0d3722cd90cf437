package ledger

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultLedgerDir     = "./wal/ledger"
	ledgerSegmentLimit   = 1000
	ledgerMaxSegments    = 100
	transactionKeyPrefix = "ledger_tx_"
)

// WALSink persists committed ledger transactions in a WAL so the audit trail
// survives the process.
type WALSink struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALSink initializes a WAL-backed sink under the provided directory.
func NewWALSink(dir string) (*WALSink, error) {
	if dir == "" {
		dir = defaultLedgerDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "ledger_",
		SegmentThreshold: ledgerSegmentLimit,
		MaxSegments:      ledgerMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init ledger WAL")
	}

	return &WALSink{wal: wal}, nil
}

// Append writes the transaction to WAL.
func (s *WALSink) Append(tx Transaction) error {
	if s == nil || s.wal == nil {
		return errors.New("ledger WAL sink is not initialized")
	}

	payload, err := json.Marshal(tx)
	if err != nil {
		return errors.Wrap(err, "marshal ledger transaction")
	}

	key := transactionKeyPrefix + tx.WalletID

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// TransactionsAfter returns all transactions written after the provided WAL index.
func (s *WALSink) TransactionsAfter(index uint64) ([]Transaction, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("ledger WAL sink is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	txs := make([]Transaction, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, transactionKeyPrefix) {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(payload, &tx); err != nil {
			return nil, errors.Wrap(err, "decode ledger transaction")
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALSink) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALSink) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("ledger WAL sink is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
