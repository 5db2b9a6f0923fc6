package querylog

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"cachie/internal/models"
)

const (
	recordPrefix      = "qlog:"
	recordSeqKey      = "qlogseq"
	sequenceBandwidth = 100
)

// Badger is a Log kept in an in-memory BadgerDB instance. Each scan runs in a
// single read-only transaction and therefore sees a consistent snapshot.
type Badger struct {
	db    *badger.DB
	seq   *badger.Sequence
	count atomic.Int64
}

var _ Log = (*Badger)(nil)

// badgerLogger adapts slog.Logger to the badger.Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLogger)(nil)

func (l *badgerLogger) Errorf(msg string, items ...any) {
	l.logger.Error(fmt.Sprintf(msg, items...))
}

func (l *badgerLogger) Warningf(msg string, items ...any) {
	l.logger.Warn(fmt.Sprintf(msg, items...))
}

func (l *badgerLogger) Infof(msg string, items ...any) {
	l.logger.Debug(fmt.Sprintf(msg, items...))
}

func (l *badgerLogger) Debugf(msg string, items ...any) {
	l.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBadger opens an in-memory BadgerDB-backed log.
func OpenBadger(logger *slog.Logger) (*Badger, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = &badgerLogger{logger: logger}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	seq, err := db.GetSequence([]byte(recordSeqKey), sequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to lease sequence: %w", err)
	}

	return &Badger{db: db, seq: seq}, nil
}

// makeRecordKey builds prefix + big-endian id so keys iterate in append order.
func makeRecordKey(id uint64) []byte {
	buf := make([]byte, len(recordPrefix)+8)
	offset := copy(buf, recordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// Append stores rec under the next sequence number.
func (b *Badger) Append(ctx context.Context, rec models.SearchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.db.IsClosed() {
		return ErrClosed
	}

	id, err := b.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to allocate record id: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeRecordKey(id), MarshalRecord(rec))
	})
	if err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}

	b.count.Add(1)
	return nil
}

// Len returns the number of committed appends.
func (b *Badger) Len() int {
	return int(b.count.Load())
}

// ForEach iterates all records in key order inside one read transaction.
func (b *Badger) ForEach(ctx context.Context, fn func(models.SearchRecord) error) error {
	if b.db.IsClosed() {
		return ErrClosed
	}

	return b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := txn.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var rec models.SearchRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				rec, err = UnmarshalRecord(val)
				return err
			})
			if err != nil {
				return fmt.Errorf("failed to decode record %x: %w", iter.Item().Key(), err)
			}

			if err := fn(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close releases the sequence lease and closes the database.
func (b *Badger) Close() error {
	if b.db.IsClosed() {
		return nil
	}
	if err := b.seq.Release(); err != nil {
		b.db.Close()
		return err
	}
	return b.db.Close()
}
