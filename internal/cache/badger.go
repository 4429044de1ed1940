// Folio - Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"

	"github.com/tomtom215/folio/internal/apperrors"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/models"
)

// incrRetries bounds optimistic-transaction retries on counter conflicts.
const incrRetries = 10

// BadgerStore is an embedded, disk-backed Backend for single-node deployments.
// Entry TTLs use Badger's native expiry.
type BadgerStore struct {
	db   *badger.DB
	path string
}

// OpenBadgerStore opens (or creates) a Badger database at path.
// An empty path opens an in-memory database.
func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}

	logging.Info().Str("path", path).Msg("Badger cache store opened")
	return &BadgerStore{db: db, path: path}, nil
}

// Name implements Backend.
func (b *BadgerStore) Name() string { return string(BackendBadger) }

// Get implements Store.
func (b *BadgerStore) Get(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, b.wrap("get", err)
	}
	return out, nil
}

// Set implements Store.
func (b *BadgerStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), value)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	return b.wrap("set", err)
}

// Delete implements Store.
func (b *BadgerStore) Delete(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	return b.wrap("delete", err)
}

// Incr implements Store.
func (b *BadgerStore) Incr(_ context.Context, key string) (int64, error) {
	var n int64
	var err error
	for attempt := 0; attempt < incrRetries; attempt++ {
		err = b.db.Update(func(txn *badger.Txn) error {
			n = 0
			item, gerr := txn.Get([]byte(key))
			switch {
			case errors.Is(gerr, badger.ErrKeyNotFound):
			case gerr != nil:
				return gerr
			default:
				raw, verr := item.ValueCopy(nil)
				if verr != nil {
					return verr
				}
				parsed, perr := strconv.ParseInt(string(raw), 10, 64)
				if perr != nil {
					return apperrors.New(apperrors.KindSerialization, "badger.incr", perr)
				}
				n = parsed
			}
			n++
			return txn.Set([]byte(key), []byte(strconv.FormatInt(n, 10)))
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindSerialization {
			return 0, err
		}
		return 0, b.wrap("incr", err)
	}
	return n, nil
}

// Keys implements Store. Results are sorted.
func (b *BadgerStore) Keys(_ context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0)
	prefix := []byte(literalPrefix(pattern))

	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			k := string(it.Item().KeyCopy(nil))
			if matchKey(pattern, k) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	if err != nil {
		return nil, b.wrap("keys", err)
	}

	sort.Strings(keys)
	return keys, nil
}

// Flush implements Store.
func (b *BadgerStore) Flush(_ context.Context) error {
	return b.wrap("flush", b.db.DropAll())
}

// Ping implements Store.
func (b *BadgerStore) Ping(_ context.Context) error {
	if b.db.IsClosed() {
		return b.wrap("ping", errClosed)
	}
	return nil
}

// Health implements Backend.
func (b *BadgerStore) Health(ctx context.Context) models.BackendHealth {
	if err := b.Ping(ctx); err != nil {
		return models.BackendHealth{Status: models.StatusUnhealthy, Backend: b.Name(), Message: err.Error()}
	}
	lsm, vlog := b.db.Size()
	return models.BackendHealth{
		Status:          models.StatusHealthy,
		Backend:         b.Name(),
		Version:         "badger/v4",
		UsedMemoryHuman: humanize.IBytes(uint64(lsm + vlog)),
	}
}

// Reconnect implements Backend. The embedded database has no connection.
func (b *BadgerStore) Reconnect(ctx context.Context) error {
	return b.Ping(ctx)
}

// Close implements Store.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

func (b *BadgerStore) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return apperrors.New(apperrors.KindBackendUnavailable, "badger."+op, err)
}
