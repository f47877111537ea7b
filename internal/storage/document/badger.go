package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/sigco3111/core-quant/internal/core"
	"github.com/sigco3111/core-quant/internal/strategy"
)

// Key layout: documents live under s/<owner>/<id> so an owner's strategies
// share a prefix, and i/<id> maps an id back to its owner for direct gets.

// BadgerStore is an embedded strategy store backed by BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// BadgerConfig holds BadgerDB settings.
type BadgerConfig struct {
	// Path is the directory for the database files. Ignored in memory mode.
	Path string

	// InMemory disables disk persistence; used in tests.
	InMemory bool
}

// OpenBadger opens (creating if needed) a Badger-backed store.
func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, core.WrapError(core.ErrStoreFailed, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

func docKey(owner, id string) []byte {
	return []byte(fmt.Sprintf("s/%s/%s", owner, id))
}

func idKey(id string) []byte {
	return []byte("i/" + id)
}

// Put inserts or replaces the document and its id mapping.
func (b *BadgerStore) Put(ctx context.Context, s strategy.Strategy) error {
	data, err := json.Marshal(s)
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(docKey(s.Owner, s.ID), data); err != nil {
			return err
		}
		return txn.Set(idKey(s.ID), []byte(s.Owner))
	})
}

// Get retrieves a strategy by id.
func (b *BadgerStore) Get(ctx context.Context, id string) (strategy.Strategy, error) {
	var s strategy.Strategy

	err := b.db.View(func(txn *badger.Txn) error {
		owner, err := readValue(txn, idKey(id))
		if err != nil {
			return err
		}
		data, err := readValue(txn, docKey(string(owner), id))
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &s)
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return strategy.Strategy{}, core.ErrNotFound
	}
	if err != nil {
		return strategy.Strategy{}, core.WrapError(core.ErrStoreFailed, err)
	}
	return s, nil
}

// Delete removes the document and its id mapping.
func (b *BadgerStore) Delete(ctx context.Context, id string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		owner, err := readValue(txn, idKey(id))
		if err != nil {
			return err
		}
		if err := txn.Delete(docKey(string(owner), id)); err != nil {
			return err
		}
		return txn.Delete(idKey(id))
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return core.ErrNotFound
	}
	if err != nil {
		return core.WrapError(core.ErrStoreFailed, err)
	}
	return nil
}

// List scans the owner's partition (or every partition when no owner is
// set), then sorts and pages in memory.
func (b *BadgerStore) List(ctx context.Context, filter strategy.ListFilter) (strategy.Page, error) {
	prefix := []byte("s/")
	if filter.Owner != "" {
		prefix = []byte("s/" + filter.Owner + "/")
	}

	var matched []strategy.Strategy
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var s strategy.Strategy
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &s)
			})
			if err != nil {
				return err
			}
			if filter.Matches(s) {
				matched = append(matched, s)
			}
		}
		return nil
	})
	if err != nil {
		return strategy.Page{}, core.WrapError(core.ErrStoreFailed, err)
	}

	return strategy.SortAndPage(matched, filter), nil
}

func readValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}
