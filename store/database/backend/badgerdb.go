package backend

import (
	"github.com/dgraph-io/badger"

	"github.com/flowsplit/flowsplit/store"
	"github.com/flowsplit/flowsplit/store/database"
)

// BadgerDatabase is a BadgerDB backed database.
type BadgerDatabase struct {
	db *badger.DB
}

// NewBadgerDatabase returns a BadgerDB wrapped object.
func NewBadgerDatabase(dirname string) (*BadgerDatabase, error) {
	opts := badger.DefaultOptions(dirname)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &BadgerDatabase{
		db: db,
	}, nil
}

// Put puts the given key / value pair into the database.
func (db *BadgerDatabase) Put(key []byte, value []byte) error {
	return db.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

// Has checks if the given key is present in the database.
func (db *BadgerDatabase) Has(key []byte) (bool, error) {
	err := db.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if err != nil {
		if err == badger.ErrKeyNotFound || err == badger.ErrEmptyKey {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Get returns the given key if it's present.
func (db *BadgerDatabase) Get(key []byte) ([]byte, error) {
	var value []byte
	err := db.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			if err == badger.ErrKeyNotFound || err == badger.ErrEmptyKey {
				return store.ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

// Delete deletes the key from the database.
func (db *BadgerDatabase) Delete(key []byte) error {
	err := db.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
	if err == badger.ErrKeyNotFound || err == badger.ErrEmptyKey {
		return store.ErrKeyNotFound
	}
	return err
}

func (db *BadgerDatabase) Close() {
	db.db.Close()
}

func (db *BadgerDatabase) NewBatch() database.Batch {
	return &badgerdbBatch{db: db.db}
}

type badgerdbBatch struct {
	db      *badger.DB
	puts    []kvPair
	deletes [][]byte
	size    int
}

type kvPair struct {
	key   []byte
	value []byte
}

func (b *badgerdbBatch) Put(key, value []byte) error {
	b.puts = append(b.puts, kvPair{key: key, value: value})
	b.size += len(value)
	return nil
}

func (b *badgerdbBatch) Delete(key []byte) error {
	b.deletes = append(b.deletes, key)
	b.size++
	return nil
}

func (b *badgerdbBatch) Write() error {
	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	for _, kv := range b.puts {
		err := txn.Set(kv.key, kv.value)
		if err == badger.ErrTxnTooBig {
			if err := txn.Commit(); err != nil {
				return err
			}
			txn = b.db.NewTransaction(true)
			err = txn.Set(kv.key, kv.value)
		}
		if err != nil {
			return err
		}
	}

	for _, key := range b.deletes {
		err := txn.Delete(key)
		if err == badger.ErrTxnTooBig {
			if err := txn.Commit(); err != nil {
				return err
			}
			txn = b.db.NewTransaction(true)
			err = txn.Delete(key)
		}
		if err != nil {
			return err
		}
	}

	if err := txn.Commit(); err != nil {
		return err
	}
	b.Reset()
	return nil
}

func (b *badgerdbBatch) ValueSize() int {
	return b.size
}

func (b *badgerdbBatch) Reset() {
	b.puts = nil
	b.deletes = nil
	b.size = 0
}
