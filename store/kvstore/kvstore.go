package kvstore

import (
	amino "github.com/tendermint/go-amino"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/store"
	"github.com/flowsplit/flowsplit/store/database"
)

var cdc = amino.NewCodec()

// NewKVStore creates a new instance of KVStore.
func NewKVStore(db database.Database) store.Store {
	return &KVStore{db}
}

// KVStore is a Database wrapped with amino value encoding.
type KVStore struct {
	db database.Database
}

// Put upserts key/value into DB.
func (store *KVStore) Put(key common.Bytes, value interface{}) error {
	encodedValue, err := cdc.MarshalBinaryBare(value)
	if err != nil {
		return err
	}
	return store.db.Put(key, encodedValue)
}

// Delete deletes key entry from DB.
func (store *KVStore) Delete(key common.Bytes) error {
	return store.db.Delete(key)
}

// Get looks up DB with key and deserializes the result into value (passed by
// reference).
func (store *KVStore) Get(key common.Bytes, value interface{}) error {
	encodedValue, err := store.db.Get(key)
	if err != nil {
		return err
	}
	// amino encodes the zero value of a struct as zero bytes; decode that
	// back to the zero value instead of erroring.
	if len(encodedValue) == 0 {
		return nil
	}
	return cdc.UnmarshalBinaryBare(encodedValue, value)
}
