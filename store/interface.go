package store

import (
	"github.com/pkg/errors"

	"github.com/flowsplit/flowsplit/common"
)

// ErrKeyNotFound is returned if the key is not found in the store.
var ErrKeyNotFound = errors.New("key not found")

// Store is the interface for key/value storages with typed values.
type Store interface {
	Put(key common.Bytes, value interface{}) error
	Delete(key common.Bytes) error
	Get(key common.Bytes, value interface{}) error
}
