package database

// Database wraps all raw byte access to the underlying key/value storage.
type Database interface {
	Put(key []byte, value []byte) error
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Delete(key []byte) error
	NewBatch() Batch
	Close()
}

// Batch is a write-only database that commits changes to its host database
// when Write is called. Batch cannot be used concurrently.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Write() error
	ValueSize() int
	Reset()
}
