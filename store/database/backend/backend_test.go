package backend

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"sync"
	"testing"

	"github.com/flowsplit/flowsplit/store"
	"github.com/flowsplit/flowsplit/store/database"
)

func newTestLDB() (*LDBDatabase, func()) {
	dirname, err := ioutil.TempDir(os.TempDir(), "flowsplit_ldb_test_")
	if err != nil {
		panic("failed to create test dir: " + err.Error())
	}
	db, err := NewLDBDatabase(dirname, 0, 0)
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dirname)
	}
}

func newTestBadger() (*BadgerDatabase, func()) {
	dirname, err := ioutil.TempDir(os.TempDir(), "flowsplit_badger_test_")
	if err != nil {
		panic("failed to create test dir: " + err.Error())
	}
	db, err := NewBadgerDatabase(dirname)
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}
	return db, func() {
		db.Close()
		os.RemoveAll(dirname)
	}
}

var testValues = []string{"a", "1251", "\x00123\x00"}

func TestLDB_PutGet(t *testing.T) {
	db, remove := newTestLDB()
	defer remove()
	testPutGet(db, t)
}

func TestMemoryDB_PutGet(t *testing.T) {
	testPutGet(NewMemDatabase(), t)
}

func TestBadgerDB_PutGet(t *testing.T) {
	db, remove := newTestBadger()
	defer remove()
	testPutGet(db, t)
}

func testPutGet(db database.Database, t *testing.T) {
	for _, v := range testValues {
		if err := db.Put([]byte(v), []byte(v)); err != nil {
			t.Fatalf("put failed: %v", err)
		}
	}

	for _, v := range testValues {
		data, err := db.Get([]byte(v))
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !bytes.Equal(data, []byte(v)) {
			t.Fatalf("get returned wrong result, got %q expected %q", string(data), v)
		}
	}

	if _, err := db.Get([]byte("non-exist-key")); err != store.ErrKeyNotFound {
		t.Fatalf("expected a not found error, got %v", err)
	}

	exists, err := db.Has([]byte("non-exist-key"))
	if err != nil {
		t.Fatalf("has failed: %v", err)
	}
	if exists {
		t.Fatalf("expected not found")
	}

	exists, err = db.Has([]byte(testValues[0]))
	if err != nil {
		t.Fatalf("has failed: %v", err)
	}
	if !exists {
		t.Fatalf("expected key to exist")
	}

	for _, v := range testValues {
		if err := db.Put([]byte(v), []byte("?")); err != nil {
			t.Fatalf("put override failed: %v", err)
		}
	}

	for _, v := range testValues {
		data, err := db.Get([]byte(v))
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if !bytes.Equal(data, []byte("?")) {
			t.Fatalf("get returned wrong result, got %q expected ?", string(data))
		}
	}

	for _, v := range testValues {
		if err := db.Delete([]byte(v)); err != nil {
			t.Fatalf("delete %q failed: %v", v, err)
		}
	}

	for _, v := range testValues {
		if _, err := db.Get([]byte(v)); err != store.ErrKeyNotFound {
			t.Fatalf("got deleted value %q, err %v", v, err)
		}
	}
}

func TestLDB_Batch(t *testing.T) {
	db, remove := newTestLDB()
	defer remove()
	testBatch(db, t)
}

func TestMemoryDB_Batch(t *testing.T) {
	testBatch(NewMemDatabase(), t)
}

func TestBadgerDB_Batch(t *testing.T) {
	db, remove := newTestBadger()
	defer remove()
	testBatch(db, t)
}

func testBatch(db database.Database, t *testing.T) {
	batch := db.NewBatch()
	for _, v := range testValues {
		if err := batch.Put([]byte(v), []byte(v)); err != nil {
			t.Fatalf("batch put failed: %v", err)
		}
	}
	if batch.ValueSize() == 0 {
		t.Fatalf("batch value size not tracked")
	}

	// Nothing is visible before Write.
	if _, err := db.Get([]byte(testValues[0])); err != store.ErrKeyNotFound {
		t.Fatalf("batch leaked before write, err %v", err)
	}

	if err := batch.Write(); err != nil {
		t.Fatalf("batch write failed: %v", err)
	}
	for _, v := range testValues {
		data, err := db.Get([]byte(v))
		if err != nil || !bytes.Equal(data, []byte(v)) {
			t.Fatalf("get after batch write returned %q, %v", string(data), err)
		}
	}

	batch = db.NewBatch()
	if err := batch.Delete([]byte(testValues[0])); err != nil {
		t.Fatalf("batch delete failed: %v", err)
	}
	if err := batch.Write(); err != nil {
		t.Fatalf("batch write failed: %v", err)
	}
	if _, err := db.Get([]byte(testValues[0])); err != store.ErrKeyNotFound {
		t.Fatalf("batched delete did not apply, err %v", err)
	}
}

func TestLDB_ParallelPutGet(t *testing.T) {
	db, remove := newTestLDB()
	defer remove()
	testParallelPutGet(db, t)
}

func TestMemoryDB_ParallelPutGet(t *testing.T) {
	testParallelPutGet(NewMemDatabase(), t)
}

func testParallelPutGet(db database.Database, t *testing.T) {
	const n = 8
	var pending sync.WaitGroup

	pending.Add(n)
	for i := 0; i < n; i++ {
		go func(key string) {
			defer pending.Done()
			if err := db.Put([]byte(key), []byte("v"+key)); err != nil {
				panic("put failed: " + err.Error())
			}
		}(strconv.Itoa(i))
	}
	pending.Wait()

	pending.Add(n)
	for i := 0; i < n; i++ {
		go func(key string) {
			defer pending.Done()
			data, err := db.Get([]byte(key))
			if err != nil {
				panic("get failed: " + err.Error())
			}
			if !bytes.Equal(data, []byte("v"+key)) {
				panic(fmt.Sprintf("get failed, got %q expected %q", string(data), "v"+key))
			}
		}(strconv.Itoa(i))
	}
	pending.Wait()
}
