package state

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/flowsplit/flowsplit/common"
	"github.com/flowsplit/flowsplit/ledger/types"
	"github.com/flowsplit/flowsplit/store"
	"github.com/flowsplit/flowsplit/store/database"
	"github.com/flowsplit/flowsplit/store/kvstore"
)

const recipientCacheSize = 1024

//
// ------------------------- StoreView -------------------------
//

// StoreView provides typed access to the persisted state of one allocator
// instance. Every key is namespaced with the instance address, so multiple
// allocators can share one database without sharing any state.
type StoreView struct {
	prefix common.Bytes
	db     database.Database
	kv     store.Store

	// recipient records are read on every vote entry, so they get a small
	// read cache. The cache is updated on writes and never served stale.
	recipients *lru.Cache
}

// NewStoreView creates a StoreView for the instance with the given address.
func NewStoreView(instance common.Address, db database.Database) *StoreView {
	cache, err := lru.New(recipientCacheSize)
	if err != nil {
		panic(fmt.Sprintf("Failed to create recipient cache: %v", err))
	}
	prefix := append(common.Bytes("fs/"), instance[:]...)
	prefix = append(prefix, '/')
	return &StoreView{
		prefix:     prefix,
		db:         db,
		kv:         kvstore.NewKVStore(db),
		recipients: cache,
	}
}

// key namespaces a state key with the instance prefix. A fresh slice is
// returned so callers can never alias the prefix buffer.
func (sv *StoreView) key(key common.Bytes) common.Bytes {
	k := make(common.Bytes, 0, len(sv.prefix)+len(key))
	k = append(k, sv.prefix...)
	return append(k, key...)
}

// Get returns the raw value stored under the instance-prefixed key, or nil
// if absent.
func (sv *StoreView) Get(key common.Bytes) common.Bytes {
	value, err := sv.db.Get(sv.key(key))
	if err != nil {
		if err == store.ErrKeyNotFound {
			return nil
		}
		panic(fmt.Sprintf("Error reading key %s: %v", key, err))
	}
	return value
}

// Set stores the raw value under the instance-prefixed key.
func (sv *StoreView) Set(key common.Bytes, value common.Bytes) {
	if err := sv.db.Put(sv.key(key), value); err != nil {
		panic(fmt.Sprintf("Error writing key %s: %v", key, err))
	}
}

// Delete removes the instance-prefixed key.
func (sv *StoreView) Delete(key common.Bytes) {
	err := sv.db.Delete(sv.key(key))
	if err != nil && err != store.ErrKeyNotFound {
		panic(fmt.Sprintf("Error deleting key %s: %v", key, err))
	}
}

func (sv *StoreView) getObj(key common.Bytes, obj interface{}) bool {
	err := sv.kv.Get(sv.key(key), obj)
	if err != nil {
		if err == store.ErrKeyNotFound {
			return false
		}
		panic(fmt.Sprintf("Error decoding state under key %s: %v", key, err))
	}
	return true
}

func (sv *StoreView) setObj(key common.Bytes, obj interface{}) {
	if err := sv.kv.Put(sv.key(key), obj); err != nil {
		panic(fmt.Sprintf("Error encoding state for key %s: %v", key, err))
	}
}

// GetParams returns the allocator role parameters, or nil if the instance
// was never initialized.
func (sv *StoreView) GetParams() *types.AllocatorParams {
	params := &types.AllocatorParams{}
	if !sv.getObj(ParamsKey(), params) {
		return nil
	}
	return params
}

// SetParams persists the allocator role parameters.
func (sv *StoreView) SetParams(params *types.AllocatorParams) {
	sv.setObj(ParamsKey(), params)
}

// GetRecipient returns the recipient with the given id, nil if unknown.
func (sv *StoreView) GetRecipient(id common.Hash) *types.Recipient {
	if cached, ok := sv.recipients.Get(id); ok {
		cpy := *cached.(*types.Recipient)
		return &cpy
	}
	recipient := &types.Recipient{}
	if !sv.getObj(RecipientKey(id), recipient) {
		return nil
	}
	cpy := *recipient
	sv.recipients.Add(id, &cpy)
	return recipient
}

// SetRecipient persists the recipient and refreshes the read cache.
func (sv *StoreView) SetRecipient(recipient *types.Recipient) {
	sv.setObj(RecipientKey(recipient.ID), recipient)
	cpy := *recipient
	sv.recipients.Add(recipient.ID, &cpy)
}

// RecipientIDByAddress resolves an active recipient id from its target
// address. The index entry is deleted on removal, so tombstoned recipients
// do not resolve.
func (sv *StoreView) RecipientIDByAddress(addr common.Address) (common.Hash, bool) {
	var id common.Hash
	data := sv.Get(RecipientAddressKey(addr))
	if len(data) == 0 {
		return id, false
	}
	id.SetBytes(data)
	return id, true
}

// SetRecipientAddressIndex records the active address -> id mapping.
func (sv *StoreView) SetRecipientAddressIndex(addr common.Address, id common.Hash) {
	sv.Set(RecipientAddressKey(addr), id.Bytes())
}

// DeleteRecipientAddressIndex drops the active address -> id mapping.
func (sv *StoreView) DeleteRecipientAddressIndex(addr common.Address) {
	sv.Delete(RecipientAddressKey(addr))
}

// GetRecipientIndex returns the append-only recipient id list.
func (sv *StoreView) GetRecipientIndex() *types.RecipientIndex {
	index := &types.RecipientIndex{}
	sv.getObj(RecipientIndexKey(), index)
	return index
}

// AppendRecipientIndex appends a newly registered recipient id.
func (sv *StoreView) AppendRecipientIndex(id common.Hash) {
	index := sv.GetRecipientIndex()
	index.IDs = append(index.IDs, id)
	sv.setObj(RecipientIndexKey(), index)
}

// ForEachRecipient invokes the callback for every registered recipient,
// including tombstoned ones, in registration order. The callback returns
// false to stop the iteration.
func (sv *StoreView) ForEachRecipient(cb func(*types.Recipient) bool) {
	index := sv.GetRecipientIndex()
	for _, id := range index.IDs {
		recipient := sv.GetRecipient(id)
		if recipient == nil {
			panic(fmt.Sprintf("Indexed recipient %v has no record", id.Hex()))
		}
		if !cb(recipient) {
			return
		}
	}
}

// GetAllocation returns the current allocation of the voting token, nil if
// the token never voted.
func (sv *StoreView) GetAllocation(tokenID uint64) *types.VoterAllocation {
	allocation := &types.VoterAllocation{}
	if !sv.getObj(AllocationKey(tokenID), allocation) {
		return nil
	}
	return allocation
}

// SetAllocation overwrites the allocation of the voting token.
func (sv *StoreView) SetAllocation(allocation *types.VoterAllocation) {
	sv.setObj(AllocationKey(allocation.TokenID), allocation)
}

// GetRegistryMeta returns the registry counters.
func (sv *StoreView) GetRegistryMeta() types.RegistryMeta {
	meta := types.RegistryMeta{}
	sv.getObj(RegistryMetaKey(), &meta)
	return meta
}

// SetRegistryMeta persists the registry counters.
func (sv *StoreView) SetRegistryMeta(meta types.RegistryMeta) {
	sv.setObj(RegistryMetaKey(), &meta)
}

// GetRateSplit returns the flow-rate split state. A fresh instance has an
// all-zero split.
func (sv *StoreView) GetRateSplit() *types.RateSplit {
	split := &types.RateSplit{}
	sv.getObj(RateSplitKey(), split)
	return split
}

// SetRateSplit persists the flow-rate split state.
func (sv *StoreView) SetRateSplit(split *types.RateSplit) {
	sv.setObj(RateSplitKey(), split)
}

// GetChildSet returns the set of deployed child allocator addresses.
func (sv *StoreView) GetChildSet() *types.ChildSet {
	children := &types.ChildSet{}
	sv.getObj(ChildSetKey(), children)
	return children
}

// AddChild records a newly deployed child allocator address.
func (sv *StoreView) AddChild(addr common.Address) {
	children := sv.GetChildSet()
	children.Addrs = append(children.Addrs, addr)
	sv.setObj(ChildSetKey(), children)
}
