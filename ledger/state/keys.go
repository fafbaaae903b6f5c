package state

import (
	"encoding/binary"

	"github.com/flowsplit/flowsplit/common"
)

//
// ------------------------- Allocator State Keys -------------------------
//

// ParamsKey returns the key for the allocator role parameters.
func ParamsKey() common.Bytes {
	return common.Bytes("as/params")
}

// RegistryMetaKey returns the key for the registry counters.
func RegistryMetaKey() common.Bytes {
	return common.Bytes("as/meta")
}

// RecipientKeyPrefix returns the prefix of per-recipient keys.
func RecipientKeyPrefix() common.Bytes {
	return common.Bytes("as/r/")
}

// RecipientKey constructs the state key for the given recipient id.
func RecipientKey(id common.Hash) common.Bytes {
	return append(RecipientKeyPrefix(), id[:]...)
}

// RecipientIndexKey returns the key for the append-only recipient id list.
func RecipientIndexKey() common.Bytes {
	return common.Bytes("as/ri")
}

// RecipientAddressKey constructs the key of the active address -> recipient
// id index entry for the given address.
func RecipientAddressKey(addr common.Address) common.Bytes {
	return append(common.Bytes("as/ra/"), addr[:]...)
}

// AllocationKey constructs the state key for the allocation of the given
// voting token.
func AllocationKey(tokenID uint64) common.Bytes {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], tokenID)
	return append(common.Bytes("as/va/"), b[:]...)
}

// RateSplitKey returns the key for the flow-rate split state.
func RateSplitKey() common.Bytes {
	return common.Bytes("as/rate")
}

// ChildSetKey returns the key for the deployed child allocator address set.
func ChildSetKey() common.Bytes {
	return common.Bytes("as/children")
}
