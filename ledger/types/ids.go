package types

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"

	"github.com/flowsplit/flowsplit/common"
)

// RecipientIDForAddress derives the recipient id of an external account
// recipient from its target address and the registration ordinal. The
// ordinal keeps ids unique across remove / re-add cycles of the same
// address.
func RecipientIDForAddress(addr common.Address, seq uint64) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("recipient/account/"))
	h.Write(addr.Bytes())
	h.Write(seqBytes(seq))
	return common.BytesToHash(h.Sum(nil))
}

// RecipientIDForNested derives the recipient id of a nested allocator
// recipient from the parent allocator address and the registration ordinal.
// The child address is not known at derivation time.
func RecipientIDForNested(parent common.Address, seq uint64) common.Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("recipient/nested/"))
	h.Write(parent.Bytes())
	h.Write(seqBytes(seq))
	return common.BytesToHash(h.Sum(nil))
}

// RootAllocatorAddress derives the address of a root allocator from its
// owner, for deployments that do not configure one explicitly.
func RootAllocatorAddress(owner common.Address) common.Address {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("allocator/root/"))
	h.Write(owner.Bytes())
	return common.BytesToAddress(h.Sum(nil))
}

// ChildAllocatorAddress derives the address of a child allocator from its
// parent and the recipient id it serves.
func ChildAllocatorAddress(parent common.Address, recipientID common.Hash) common.Address {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("allocator/child/"))
	h.Write(parent.Bytes())
	h.Write(recipientID.Bytes())
	return common.BytesToAddress(h.Sum(nil))
}

func seqBytes(seq uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return b[:]
}
