package types

import (
	"fmt"

	"github.com/flowsplit/flowsplit/common"
)

// AllocatorParams are the fixed roles of one allocator instance. Owner and
// curator control the registry, the manager controls the rate split, and
// Parent is non-zero only for a nested allocator deployed by the flow
// factory.
type AllocatorParams struct {
	Addr    common.Address
	Owner   common.Address
	Curator common.Address
	Manager common.Address
	Parent  common.Address
}

// CanCurate reports whether the caller may mutate the recipient registry.
// An unset role never matches, so instances deployed without a curator do
// not admit the zero address.
func (p AllocatorParams) CanCurate(caller common.Address) bool {
	return hasRole(caller, p.Owner) || hasRole(caller, p.Curator)
}

// CanManageRates reports whether the caller may change the rate split.
func (p AllocatorParams) CanManageRates(caller common.Address) bool {
	return hasRole(caller, p.Manager) || hasRole(caller, p.Owner)
}

func hasRole(caller, role common.Address) bool {
	return !role.IsZero() && caller == role
}

// IsParent reports whether the caller is the registered parent allocator.
func (p AllocatorParams) IsParent(caller common.Address) bool {
	return !p.Parent.IsZero() && caller == p.Parent
}

func (p AllocatorParams) String() string {
	return fmt.Sprintf("AllocatorParams{addr:%v owner:%v curator:%v manager:%v parent:%v}",
		p.Addr.Hex(), p.Owner.Hex(), p.Curator.Hex(), p.Manager.Hex(), p.Parent.Hex())
}

// RegistryMeta carries the registry counters. ActiveCount tracks recipients
// that are not removed. TotalCount only ever grows and seeds recipient id
// derivation, so an address that is removed and later re-added gets a fresh
// id and the tombstoned one is never reused.
type RegistryMeta struct {
	ActiveCount uint64
	TotalCount  uint64
}

// ChildSet is the persisted set of deployed child allocator addresses.
type ChildSet struct {
	Addrs []common.Address
}

// RecipientIndex is the persisted, append-only list of recipient ids, in
// registration order. Removed recipients stay listed (tombstoned).
type RecipientIndex struct {
	IDs []common.Hash
}
